package mockapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/models"
)

type contextKey string

const userKey contextKey = "mockapi.user"

func contextWithUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userKey, user))
}

func requestUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userKey).(*models.User)
	return user
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// newReferenceCode mints a short human-readable correlation key.
func newReferenceCode(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.New().String()[:8])
}

// --- auth ---

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if !strings.EqualFold(user.Email, body.Email) {
			continue
		}
		if !user.Active {
			writeError(w, http.StatusForbidden, "Account is deactivated")
			return
		}
		if s.passwords[user.ID] != body.Password {
			break
		}
		writeData(w, http.StatusOK, map[string]any{
			"accessToken": s.issueToken(user),
			"expiresIn":   tokenTTL.Milliseconds(),
			"user":        user,
		})
		return
	}
	writeError(w, http.StatusUnauthorized, "Invalid email or password")
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.FullName == "" || body.Email == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "Full name, email and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Email, body.Email) {
			writeError(w, http.StatusConflict, "Email is already registered")
			return
		}
	}
	role := strings.ToUpper(body.Role)
	if _, ok := rolePermissions[role]; !ok {
		role = models.RoleStudent
	}
	user := &models.User{
		ID:        s.allocID("user"),
		FullName:  body.FullName,
		Email:     body.Email,
		Role:      role,
		Active:    true,
		CreatedAt: timestamp(s.now()),
	}
	s.users[user.ID] = user
	s.passwords[user.ID] = body.Password
	writeData(w, http.StatusCreated, user)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	user := requestUser(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.passwords[user.ID] != body.CurrentPassword {
		writeError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	if len(body.NewPassword) < 8 {
		writeError(w, http.StatusBadRequest, "New password must be at least 8 characters")
		return
	}
	s.passwords[user.ID] = body.NewPassword
	w.WriteHeader(http.StatusNoContent)
}

// --- items ---

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	items := make([]*models.Item, 0, len(s.items))
	for _, it := range s.items {
		items = append(items, it)
	}
	s.mu.Unlock()
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	writeCollection(w, r, items)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var item models.Item
	if !decodeBody(w, r, &item) {
		return
	}
	if item.Name == "" || item.Category == "" {
		writeError(w, http.StatusBadRequest, "Name and category are required")
		return
	}
	s.mu.Lock()
	item.ID = s.allocID("item")
	item.CreatedAt = timestamp(s.now())
	s.items[item.ID] = &item
	s.mu.Unlock()
	writeData(w, http.StatusCreated, &item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item id")
		return
	}
	var in models.Item
	if !decodeBody(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}
	in.ID = item.ID
	in.CreatedAt = item.CreatedAt
	in.UpdatedAt = timestamp(s.now())
	s.items[id] = &in
	writeData(w, http.StatusOK, &in)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	user := requestUser(r)
	if !s.userHas(user, models.PermManageItems) {
		writeError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}
	delete(s.items, id)
	w.WriteHeader(http.StatusNoContent)
}

// --- lost reports ---

func (s *Server) handleListLost(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	s.mu.Lock()
	reports := make([]*models.LostReport, 0, len(s.lost))
	for _, rep := range s.lost {
		if userID != "" && userID != itoa(rep.UserID) {
			continue
		}
		reports = append(reports, rep)
	}
	s.mu.Unlock()
	sort.Slice(reports, func(i, j int) bool { return reports[i].ID < reports[j].ID })
	writeCollection(w, r, reports)
}

func (s *Server) handleCreateLost(w http.ResponseWriter, r *http.Request) {
	var rep models.LostReport
	if !decodeBody(w, r, &rep) {
		return
	}
	if rep.LocationLost == "" || rep.DateLost == "" {
		writeError(w, http.StatusBadRequest, "Location and date lost are required")
		return
	}
	s.mu.Lock()
	rep.ID = s.allocID("lost")
	rep.ReferenceCode = newReferenceCode("LST")
	rep.Status = models.LostPending
	rep.CreatedAt = timestamp(s.now())
	s.lost[rep.ID] = &rep
	s.mu.Unlock()
	writeData(w, http.StatusCreated, &rep)
}

func (s *Server) handleUpdateLost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report id")
		return
	}
	var in models.LostReport
	if !decodeBody(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rep, ok := s.lost[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Lost report not found")
		return
	}
	// Identity and lifecycle fields never change through an update.
	in.ID = rep.ID
	in.ReferenceCode = rep.ReferenceCode
	in.Status = rep.Status
	in.CreatedAt = rep.CreatedAt
	in.UpdatedAt = timestamp(s.now())
	s.lost[id] = &in
	writeData(w, http.StatusOK, &in)
}

func (s *Server) handleDeleteLost(w http.ResponseWriter, r *http.Request) {
	user := requestUser(r)
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rep, ok := s.lost[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Lost report not found")
		return
	}
	if rep.UserID != user.ID && !s.userHas(user, models.PermManageReports) {
		writeError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}
	delete(s.lost, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLostStatus(w http.ResponseWriter, r *http.Request) {
	user := requestUser(r)
	if !s.userHas(user, models.PermManageReports) {
		writeError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report id")
		return
	}
	status := models.LostReportStatus(r.URL.Query().Get("status"))
	if !status.Known() {
		writeError(w, http.StatusBadRequest, "Unknown lost report status")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rep, ok := s.lost[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Lost report not found")
		return
	}
	rep.Status = status
	rep.UpdatedAt = timestamp(s.now())
	writeData(w, http.StatusOK, rep)
}

// --- found reports ---

func (s *Server) handleListFound(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	reports := make([]*models.FoundReport, 0, len(s.found))
	for _, rep := range s.found {
		reports = append(reports, rep)
	}
	s.mu.Unlock()
	sort.Slice(reports, func(i, j int) bool { return reports[i].ID < reports[j].ID })
	writeCollection(w, r, reports)
}

// handleCreateFound registers a found report. When the submission carries a
// lostReferenceCode matching an open lost report, the two are correlated:
// the lost report moves to MATCHED and the found report inherits its item.
func (s *Server) handleCreateFound(w http.ResponseWriter, r *http.Request) {
	var body struct {
		models.FoundReport
		LostReferenceCode string `json:"lostReferenceCode"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.LocationFound == "" || body.DateFound == "" {
		writeError(w, http.StatusBadRequest, "Location and date found are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rep := body.FoundReport
	rep.ID = s.allocID("found")
	rep.ReferenceCode = newReferenceCode("FND")
	rep.Status = models.FoundAvailable
	rep.CreatedAt = timestamp(s.now())

	if ref := strings.TrimSpace(body.LostReferenceCode); ref != "" {
		matched := false
		for _, lr := range s.lost {
			if !strings.EqualFold(lr.ReferenceLabel(), ref) {
				continue
			}
			if lr.Status == models.LostPending {
				lr.Status = models.LostMatched
				lr.UpdatedAt = timestamp(s.now())
			}
			if rep.ItemID == 0 {
				rep.ItemID = lr.ItemID
			}
			matched = true
			break
		}
		if !matched {
			writeError(w, http.StatusNotFound, "No lost report matches the reference code")
			return
		}
	}

	s.found[rep.ID] = &rep
	writeData(w, http.StatusCreated, &rep)
}

func (s *Server) handleUpdateFound(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report id")
		return
	}
	var in models.FoundReport
	if !decodeBody(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rep, ok := s.found[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Found report not found")
		return
	}
	in.ID = rep.ID
	in.ReferenceCode = rep.ReferenceCode
	in.Status = rep.Status
	in.CreatedAt = rep.CreatedAt
	in.UpdatedAt = timestamp(s.now())
	s.found[id] = &in
	writeData(w, http.StatusOK, &in)
}

func (s *Server) handleDeleteFound(w http.ResponseWriter, r *http.Request) {
	user := requestUser(r)
	if !s.userHas(user, models.PermManageReports) {
		writeError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.found[id]; !ok {
		writeError(w, http.StatusNotFound, "Found report not found")
		return
	}
	delete(s.found, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFoundStatus(w http.ResponseWriter, r *http.Request) {
	user := requestUser(r)
	if !s.userHas(user, models.PermManageReports) {
		writeError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report id")
		return
	}
	status := models.FoundReportStatus(r.URL.Query().Get("status"))
	if !status.Known() {
		writeError(w, http.StatusBadRequest, "Unknown found report status")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rep, ok := s.found[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Found report not found")
		return
	}
	rep.Status = status
	rep.UpdatedAt = timestamp(s.now())
	writeData(w, http.StatusOK, rep)
}

// --- claims ---

func (s *Server) handleListClaims(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	s.mu.Lock()
	claims := make([]*models.Claim, 0, len(s.claims))
	for _, c := range s.claims {
		if userID != "" && userID != itoa(c.UserID) {
			continue
		}
		withUser := *c
		withUser.User = s.users[c.UserID]
		claims = append(claims, &withUser)
	}
	s.mu.Unlock()
	sort.Slice(claims, func(i, j int) bool { return claims[i].ID < claims[j].ID })
	writeCollection(w, r, claims)
}

// handleCreateClaim opens a PENDING claim against a found report and moves
// the report to CLAIM_PENDING so it stops being offered as available.
func (s *Server) handleCreateClaim(w http.ResponseWriter, r *http.Request) {
	var claim models.Claim
	if !decodeBody(w, r, &claim) {
		return
	}
	if claim.FoundReportID == 0 || strings.TrimSpace(claim.Reason) == "" {
		writeError(w, http.StatusBadRequest, "Found report and reason are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rep, ok := s.found[claim.FoundReportID]
	if !ok {
		writeError(w, http.StatusNotFound, "Found report not found")
		return
	}
	if rep.Status != models.FoundAvailable && rep.Status != models.FoundClaimPending {
		writeError(w, http.StatusConflict, "Found report is not open for claims")
		return
	}
	if claim.UserID == 0 {
		claim.UserID = requestUser(r).ID
	}
	claim.ID = s.allocID("claim")
	claim.Status = models.ClaimPending
	claim.ReviewedByID = nil
	claim.ReviewNotes = ""
	if claim.Attachments == nil {
		claim.Attachments = []string{}
	}
	claim.CreatedAt = timestamp(s.now())
	s.claims[claim.ID] = &claim

	rep.Status = models.FoundClaimPending
	rep.UpdatedAt = timestamp(s.now())
	writeData(w, http.StatusCreated, &claim)
}

// handleClaimStatus applies a review decision or a cancellation. Only
// PENDING claims accept a transition. Approval settles the whole found
// report: it moves to CLAIMED and every sibling PENDING claim is rejected,
// so at most one claim per report ever ends up APPROVED.
func (s *Server) handleClaimStatus(w http.ResponseWriter, r *http.Request) {
	user := requestUser(r)
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid claim id")
		return
	}
	q := r.URL.Query()
	target := models.ClaimStatus(q.Get("status"))

	s.mu.Lock()
	defer s.mu.Unlock()
	claim, ok := s.claims[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Claim not found")
		return
	}

	switch target {
	case models.ClaimApproved, models.ClaimRejected:
		if !s.userHas(user, models.PermVerifyClaim) {
			writeError(w, http.StatusForbidden, "Insufficient permissions")
			return
		}
	case models.ClaimCancelled:
		if claim.UserID != user.ID && !s.userHas(user, models.PermVerifyClaim) {
			writeError(w, http.StatusForbidden, "Only the claimant can cancel this claim")
			return
		}
	default:
		writeError(w, http.StatusBadRequest, "Unknown claim status")
		return
	}

	if err := models.ValidateClaimTransition(claim.Status, target); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	claim.Status = target
	claim.ReviewNotes = q.Get("reviewNotes")
	if target != models.ClaimCancelled {
		reviewer := user.ID
		claim.ReviewedByID = &reviewer
	}
	claim.UpdatedAt = timestamp(s.now())

	rep := s.found[claim.FoundReportID]
	switch target {
	case models.ClaimApproved:
		if rep != nil {
			rep.Status = models.FoundClaimed
			rep.UpdatedAt = timestamp(s.now())
		}
		for _, sibling := range s.claims {
			if sibling.ID == claim.ID || sibling.FoundReportID != claim.FoundReportID {
				continue
			}
			if sibling.Status == models.ClaimPending {
				sibling.Status = models.ClaimRejected
				sibling.ReviewNotes = "Another claim for this item was approved"
				sibling.ReviewedByID = claim.ReviewedByID
				sibling.UpdatedAt = timestamp(s.now())
			}
		}
	case models.ClaimRejected, models.ClaimCancelled:
		if rep != nil && rep.Status == models.FoundClaimPending && !s.hasOpenClaims(claim.FoundReportID) {
			rep.Status = models.FoundAvailable
			rep.UpdatedAt = timestamp(s.now())
		}
	}

	writeData(w, http.StatusOK, claim)
}

// hasOpenClaims reports whether any PENDING claim still targets the report.
// Callers hold s.mu.
func (s *Server) hasOpenClaims(foundReportID int64) bool {
	for _, c := range s.claims {
		if c.FoundReportID == foundReportID && c.Status == models.ClaimPending {
			return true
		}
	}
	return false
}

// --- users ---

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if !s.userHas(requestUser(r), models.PermManageUsers) {
		writeError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}
	s.mu.Lock()
	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	s.mu.Unlock()
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	writeCollection(w, r, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	if !s.userHas(requestUser(r), models.PermManageUsers) {
		writeError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}
	var body struct {
		models.User
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.FullName == "" || body.Email == "" {
		writeError(w, http.StatusBadRequest, "Full name and email are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user := body.User
	user.ID = s.allocID("user")
	if _, ok := rolePermissions[user.Role]; !ok {
		user.Role = models.RoleStudent
	}
	user.Active = true
	user.CreatedAt = timestamp(s.now())
	s.users[user.ID] = &user
	if body.Password != "" {
		s.passwords[user.ID] = body.Password
	}
	writeData(w, http.StatusCreated, &user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	if !s.userHas(requestUser(r), models.PermManageUsers) {
		writeError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	var in models.User
	if !decodeBody(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	in.ID = user.ID
	in.Active = user.Active
	in.CreatedAt = user.CreatedAt
	in.UpdatedAt = timestamp(s.now())
	s.users[id] = &in
	writeData(w, http.StatusOK, &in)
}

// handleDeleteUser deactivates the account rather than removing it, so
// existing reports and claims keep a resolvable owner.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if !s.userHas(requestUser(r), models.PermManageUsers) {
		writeError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	user.Active = false
	user.UpdatedAt = timestamp(s.now())
	w.WriteHeader(http.StatusNoContent)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
