// Package mockapi is an in-memory stand-in for the Lost & Found backend.
// It implements the REST contract the console depends on, including the
// lifecycle rules the real backend enforces: reference-code correlation,
// claim-driven found-report transitions, and the single-approval invariant.
// It backs local development (cmd/mockserver) and the integration tests.
package mockapi

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/models"
)

// tokenTTL is the mock session lifetime reported as expiresIn (ms).
const tokenTTL = time.Hour

// rolePermissions maps the coarse role to the capability set embedded in
// issued tokens.
var rolePermissions = map[string][]string{
	models.RoleStudent: {models.PermReportLostItem, models.PermSubmitClaim},
	models.RoleStaff: {
		models.PermReportLostItem, models.PermReportFoundItem, models.PermSubmitClaim,
	},
	models.RoleSecurity: {
		models.PermReportFoundItem, models.PermVerifyClaim,
		models.PermManageReports, models.PermManageItems,
	},
	models.RoleAdmin: {
		models.PermReportLostItem, models.PermReportFoundItem, models.PermSubmitClaim,
		models.PermVerifyClaim, models.PermManageReports, models.PermManageItems,
		models.PermManageUsers,
	},
}

// Server holds the in-memory state behind the mock REST API.
type Server struct {
	mu        sync.Mutex
	users     map[int64]*models.User
	passwords map[int64]string
	items     map[int64]*models.Item
	lost      map[int64]*models.LostReport
	found     map[int64]*models.FoundReport
	claims    map[int64]*models.Claim
	sessions  map[string]int64
	nextID    map[string]int64
	now       func() time.Time
}

// New creates a server seeded with one administrator account
// (admin@campus.edu / admin123) so a fresh instance is immediately usable.
func New() *Server {
	s := &Server{
		users:     make(map[int64]*models.User),
		passwords: make(map[int64]string),
		items:     make(map[int64]*models.Item),
		lost:      make(map[int64]*models.LostReport),
		found:     make(map[int64]*models.FoundReport),
		claims:    make(map[int64]*models.Claim),
		sessions:  make(map[string]int64),
		nextID:    make(map[string]int64),
		now:       time.Now,
	}
	admin := &models.User{
		ID:       s.allocID("user"),
		FullName: "System Administrator",
		Username: "admin",
		Email:    "admin@campus.edu",
		Role:     models.RoleAdmin,
		Active:   true,
	}
	s.users[admin.ID] = admin
	s.passwords[admin.ID] = "admin123"
	return s
}

// Router builds the mock API router with logging and auth middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/login", s.handleLogin).Methods("POST")
	api.HandleFunc("/auth/register", s.handleRegister).Methods("POST")

	authed := api.NewRoute().Subrouter()
	authed.Use(s.authMiddleware)
	authed.HandleFunc("/auth/change-password", s.handleChangePassword).Methods("POST")

	authed.HandleFunc("/items", s.handleListItems).Methods("GET")
	authed.HandleFunc("/items", s.handleCreateItem).Methods("POST")
	authed.HandleFunc("/items/{id}", s.handleUpdateItem).Methods("PUT")
	authed.HandleFunc("/items/{id}", s.handleDeleteItem).Methods("DELETE")

	authed.HandleFunc("/lost-reports", s.handleListLost).Methods("GET")
	authed.HandleFunc("/lost-reports", s.handleCreateLost).Methods("POST")
	authed.HandleFunc("/lost-reports/{id}", s.handleUpdateLost).Methods("PUT")
	authed.HandleFunc("/lost-reports/{id}", s.handleDeleteLost).Methods("DELETE")
	authed.HandleFunc("/lost-reports/{id}/status", s.handleLostStatus).Methods("PATCH")

	authed.HandleFunc("/found-reports", s.handleListFound).Methods("GET")
	authed.HandleFunc("/found-reports", s.handleCreateFound).Methods("POST")
	authed.HandleFunc("/found-reports/{id}", s.handleUpdateFound).Methods("PUT")
	authed.HandleFunc("/found-reports/{id}", s.handleDeleteFound).Methods("DELETE")
	authed.HandleFunc("/found-reports/{id}/status", s.handleFoundStatus).Methods("PATCH")

	authed.HandleFunc("/claims", s.handleListClaims).Methods("GET")
	authed.HandleFunc("/claims", s.handleCreateClaim).Methods("POST")
	authed.HandleFunc("/claims/{id}/status", s.handleClaimStatus).Methods("PATCH")

	authed.HandleFunc("/users", s.handleListUsers).Methods("GET")
	authed.HandleFunc("/users", s.handleCreateUser).Methods("POST")
	authed.HandleFunc("/users/{id}", s.handleUpdateUser).Methods("PUT")
	authed.HandleFunc("/users/{id}", s.handleDeleteUser).Methods("DELETE")

	return r
}

func (s *Server) allocID(kind string) int64 {
	s.nextID[kind]++
	return s.nextID[kind]
}

// issueToken mints a JWT-shaped token carrying the user's claims. The
// signature segment is fake; the console decodes without verifying.
func (s *Server) issueToken(user *models.User) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, _ := json.Marshal(map[string]any{
		"uid":         user.ID,
		"username":    user.Username,
		"role":        user.Role,
		"permissions": rolePermissions[user.Role],
		"jti":         uuid.New().String(),
		"exp":         s.now().Add(tokenTTL).Unix(),
	})
	token := header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".mock"
	s.sessions[token] = user.ID
	return token
}

func (s *Server) userForRequest(r *http.Request) *models.User {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return nil
	}
	token := strings.TrimSpace(auth[len("bearer "):])
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.sessions[token]
	if !ok {
		return nil
	}
	return s.users[id]
}

func (s *Server) userHas(user *models.User, perm string) bool {
	for _, p := range rolePermissions[user.Role] {
		if p == perm {
			return true
		}
	}
	return false
}

// authMiddleware rejects requests without a known bearer token.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := s.userForRequest(r)
		if user == nil {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, contextWithUser(r, user))
	})
}

// loggingMiddleware logs every request the mock serves.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapped.statusCode).
			Dur("duration_ms", time.Since(start)).
			Msg("Mock API request")
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeData wraps a payload in the success envelope.
func writeData(w http.ResponseWriter, status int, payload any) {
	writeJSON(w, status, map[string]any{"success": true, "data": payload})
}

// writeError reports a logical failure with a user-facing message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}

// writeCollection answers with a Spring-style page envelope when page or
// size query parameters are present, and a bare array otherwise. Both
// shapes occur in the real backend and the console must handle both.
func writeCollection[T any](w http.ResponseWriter, r *http.Request, items []T) {
	q := r.URL.Query()
	if q.Get("page") == "" && q.Get("size") == "" {
		writeJSON(w, http.StatusOK, items)
		return
	}
	page, _ := strconv.Atoi(q.Get("page"))
	size, err := strconv.Atoi(q.Get("size"))
	if err != nil || size <= 0 {
		size = 10
	}
	total := len(items)
	startIdx := page * size
	if startIdx > total {
		startIdx = total
	}
	endIdx := startIdx + size
	if endIdx > total {
		endIdx = total
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"content":       items[startIdx:endIdx],
		"totalElements": total,
		"number":        page,
		"size":          size,
	})
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id: %w", err)
	}
	return id, nil
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
