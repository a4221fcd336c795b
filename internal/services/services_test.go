package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/api"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/models"
)

// stubSession is a fixed identity with a fixed grant set.
type stubSession struct {
	uid   int64
	perms []string
}

func (s stubSession) CurrentUserID() int64 { return s.uid }

func (s stubSession) HasPermission(perm string) bool {
	for _, p := range s.perms {
		if p == perm {
			return true
		}
	}
	return false
}

// recorder captures every request the services issue.
type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

type recordedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Body   []byte
}

func (r *recorder) record(req *http.Request, body []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	query := map[string]string{}
	for k, v := range req.URL.Query() {
		query[k] = v[0]
	}
	r.requests = append(r.requests, recordedRequest{
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  query,
		Body:   body,
	})
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func (r *recorder) last(t *testing.T) recordedRequest {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.requests, "expected at least one request")
	return r.requests[len(r.requests)-1]
}

// newTestClient backs a client with a server that records requests and
// answers every one with the given payload.
func newTestClient(t *testing.T, payload string) (*api.Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.record(r, body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, srv.Client()), rec
}

func TestLostReportCreateValidatesBeforeNetwork(t *testing.T) {
	client, rec := newTestClient(t, `{}`)
	items := NewItemService(client)
	svc := NewLostReportService(client, items, stubSession{uid: 4})

	cases := []struct {
		name    string
		input   LostReportInput
		message string
	}{
		{
			name:    "missing item name",
			input:   LostReportInput{Item: ItemInput{Category: "Bags"}, LocationLost: "Library", DateLost: "2026-08-30"},
			message: "Item name is required",
		},
		{
			name:    "missing item category",
			input:   LostReportInput{Item: ItemInput{Name: "Backpack"}, LocationLost: "Library", DateLost: "2026-08-30"},
			message: "Item category is required",
		},
		{
			name:    "missing location",
			input:   LostReportInput{Item: ItemInput{Name: "Backpack", Category: "Bags"}, DateLost: "2026-08-30"},
			message: "Location lost is required",
		},
		{
			name:    "missing date",
			input:   LostReportInput{Item: ItemInput{Name: "Backpack", Category: "Bags"}, LocationLost: "Library"},
			message: "Date lost is required",
		},
		{
			name:    "whitespace-only name",
			input:   LostReportInput{Item: ItemInput{Name: "   ", Category: "Bags"}, LocationLost: "Library", DateLost: "2026-08-30"},
			message: "Item name is required",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Equal(t, tc.message, err.Error())
		})
	}
	assert.Zero(t, rec.count(), "validation failures must not reach the network")
}

func TestLostReportCreateTwoStep(t *testing.T) {
	client, rec := newTestClient(t, `{"success":true,"data":{"id":11}}`)
	svc := NewLostReportService(client, NewItemService(client), stubSession{uid: 4})

	_, err := svc.Create(context.Background(), LostReportInput{
		Item:         ItemInput{Name: "Backpack", Category: "Bags"},
		LocationLost: "Library",
		DateLost:     "2026-08-30",
	})
	require.NoError(t, err)
	require.Equal(t, 2, rec.count(), "item first, then the report")
	assert.Equal(t, "/api/v1/items", rec.requests[0].Path)
	assert.Equal(t, "/api/v1/lost-reports", rec.requests[1].Path)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.requests[1].Body, &payload))
	assert.EqualValues(t, 4, payload["userId"], "the report belongs to the authenticated user")
	assert.EqualValues(t, 11, payload["itemId"], "the report references the created item")
}

func TestLostReportCreateRequiresAuth(t *testing.T) {
	client, rec := newTestClient(t, `{}`)
	svc := NewLostReportService(client, NewItemService(client), stubSession{uid: 0})
	_, err := svc.Create(context.Background(), LostReportInput{
		Item:         ItemInput{Name: "Backpack", Category: "Bags"},
		LocationLost: "Library",
		DateLost:     "2026-08-30",
	})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, rec.count())
}

func TestLostReportStatusGate(t *testing.T) {
	client, rec := newTestClient(t, `{}`)

	svc := NewLostReportService(client, NewItemService(client), stubSession{uid: 4})
	_, err := svc.SetStatus(context.Background(), 3, models.LostClosed)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.ErrorIs(t, svc.Delete(context.Background(), 3), ErrPermissionDenied)
	assert.Zero(t, rec.count())

	privileged := NewLostReportService(client, NewItemService(client),
		stubSession{uid: 4, perms: []string{models.PermManageReports}})
	_, err = privileged.SetStatus(context.Background(), 3, models.LostClosed)
	require.NoError(t, err)
	last := rec.last(t)
	assert.Equal(t, http.MethodPatch, last.Method)
	assert.Equal(t, "/api/v1/lost-reports/3/status", last.Path)
	assert.Equal(t, "CLOSED", last.Query["status"])
}

func TestFoundReportCreate(t *testing.T) {
	client, rec := newTestClient(t, `{"success":true,"data":{"id":2,"referenceCode":"FND-1234"}}`)
	svc := NewFoundReportService(client, stubSession{uid: 4})

	t.Run("reference code is mandatory on create", func(t *testing.T) {
		_, err := svc.Create(context.Background(), FoundReportInput{
			LocationFound: "Cafeteria", DateFound: "2026-08-30",
		})
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.Equal(t, "Reference code, location, and date found are required.", err.Error())
		assert.Zero(t, rec.count())
	})

	t.Run("create passes the code through", func(t *testing.T) {
		_, err := svc.Create(context.Background(), FoundReportInput{
			LostReferenceCode: "LST-AB12CD34",
			LocationFound:     "Cafeteria",
			DateFound:         "2026-08-30",
		})
		require.NoError(t, err)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(rec.last(t).Body, &payload))
		assert.Equal(t, "LST-AB12CD34", payload["lostReferenceCode"])
	})

	t.Run("update omits the code", func(t *testing.T) {
		_, err := svc.Update(context.Background(), 2, FoundReportInput{
			LostReferenceCode: "LST-AB12CD34",
			LocationFound:     "Cafeteria",
			DateFound:         "2026-08-30",
		})
		require.NoError(t, err)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(rec.last(t).Body, &payload))
		assert.NotContains(t, payload, "lostReferenceCode")
	})
}

func TestClaimListScoping(t *testing.T) {
	client, rec := newTestClient(t, `[]`)

	t.Run("plain claimants only see their own claims", func(t *testing.T) {
		svc := NewClaimService(client, stubSession{uid: 9, perms: []string{models.PermSubmitClaim}})
		_, _, err := svc.List(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "9", rec.last(t).Query["userId"])
	})

	t.Run("the caller cannot widen the filter", func(t *testing.T) {
		svc := NewClaimService(client, stubSession{uid: 9, perms: []string{models.PermSubmitClaim}})
		_, _, err := svc.List(context.Background(), api.Params{"userId": "1"})
		require.NoError(t, err)
		assert.Equal(t, "9", rec.last(t).Query["userId"])
	})

	t.Run("verifiers see everything", func(t *testing.T) {
		svc := NewClaimService(client, stubSession{uid: 2, perms: []string{models.PermVerifyClaim}})
		_, _, err := svc.List(context.Background(), nil)
		require.NoError(t, err)
		assert.NotContains(t, rec.last(t).Query, "userId")
	})
}

func TestClaimSubmit(t *testing.T) {
	client, rec := newTestClient(t, `{"success":true,"data":{"id":5,"status":"PENDING"}}`)
	svc := NewClaimService(client, stubSession{uid: 9, perms: []string{models.PermSubmitClaim}})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.Submit(context.Background(), SubmitClaimInput{Reason: "mine"})
		require.Error(t, err)
		assert.Equal(t, "Found report is required.", err.Error())

		_, err = svc.Submit(context.Background(), SubmitClaimInput{FoundReportID: 2, Reason: "  "})
		require.Error(t, err)
		assert.Equal(t, "Reason is required.", err.Error())
		assert.Zero(t, rec.count())
	})

	t.Run("submits for the authenticated user with attachments defaulted", func(t *testing.T) {
		claim, err := svc.Submit(context.Background(), SubmitClaimInput{
			FoundReportID: 2,
			Reason:        "Serial number matches my receipt",
		})
		require.NoError(t, err)
		assert.Equal(t, models.ClaimPending, claim.Status)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(rec.last(t).Body, &payload))
		assert.EqualValues(t, 9, payload["userId"])
		attachments, ok := payload["attachments"].([]any)
		require.True(t, ok, "attachments must serialize as an array, never null")
		assert.Empty(t, attachments)
	})

	t.Run("sends supplied attachments through unchanged", func(t *testing.T) {
		_, err := svc.Submit(context.Background(), SubmitClaimInput{
			FoundReportID: 2,
			Reason:        "Engraved with my initials",
			Attachments:   []string{"data:image/png;base64,aGVsbG8="},
		})
		require.NoError(t, err)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(rec.last(t).Body, &payload))
		assert.Equal(t, []any{"data:image/png;base64,aGVsbG8="}, payload["attachments"])
	})

	t.Run("requires authentication", func(t *testing.T) {
		anon := NewClaimService(client, stubSession{})
		_, err := anon.Submit(context.Background(), SubmitClaimInput{FoundReportID: 2, Reason: "mine"})
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})
}

func TestClaimReview(t *testing.T) {
	client, rec := newTestClient(t, `{"success":true,"data":{"id":5,"status":"APPROVED"}}`)
	reviewer := NewClaimService(client, stubSession{uid: 2, perms: []string{models.PermVerifyClaim}})
	pending := models.Claim{ID: 5, UserID: 9, Status: models.ClaimPending}

	t.Run("requires the verify capability", func(t *testing.T) {
		plain := NewClaimService(client, stubSession{uid: 9, perms: []string{models.PermSubmitClaim}})
		_, err := plain.Review(context.Background(), pending, models.ClaimApproved, "")
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("only decisions are accepted", func(t *testing.T) {
		_, err := reviewer.Review(context.Background(), pending, models.ClaimCancelled, "")
		assert.Error(t, err)
		_, err = reviewer.Review(context.Background(), pending, models.ClaimPending, "")
		assert.Error(t, err)
	})

	t.Run("terminal claims are refused locally", func(t *testing.T) {
		before := rec.count()
		done := models.Claim{ID: 5, UserID: 9, Status: models.ClaimRejected}
		_, err := reviewer.Review(context.Background(), done, models.ClaimApproved, "")
		require.Error(t, err)
		assert.Equal(t, before, rec.count(), "no request for an impossible transition")
	})

	t.Run("decision travels as query parameters", func(t *testing.T) {
		_, err := reviewer.Review(context.Background(), pending, models.ClaimApproved, "ID verified in person")
		require.NoError(t, err)
		last := rec.last(t)
		assert.Equal(t, http.MethodPatch, last.Method)
		assert.Equal(t, "/api/v1/claims/5/status", last.Path)
		assert.Equal(t, "APPROVED", last.Query["status"])
		assert.Equal(t, "2", last.Query["reviewerId"])
		assert.Equal(t, "ID verified in person", last.Query["reviewNotes"])
	})
}

func TestClaimCancel(t *testing.T) {
	client, _ := newTestClient(t, `{"success":true,"data":{"id":5,"status":"CANCELLED"}}`)
	own := models.Claim{ID: 5, UserID: 9, Status: models.ClaimPending}

	claimant := NewClaimService(client, stubSession{uid: 9, perms: []string{models.PermSubmitClaim}})
	_, err := claimant.Cancel(context.Background(), own)
	require.NoError(t, err)

	stranger := NewClaimService(client, stubSession{uid: 3, perms: []string{models.PermSubmitClaim}})
	_, err = stranger.Cancel(context.Background(), own)
	assert.ErrorIs(t, err, ErrPermissionDenied, "only the claimant or a reviewer may cancel")

	_, err = claimant.Cancel(context.Background(), models.Claim{ID: 5, UserID: 9, Status: models.ClaimApproved})
	assert.Error(t, err, "terminal claims cannot be cancelled")
}

func TestUserServiceGate(t *testing.T) {
	client, rec := newTestClient(t, `{}`)
	svc := NewUserService(client, stubSession{uid: 4, perms: []string{models.PermVerifyClaim}})

	_, _, err := svc.List(context.Background(), nil)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = svc.Create(context.Background(), UserInput{FullName: "A", Email: "a@b.edu", Username: "a"})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = svc.Update(context.Background(), 1, UserInput{FullName: "A", Email: "a@b.edu"})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.ErrorIs(t, svc.Deactivate(context.Background(), 1), ErrPermissionDenied)
	assert.Zero(t, rec.count())
}

func TestUserCreate(t *testing.T) {
	client, rec := newTestClient(t, `{"success":true,"data":{"id":3}}`)
	svc := NewUserService(client, stubSession{uid: 1, perms: []string{models.PermManageUsers}})

	t.Run("username is mandatory", func(t *testing.T) {
		_, err := svc.Create(context.Background(), UserInput{FullName: "New Person", Email: "np@campus.edu"})
		require.Error(t, err)
		assert.Equal(t, "Username is required to create a user.", err.Error())
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := svc.Create(context.Background(), UserInput{FullName: "New Person", Email: "not-an-email", Username: "np"})
		require.Error(t, err)
		assert.Equal(t, "A valid email is required.", err.Error())
	})

	t.Run("initial password derives from the username", func(t *testing.T) {
		_, err := svc.Create(context.Background(), UserInput{
			FullName: "New Person", Email: "np@campus.edu", Username: "nperson",
		})
		require.NoError(t, err)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(rec.last(t).Body, &payload))
		assert.Equal(t, "nperson123", payload["password"])
	})

	t.Run("update never carries a password", func(t *testing.T) {
		_, err := svc.Update(context.Background(), 3, UserInput{
			FullName: "New Person", Email: "np@campus.edu", Password: "leaked",
		})
		require.NoError(t, err)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(rec.last(t).Body, &payload))
		assert.NotContains(t, payload, "password")
	})
}

func TestRegisterValidation(t *testing.T) {
	client, rec := newTestClient(t, `{}`)
	svc := NewAuthService(client)

	for _, input := range []RegisterInput{
		{Email: "a@b.edu", Password: "pw"},
		{FullName: "A", Password: "pw"},
		{FullName: "A", Email: "a@b.edu"},
	} {
		_, err := svc.Register(context.Background(), input)
		require.Error(t, err)
		assert.Equal(t, "Full name, email, and password are required.", err.Error())
	}
	assert.Zero(t, rec.count())
}

func TestChangePasswordValidation(t *testing.T) {
	client, rec := newTestClient(t, `{}`)
	svc := NewAuthService(client)

	err := svc.ChangePassword(context.Background(), ChangePasswordInput{
		CurrentPassword: "old", NewPassword: "short", Confirm: "short",
	})
	require.Error(t, err)
	assert.Equal(t, "New password must be at least 8 characters.", err.Error())

	err = svc.ChangePassword(context.Background(), ChangePasswordInput{
		CurrentPassword: "old", NewPassword: "long-enough", Confirm: "different",
	})
	require.Error(t, err)
	assert.Equal(t, "Password confirmation does not match.", err.Error())
	assert.Zero(t, rec.count())

	err = svc.ChangePassword(context.Background(), ChangePasswordInput{
		CurrentPassword: "old", NewPassword: "long-enough", Confirm: "long-enough",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.count())
}
