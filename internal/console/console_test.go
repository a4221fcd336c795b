package console

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/api"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/mockapi"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/session"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(mockapi.New().Router())
	t.Cleanup(srv.Close)
	return srv
}

// runScript feeds the console a fixed input script against a fresh mock
// backend and returns everything it printed.
func runScript(t *testing.T, script string) string {
	t.Helper()
	return runScriptAgainst(t, newBackend(t), script)
}

// runScriptAgainst is runScript over a caller-prepared backend, for tests
// that seed data before driving the console.
func runScriptAgainst(t *testing.T, srv *httptest.Server, script string) string {
	t.Helper()
	client := api.NewClient(srv.URL, srv.Client())
	sess := session.NewManager(client, session.NewMemoryStore())
	t.Cleanup(sess.Close)

	var out bytes.Buffer
	ui := New(strings.NewReader(script), &out, client, sess)
	require.NoError(t, ui.Run(context.Background()))
	return out.String()
}

func TestConsoleLoginAndQuit(t *testing.T) {
	out := runScript(t, "1\nadmin@campus.edu\nadmin123\nq\n")
	assert.Contains(t, out, "Signed in as System Administrator")
	assert.Contains(t, out, "[1] Dashboard")
	assert.Contains(t, out, "Users", "an administrator sees the user view")
}

func TestConsoleRejectedLogin(t *testing.T) {
	out := runScript(t, "1\nadmin@campus.edu\nwrong\n")
	assert.Contains(t, out, "Invalid email or password")
	assert.NotContains(t, out, "Signed in")
}

func TestConsoleMenuIsPermissionGated(t *testing.T) {
	script := strings.Join([]string{
		"2",              // register
		"Sam Student",    // full name
		"sam@campus.edu", // email
		"password123",    // password
		"",               // phone
		"1",              // sign in
		"sam@campus.edu", // email
		"password123",    // password
		"q",              // quit
	}, "\n") + "\n"
	out := runScript(t, script)
	assert.Contains(t, out, "Account created for sam@campus.edu")
	assert.Contains(t, out, "Signed in as")
	assert.Contains(t, out, "Lost Reports")
	assert.Contains(t, out, "Claims")
	assert.NotContains(t, out, "[4] Users", "students get no user management entry")
	assert.NotContains(t, out, "Found Reports", "students cannot file found reports")
}

func TestConsoleClaimsViewRoundTrip(t *testing.T) {
	script := strings.Join([]string{
		"1", "admin@campus.edu", "admin123", // sign in
		"4", // open claims
		"b", // back to the menu
		"o", // sign out
		"q", // quit
	}, "\n") + "\n"
	out := runScript(t, script)
	assert.Contains(t, out, "Claimant", "the claims table header renders")
	assert.Contains(t, out, "[a]pprove", "a verifier is offered review actions")
	assert.Contains(t, out, "Your session has ended")
}

func TestConsoleSignOutReturnsToLogin(t *testing.T) {
	out := runScript(t, "1\nadmin@campus.edu\nadmin123\no\nq\n")
	assert.Contains(t, out, "Your session has ended. Please sign in again.")
	assert.Contains(t, out, "[1] Sign in  [2] Register  [q] Quit")
}

// TestConsoleClaimsFilterDoesNotLeakAcrossSessions drives two back-to-back
// sessions: a claimant whose claims view pins a userId filter, then a
// verifier, who must see every claimant's claims.
func TestConsoleClaimsFilterDoesNotLeakAcrossSessions(t *testing.T) {
	srv := newBackend(t)
	ctx := context.Background()

	register := func(email string) {
		client := api.NewClient(srv.URL, srv.Client())
		_, err := client.Post(ctx, "/api/v1/auth/register", map[string]string{
			"fullName": "Student " + email, "email": email, "password": "password123",
		})
		require.NoError(t, err)
	}
	login := func(email, password string) *api.Client {
		client := api.NewClient(srv.URL, srv.Client())
		raw, err := client.Post(ctx, "/api/v1/auth/login", map[string]string{
			"email": email, "password": password,
		})
		require.NoError(t, err)
		resp, err := api.DecodeOne[struct {
			AccessToken string `json:"accessToken"`
		}](raw)
		require.NoError(t, err)
		client.SetToken(resp.AccessToken)
		return client
	}

	register("alice@campus.edu")
	register("bob@campus.edu")

	admin := login("admin@campus.edu", "admin123")
	for i := 0; i < 2; i++ {
		_, err := admin.Post(ctx, "/api/v1/found-reports", map[string]any{
			"locationFound": "Gym", "dateFound": "2026-08-31",
		})
		require.NoError(t, err)
	}

	alice := login("alice@campus.edu", "password123")
	_, err := alice.Post(ctx, "/api/v1/claims", map[string]any{
		"foundReportId": 1, "reason": "engraved with my name",
	})
	require.NoError(t, err)
	bob := login("bob@campus.edu", "password123")
	_, err = bob.Post(ctx, "/api/v1/claims", map[string]any{
		"foundReportId": 2, "reason": "matches my receipt",
	})
	require.NoError(t, err)

	script := strings.Join([]string{
		"1", "alice@campus.edu", "password123", // claimant session
		"3", // open claims
		"b",
		"o",                                 // sign out
		"1", "admin@campus.edu", "admin123", // verifier session
		"4", // open claims
		"b",
		"q",
	}, "\n") + "\n"
	out := runScriptAgainst(t, srv, script)

	claimantOut, verifierOut, found := strings.Cut(out, "Signed in as System Administrator")
	require.True(t, found, "the verifier session signed in")
	assert.Contains(t, claimantOut, "engraved with my name")
	assert.NotContains(t, claimantOut, "matches my receipt", "a claimant sees only their own claims")
	assert.Contains(t, verifierOut, "engraved with my name")
	assert.Contains(t, verifierOut, "matches my receipt", "a verifier sees every claimant's claims")
}

func TestFailureRendersStatusFallback(t *testing.T) {
	var out bytes.Buffer
	c := &Console{out: &out}
	c.failure(&api.APIError{Status: 503})
	assert.Equal(t, "✘ request failed with status 503\n", out.String())

	out.Reset()
	c.failure(&api.APIError{Status: 409, Message: "Found report is not open for claims"})
	assert.Equal(t, "✘ Found report is not open for claims\n", out.String())
}
