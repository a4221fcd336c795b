// Package console is the interactive terminal front end: a login prompt,
// a permission-gated menu, and one view per destination backed by the
// list binders and domain services.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/api"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/binder"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/models"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/nav"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/services"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/session"
)

// Console drives the terminal UI. It owns nothing below the service layer;
// every mutation goes through a service so permission and validation rules
// apply uniformly.
type Console struct {
	in  *bufio.Scanner
	out io.Writer

	client  *api.Client
	session *session.Manager
	auth    *services.AuthService
	items   *services.ItemService
	lost    *services.LostReportService
	found   *services.FoundReportService
	claims  *services.ClaimService
	users   *services.UserService

	// Binders are created on first use and reused across visits so their
	// parameter bags survive navigation.
	itemsB  *binder.Binder[models.Item]
	lostB   *binder.Binder[models.LostReport]
	foundB  *binder.Binder[models.FoundReport]
	claimsB *binder.Binder[models.Claim]
	usersB  *binder.Binder[models.User]

	current nav.Destination
	quit    bool
}

// New assembles a console over an authenticated client stack.
func New(in io.Reader, out io.Writer, client *api.Client, sess *session.Manager) *Console {
	items := services.NewItemService(client)
	c := &Console{
		in:      bufio.NewScanner(in),
		out:     out,
		client:  client,
		session: sess,
		auth:    services.NewAuthService(client),
		items:   items,
		lost:    services.NewLostReportService(client, items, sess),
		found:   services.NewFoundReportService(client, sess),
		claims:  services.NewClaimService(client, sess),
		users:   services.NewUserService(client, sess),
		current: nav.Dashboard,
	}
	sess.SetLogoutListener(func() {
		c.resetBinders()
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Your session has ended. Please sign in again.")
	})
	return c
}

// resetBinders drops the cached list binders so filters set during one
// session never carry over into the next one.
func (c *Console) resetBinders() {
	c.itemsB = nil
	c.lostB = nil
	c.foundB = nil
	c.claimsB = nil
	c.usersB = nil
}

// Run loops between the login screen and the main menu until the user
// quits or input ends.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "Lost & Found Console")
	fmt.Fprintln(c.out, "====================")
	for !c.quit {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !c.session.IsAuthenticated() {
			if !c.loginScreen(ctx) {
				return nil
			}
			continue
		}
		if !c.menuScreen(ctx) {
			return nil
		}
	}
	return nil
}

// loginScreen handles sign-in and self-registration. Returns false when
// input is exhausted.
func (c *Console) loginScreen(ctx context.Context) bool {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "[1] Sign in  [2] Register  [q] Quit")
	choice, ok := c.prompt("> ")
	if !ok {
		return false
	}
	switch strings.ToLower(choice) {
	case "1", "":
		email, ok := c.prompt("Email: ")
		if !ok {
			return false
		}
		password, ok := c.prompt("Password: ")
		if !ok {
			return false
		}
		state, err := c.session.Authenticate(ctx, email, password)
		if err != nil {
			c.failure(err)
			return true
		}
		name := email
		if state.User != nil && state.User.FullName != "" {
			name = state.User.FullName
		}
		c.success("Signed in as %s", name)
		c.current = nav.Select(c.session.Permissions(), c.current)
	case "2":
		c.registerForm(ctx)
	case "q":
		c.quit = true
	default:
		fmt.Fprintln(c.out, "Unknown choice.")
	}
	return true
}

// menuScreen renders the permission-gated menu and dispatches one view.
func (c *Console) menuScreen(ctx context.Context) bool {
	visible := nav.Visible(c.session.Permissions())
	c.current = nav.Select(c.session.Permissions(), c.current)

	fmt.Fprintln(c.out)
	for i, rule := range visible {
		marker := " "
		if rule.Dest == c.current {
			marker = "*"
		}
		fmt.Fprintf(c.out, "%s[%d] %s\n", marker, i+1, rule.Label)
	}
	fmt.Fprintln(c.out, " [p] Change password  [o] Sign out  [q] Quit")
	choice, ok := c.prompt("> ")
	if !ok {
		return false
	}

	switch strings.ToLower(choice) {
	case "":
		// Re-open the highlighted destination.
	case "p":
		c.changePasswordForm(ctx)
		return true
	case "o":
		c.session.Logout()
		return true
	case "q":
		c.quit = true
		return true
	default:
		idx := parseIndex(choice, len(visible))
		if idx < 0 {
			fmt.Fprintln(c.out, "Unknown choice.")
			return true
		}
		c.current = visible[idx].Dest
	}

	if !c.session.IsAuthenticated() {
		return true
	}
	switch c.current {
	case nav.Dashboard:
		c.dashboardView(ctx)
	case nav.Items:
		return c.itemsView(ctx)
	case nav.LostReports:
		return c.lostReportsView(ctx)
	case nav.FoundReports:
		return c.foundReportsView(ctx)
	case nav.Claims:
		return c.claimsView(ctx)
	case nav.Users:
		return c.usersView(ctx)
	}
	return true
}

func (c *Console) registerForm(ctx context.Context) {
	input := services.RegisterInput{}
	var ok bool
	if input.FullName, ok = c.prompt("Full name: "); !ok {
		return
	}
	if input.Email, ok = c.prompt("Email: "); !ok {
		return
	}
	if input.Password, ok = c.prompt("Password: "); !ok {
		return
	}
	input.PhoneNumber, _ = c.prompt("Phone (optional): ")
	user, err := c.auth.Register(ctx, input)
	if err != nil {
		c.failure(err)
		return
	}
	c.success("Account created for %s. You can sign in now.", user.Email)
}

func (c *Console) changePasswordForm(ctx context.Context) {
	input := services.ChangePasswordInput{}
	var ok bool
	if input.CurrentPassword, ok = c.prompt("Current password: "); !ok {
		return
	}
	if input.NewPassword, ok = c.prompt("New password: "); !ok {
		return
	}
	if input.Confirm, ok = c.prompt("Confirm new password: "); !ok {
		return
	}
	if err := c.auth.ChangePassword(ctx, input); err != nil {
		c.failure(err)
		return
	}
	c.success("Password changed.")
}

func parseIndex(choice string, limit int) int {
	n := 0
	for _, r := range choice {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	if n < 1 || n > limit {
		return -1
	}
	return n - 1
}

func logViewError(view string, err error) {
	log.Debug().Err(err).Str("view", view).Msg("View operation failed")
}
