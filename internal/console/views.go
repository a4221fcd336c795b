package console

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/api"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/binder"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/dashboard"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/models"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/services"
)

func (c *Console) table() *tabwriter.Writer {
	return tabwriter.NewWriter(c.out, 2, 4, 2, ' ', 0)
}

func (c *Console) printPage(page *api.PageInfo) {
	if page == nil {
		return
	}
	fmt.Fprintf(c.out, "Page %d (%d total)\n", page.Number+1, page.TotalElements)
}

// dashboardView aggregates the three collections into the summary cards,
// the monthly activity row, and the claim status breakdown.
func (c *Console) dashboardView(ctx context.Context) {
	lost, _, err := c.lost.List(ctx, nil)
	if err != nil {
		c.failure(err)
		return
	}
	found, _, err := c.found.List(ctx, nil)
	if err != nil {
		c.failure(err)
		return
	}
	claims, _, err := c.claims.List(ctx, nil)
	if err != nil {
		c.failure(err)
		return
	}

	stats := dashboard.Summarize(lost, found, claims)
	fmt.Fprintln(c.out)
	w := c.table()
	fmt.Fprintln(w, "Lost\tFound\tReturned\tUnmatched\tPending claims")
	fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\n",
		stats.TotalLost, stats.TotalFound, stats.Returned,
		stats.UnmatchedFound, stats.PendingClaims)
	w.Flush()

	year := time.Now().Year()
	fmt.Fprintf(c.out, "\nActivity %d (lost/found):", year)
	for _, m := range dashboard.ByMonth(year, lost, found) {
		fmt.Fprintf(c.out, " %s %d/%d", m.Month.String()[:3], m.Lost, m.Found)
	}
	fmt.Fprintln(c.out)

	breakdown := dashboard.StatusBreakdown(claims)
	fmt.Fprint(c.out, "Claims:")
	for _, status := range models.ClaimStatuses {
		if n := breakdown[status]; n > 0 {
			fmt.Fprintf(c.out, " %s %d", models.Label(string(status)), n)
		}
	}
	fmt.Fprintln(c.out)
}

// --- items ---

func (c *Console) itemsBinder() *binder.Binder[models.Item] {
	if c.itemsB == nil {
		c.itemsB = binder.New[models.Item](c.client, "/api/v1/items", nil)
	}
	return c.itemsB
}

func (c *Console) itemsView(ctx context.Context) bool {
	b := c.itemsBinder()
	for {
		if _, err := b.Refetch(ctx); err != nil {
			c.failure(err)
		}
		w := c.table()
		fmt.Fprintln(w, "ID\tName\tCategory\tColor\tSerial")
		for _, it := range b.Data() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				it.ID, it.Name, it.Category, it.Color, it.SerialNumber)
		}
		w.Flush()
		c.printPage(b.Page())

		choice, ok := c.prompt("items: [n]ew [e]dit [d]elete [b]ack > ")
		if !ok {
			return false
		}
		switch choice {
		case "n":
			input, ok := c.itemForm()
			if !ok {
				return false
			}
			if _, err := c.items.Create(ctx, input); err != nil {
				c.failure(err)
			} else {
				c.success("Item created.")
			}
		case "e":
			id, ok := c.promptID("Item id: ")
			if !ok {
				return false
			}
			if id == 0 {
				continue
			}
			input, ok := c.itemForm()
			if !ok {
				return false
			}
			if _, err := c.items.Update(ctx, id, input); err != nil {
				c.failure(err)
			} else {
				c.success("Item updated.")
			}
		case "d":
			id, ok := c.promptID("Item id: ")
			if !ok {
				return false
			}
			if id != 0 && c.confirm("Delete this item?") {
				if err := c.items.Delete(ctx, id); err != nil {
					c.failure(err)
				} else {
					c.success("Item deleted.")
				}
			}
		case "b", "":
			return true
		}
	}
}

func (c *Console) itemForm() (services.ItemInput, bool) {
	input := services.ItemInput{}
	var ok bool
	if input.Name, ok = c.prompt("Name: "); !ok {
		return input, false
	}
	if input.Category, ok = c.prompt("Category: "); !ok {
		return input, false
	}
	input.Brand, _ = c.prompt("Brand (optional): ")
	input.Color, _ = c.prompt("Color (optional): ")
	input.Description, _ = c.prompt("Description (optional): ")
	input.SerialNumber, _ = c.prompt("Serial number (optional): ")
	input.ImageData, _ = c.prompt("Image data URL (optional): ")
	return input, true
}

// --- lost reports ---

func (c *Console) lostBinder() *binder.Binder[models.LostReport] {
	if c.lostB == nil {
		c.lostB = binder.New[models.LostReport](c.client, "/api/v1/lost-reports", nil)
	}
	return c.lostB
}

func (c *Console) lostReportsView(ctx context.Context) bool {
	b := c.lostBinder()
	for {
		if _, err := b.Refetch(ctx); err != nil {
			c.failure(err)
		}
		w := c.table()
		fmt.Fprintln(w, "ID\tReference\tLocation\tDate\tStatus")
		for _, rep := range b.Data() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				rep.ID, rep.ReferenceLabel(), rep.LocationLost, rep.DateLost,
				models.Label(string(rep.Status)))
		}
		w.Flush()
		c.printPage(b.Page())

		choice, ok := c.prompt("lost: [n]ew [s]tatus [d]elete [m]ine [a]ll [b]ack > ")
		if !ok {
			return false
		}
		switch choice {
		case "n":
			input, ok := c.lostReportForm()
			if !ok {
				return false
			}
			rep, err := c.lost.Create(ctx, input)
			if err != nil {
				c.failure(err)
			} else {
				c.success("Lost report filed, reference %s.", rep.ReferenceLabel())
			}
		case "s":
			if !c.setLostStatus(ctx) {
				return false
			}
		case "d":
			id, ok := c.promptID("Report id: ")
			if !ok {
				return false
			}
			if id != 0 && c.confirm("Delete this lost report?") {
				if err := c.lost.Delete(ctx, id); err != nil {
					c.failure(err)
				} else {
					c.success("Lost report deleted.")
				}
			}
		case "m":
			uid := strconv.FormatInt(c.session.CurrentUserID(), 10)
			if err := b.SetParams(ctx, api.Params{"userId": uid}); err != nil {
				logViewError("lost", err)
			}
		case "a":
			if err := b.SetParams(ctx, api.Params{"userId": ""}); err != nil {
				logViewError("lost", err)
			}
		case "b", "":
			return true
		}
	}
}

func (c *Console) lostReportForm() (services.LostReportInput, bool) {
	input := services.LostReportInput{}
	item, ok := c.itemForm()
	if !ok {
		return input, false
	}
	input.Item = item
	if input.LocationLost, ok = c.prompt("Location lost: "); !ok {
		return input, false
	}
	if input.DateLost, ok = c.prompt("Date lost (YYYY-MM-DD): "); !ok {
		return input, false
	}
	input.ExtraDescription, _ = c.prompt("Extra description (optional): ")
	return input, true
}

func (c *Console) setLostStatus(ctx context.Context) bool {
	id, ok := c.promptID("Report id: ")
	if !ok {
		return false
	}
	if id == 0 {
		return true
	}
	status, ok := c.prompt("New status (PENDING/MATCHED/CLOSED): ")
	if !ok {
		return false
	}
	if _, err := c.lost.SetStatus(ctx, id, models.LostReportStatus(status)); err != nil {
		c.failure(err)
	} else {
		c.success("Status updated.")
	}
	return true
}

// --- found reports ---

func (c *Console) foundBinder() *binder.Binder[models.FoundReport] {
	if c.foundB == nil {
		c.foundB = binder.New[models.FoundReport](c.client, "/api/v1/found-reports", nil)
	}
	return c.foundB
}

func (c *Console) foundReportsView(ctx context.Context) bool {
	b := c.foundBinder()
	for {
		if _, err := b.Refetch(ctx); err != nil {
			c.failure(err)
		}
		w := c.table()
		fmt.Fprintln(w, "ID\tReference\tLocation\tDate\tStorage\tStatus")
		for _, rep := range b.Data() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				rep.ID, rep.ReferenceLabel(), rep.LocationFound, rep.DateFound,
				rep.StorageLocation, models.Label(string(rep.Status)))
		}
		w.Flush()
		c.printPage(b.Page())

		choice, ok := c.prompt("found: [n]ew [s]tatus [d]elete [b]ack > ")
		if !ok {
			return false
		}
		switch choice {
		case "n":
			input, ok := c.foundReportForm()
			if !ok {
				return false
			}
			rep, err := c.found.Create(ctx, input)
			if err != nil {
				c.failure(err)
			} else {
				c.success("Found report filed, reference %s.", rep.ReferenceLabel())
			}
		case "s":
			if !c.setFoundStatus(ctx) {
				return false
			}
		case "d":
			id, ok := c.promptID("Report id: ")
			if !ok {
				return false
			}
			if id != 0 && c.confirm("Delete this found report?") {
				if err := c.found.Delete(ctx, id); err != nil {
					c.failure(err)
				} else {
					c.success("Found report deleted.")
				}
			}
		case "b", "":
			return true
		}
	}
}

func (c *Console) foundReportForm() (services.FoundReportInput, bool) {
	input := services.FoundReportInput{}
	var ok bool
	if input.LostReferenceCode, ok = c.prompt("Lost reference code: "); !ok {
		return input, false
	}
	if input.LocationFound, ok = c.prompt("Location found: "); !ok {
		return input, false
	}
	if input.DateFound, ok = c.prompt("Date found (YYYY-MM-DD): "); !ok {
		return input, false
	}
	input.StorageLocation, _ = c.prompt("Storage location (optional): ")
	input.ExtraDescription, _ = c.prompt("Extra description (optional): ")
	return input, true
}

func (c *Console) setFoundStatus(ctx context.Context) bool {
	id, ok := c.promptID("Report id: ")
	if !ok {
		return false
	}
	if id == 0 {
		return true
	}
	status, ok := c.prompt("New status (AVAILABLE/CLAIM_PENDING/CLAIMED/ARCHIVED): ")
	if !ok {
		return false
	}
	if _, err := c.found.SetStatus(ctx, id, models.FoundReportStatus(status)); err != nil {
		c.failure(err)
	} else {
		c.success("Status updated.")
	}
	return true
}

// --- claims ---

// claimsBinder starts disabled; the claims view enables it on first visit
// so no claim traffic happens for sessions that never open the view.
func (c *Console) claimsBinder(ctx context.Context) *binder.Binder[models.Claim] {
	if c.claimsB == nil {
		c.claimsB = binder.New[models.Claim](c.client, "/api/v1/claims", nil)
		_ = c.claimsB.SetEnabled(ctx, false)
	}
	return c.claimsB
}

func (c *Console) claimsView(ctx context.Context) bool {
	b := c.claimsBinder(ctx)
	if err := b.SetEnabled(ctx, true); err != nil {
		c.failure(err)
	}
	// A verifier sees every claim, so any filter left behind by an earlier
	// visit has to be cleared; everyone else is pinned to their own claims.
	reviewer := c.session.HasPermission(models.PermVerifyClaim)
	filter := ""
	if !reviewer {
		filter = strconv.FormatInt(c.session.CurrentUserID(), 10)
	}
	if err := b.SetParams(ctx, api.Params{"userId": filter}); err != nil {
		logViewError("claims", err)
	}
	for {
		if _, err := b.Refetch(ctx); err != nil {
			c.failure(err)
		}
		w := c.table()
		fmt.Fprintln(w, "ID\tReport\tClaimant\tReason\tStatus\tNotes")
		for _, cl := range b.Data() {
			claimant := strconv.FormatInt(cl.UserID, 10)
			if cl.User != nil && cl.User.FullName != "" {
				claimant = cl.User.FullName
			}
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n",
				cl.ID, cl.FoundReportID, claimant, cl.Reason,
				models.Label(string(cl.Status)), cl.ReviewNotes)
		}
		w.Flush()
		c.printPage(b.Page())

		actions := "claims: [n]ew [c]ancel [b]ack > "
		if reviewer {
			actions = "claims: [n]ew [a]pprove [r]eject [c]ancel [b]ack > "
		}
		choice, ok := c.prompt(actions)
		if !ok {
			return false
		}
		switch choice {
		case "n":
			input, ok := c.claimForm()
			if !ok {
				return false
			}
			if _, err := c.claims.Submit(ctx, input); err != nil {
				c.failure(err)
			} else {
				c.success("Claim submitted for review.")
			}
		case "a":
			if reviewer && !c.reviewClaim(ctx, b.Data(), models.ClaimApproved) {
				return false
			}
		case "r":
			if reviewer && !c.reviewClaim(ctx, b.Data(), models.ClaimRejected) {
				return false
			}
		case "c":
			id, ok := c.promptID("Claim id: ")
			if !ok {
				return false
			}
			claim, found := findClaim(b.Data(), id)
			if !found {
				fmt.Fprintln(c.out, "No such claim in the list.")
				continue
			}
			if c.confirm("Cancel this claim?") {
				if _, err := c.claims.Cancel(ctx, claim); err != nil {
					c.failure(err)
				} else {
					c.success("Claim cancelled.")
				}
			}
		case "b", "":
			return true
		}
	}
}

func (c *Console) claimForm() (services.SubmitClaimInput, bool) {
	input := services.SubmitClaimInput{}
	var ok bool
	if input.FoundReportID, ok = c.promptID("Found report id: "); !ok {
		return input, false
	}
	if input.Reason, ok = c.prompt("Reason (why is this yours): "); !ok {
		return input, false
	}
	input.VerificationAnswer, _ = c.prompt("Verification answer (optional): ")
	if attachment, _ := c.prompt("Proof attachment data URL (optional): "); attachment != "" {
		input.Attachments = []string{attachment}
	}
	return input, true
}

func (c *Console) reviewClaim(ctx context.Context, claims []models.Claim, status models.ClaimStatus) bool {
	id, ok := c.promptID("Claim id: ")
	if !ok {
		return false
	}
	claim, found := findClaim(claims, id)
	if !found {
		fmt.Fprintln(c.out, "No such claim in the list.")
		return true
	}
	notes, ok := c.prompt("Review notes: ")
	if !ok {
		return false
	}
	verb := "approve"
	if status == models.ClaimRejected {
		verb = "reject"
	}
	if !c.confirm(fmt.Sprintf("Really %s claim %d?", verb, claim.ID)) {
		return true
	}
	if _, err := c.claims.Review(ctx, claim, status, notes); err != nil {
		c.failure(err)
	} else {
		c.success("Claim %s.", models.Label(string(status)))
	}
	return true
}

func findClaim(claims []models.Claim, id int64) (models.Claim, bool) {
	for _, cl := range claims {
		if cl.ID == id {
			return cl, true
		}
	}
	return models.Claim{}, false
}

// --- users ---

func (c *Console) usersBinder() *binder.Binder[models.User] {
	if c.usersB == nil {
		c.usersB = binder.New[models.User](c.client, "/api/v1/users", nil)
	}
	return c.usersB
}

func (c *Console) usersView(ctx context.Context) bool {
	b := c.usersBinder()
	for {
		if _, err := b.Refetch(ctx); err != nil {
			c.failure(err)
		}
		w := c.table()
		fmt.Fprintln(w, "ID\tName\tEmail\tRole\tActive")
		for _, u := range b.Data() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n",
				u.ID, u.FullName, u.Email, u.Role, u.Active)
		}
		w.Flush()
		c.printPage(b.Page())

		choice, ok := c.prompt("users: [n]ew [e]dit [x]deactivate [b]ack > ")
		if !ok {
			return false
		}
		switch choice {
		case "n":
			input, ok := c.userForm()
			if !ok {
				return false
			}
			user, err := c.users.Create(ctx, input)
			if err != nil {
				c.failure(err)
			} else {
				c.success("User %s created.", user.Email)
			}
		case "e":
			id, ok := c.promptID("User id: ")
			if !ok {
				return false
			}
			if id == 0 {
				continue
			}
			input, ok := c.userForm()
			if !ok {
				return false
			}
			if _, err := c.users.Update(ctx, id, input); err != nil {
				c.failure(err)
			} else {
				c.success("User updated.")
			}
		case "x":
			id, ok := c.promptID("User id: ")
			if !ok {
				return false
			}
			if id != 0 && c.confirm("Deactivate this account?") {
				if err := c.users.Deactivate(ctx, id); err != nil {
					c.failure(err)
				} else {
					c.success("Account deactivated.")
				}
			}
		case "b", "":
			return true
		}
	}
}

func (c *Console) userForm() (services.UserInput, bool) {
	input := services.UserInput{Active: true}
	var ok bool
	if input.FullName, ok = c.prompt("Full name: "); !ok {
		return input, false
	}
	if input.Email, ok = c.prompt("Email: "); !ok {
		return input, false
	}
	input.Username, _ = c.prompt("Username: ")
	input.Role, _ = c.prompt("Role (STUDENT/STAFF/SECURITY/ADMIN): ")
	input.Department, _ = c.prompt("Department (optional): ")
	return input, true
}
