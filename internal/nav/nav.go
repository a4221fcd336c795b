// Package nav maps a session's granted permissions to the visible set of
// console destinations.
package nav

import (
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/models"
	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/session"
)

// Destination identifies one console view.
type Destination string

const (
	Dashboard    Destination = "dashboard"
	Items        Destination = "items"
	LostReports  Destination = "lostReports"
	FoundReports Destination = "foundReports"
	Claims       Destination = "claims"
	Users        Destination = "users"
)

// Rule links a destination to the permissions that unlock it. An empty
// Required list means always visible; otherwise any single granted
// permission from the list suffices.
type Rule struct {
	Dest     Destination
	Label    string
	Required []string
}

// Menu is the static destination table, in display order. Dashboard is the
// fallback destination and carries no requirement.
var Menu = []Rule{
	{Dest: Dashboard, Label: "Dashboard"},
	{Dest: LostReports, Label: "Lost Reports", Required: []string{models.PermReportLostItem, models.PermManageReports}},
	{Dest: FoundReports, Label: "Found Reports", Required: []string{models.PermReportFoundItem, models.PermManageReports}},
	{Dest: Claims, Label: "Claims", Required: []string{models.PermSubmitClaim, models.PermVerifyClaim}},
	{Dest: Items, Label: "Items", Required: []string{models.PermManageItems}},
	{Dest: Users, Label: "Users", Required: []string{models.PermManageUsers}},
}

// Visible computes the destination subset unlocked by the granted
// permission set, preserving menu order. An empty result collapses to the
// dashboard alone so the console always has somewhere to land.
func Visible(granted []string) []Rule {
	grantedSet := make(map[string]struct{}, len(granted))
	for _, p := range granted {
		grantedSet[session.NormalizePermission(p)] = struct{}{}
	}

	var visible []Rule
	for _, rule := range Menu {
		if len(rule.Required) == 0 {
			visible = append(visible, rule)
			continue
		}
		for _, req := range rule.Required {
			if _, ok := grantedSet[session.NormalizePermission(req)]; ok {
				visible = append(visible, rule)
				break
			}
		}
	}

	if len(visible) == 0 {
		for _, rule := range Menu {
			if rule.Dest == Dashboard {
				return []Rule{rule}
			}
		}
	}
	return visible
}

// Select keeps the current destination if it is still visible, otherwise
// forces the first visible destination. Re-evaluated whenever the
// permission set or selection changes.
func Select(granted []string, current Destination) Destination {
	visible := Visible(granted)
	for _, rule := range visible {
		if rule.Dest == current {
			return current
		}
	}
	if len(visible) > 0 {
		return visible[0].Dest
	}
	return Dashboard
}
