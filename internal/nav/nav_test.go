package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/models"
)

func dests(rules []Rule) []Destination {
	out := make([]Destination, len(rules))
	for i, r := range rules {
		out[i] = r.Dest
	}
	return out
}

func TestVisible(t *testing.T) {
	t.Run("no permissions collapses to dashboard", func(t *testing.T) {
		assert.Equal(t, []Destination{Dashboard}, dests(Visible(nil)))
		assert.Equal(t, []Destination{Dashboard}, dests(Visible([]string{})))
	})

	t.Run("student set", func(t *testing.T) {
		visible := Visible([]string{models.PermReportLostItem, models.PermSubmitClaim})
		assert.Equal(t, []Destination{Dashboard, LostReports, Claims}, dests(visible))
	})

	t.Run("any one required permission suffices", func(t *testing.T) {
		verifier := Visible([]string{models.PermVerifyClaim})
		assert.Contains(t, dests(verifier), Claims)
		manager := Visible([]string{models.PermManageReports})
		assert.Contains(t, dests(manager), LostReports)
		assert.Contains(t, dests(manager), FoundReports)
	})

	t.Run("full set shows everything in menu order", func(t *testing.T) {
		all := []string{
			models.PermReportLostItem, models.PermReportFoundItem,
			models.PermSubmitClaim, models.PermVerifyClaim,
			models.PermManageItems, models.PermManageReports, models.PermManageUsers,
		}
		assert.Equal(t,
			[]Destination{Dashboard, LostReports, FoundReports, Claims, Items, Users},
			dests(Visible(all)))
	})

	t.Run("unknown permissions unlock nothing", func(t *testing.T) {
		visible := Visible([]string{"RIDE_BICYCLE"})
		assert.Equal(t, []Destination{Dashboard}, dests(visible))
	})

	t.Run("comparison is case-insensitive", func(t *testing.T) {
		visible := Visible([]string{"manage_users"})
		assert.Contains(t, dests(visible), Users)
	})
}

func TestSelect(t *testing.T) {
	granted := []string{models.PermSubmitClaim}

	assert.Equal(t, Claims, Select(granted, Claims), "visible selection is kept")
	assert.Equal(t, Dashboard, Select(granted, Users), "hidden selection falls back to first visible")
	assert.Equal(t, Dashboard, Select(nil, Users))
}

func TestMenuHasNoDuplicateDestinations(t *testing.T) {
	seen := map[Destination]bool{}
	for _, rule := range Menu {
		require.False(t, seen[rule.Dest], "duplicate destination %s", rule.Dest)
		seen[rule.Dest] = true
		require.NotEmpty(t, rule.Label)
	}
}
