// Package dashboard derives display-only summaries from already-fetched
// collections. Nothing here is authoritative; the backend owns the counts
// and the console recomputes them from whatever page of data it has.
package dashboard

import (
	"time"

	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/models"
)

// Stats is the headline card row of the dashboard.
type Stats struct {
	TotalLost      int
	TotalFound     int
	Returned       int
	UnmatchedFound int
	PendingClaims  int
}

// Summarize computes the headline stats over the fetched collections.
// Returned counts APPROVED claims; unmatched found reports are the ones
// still AVAILABLE or with a claim pending.
func Summarize(lost []models.LostReport, found []models.FoundReport, claims []models.Claim) Stats {
	stats := Stats{
		TotalLost:  len(lost),
		TotalFound: len(found),
	}
	for _, fr := range found {
		if fr.Status == models.FoundAvailable || fr.Status == models.FoundClaimPending {
			stats.UnmatchedFound++
		}
	}
	for _, c := range claims {
		switch c.Status {
		case models.ClaimApproved:
			stats.Returned++
		case models.ClaimPending:
			stats.PendingClaims++
		}
	}
	return stats
}

// MonthlyActivity is one month's lost/found report volume.
type MonthlyActivity struct {
	Month time.Month
	Lost  int
	Found int
}

// ByMonth buckets reports of the given year into the twelve months,
// keyed on each report's date field. Dates that do not parse are skipped
// rather than failing the chart.
func ByMonth(year int, lost []models.LostReport, found []models.FoundReport) []MonthlyActivity {
	buckets := make([]MonthlyActivity, 12)
	for i := range buckets {
		buckets[i].Month = time.Month(i + 1)
	}
	for _, r := range lost {
		if t, ok := parseReportDate(r.DateLost); ok && t.Year() == year {
			buckets[int(t.Month())-1].Lost++
		}
	}
	for _, r := range found {
		if t, ok := parseReportDate(r.DateFound); ok && t.Year() == year {
			buckets[int(t.Month())-1].Found++
		}
	}
	return buckets
}

// StatusBreakdown tallies claims per status, keeping unknown status values
// as their own buckets instead of dropping them.
func StatusBreakdown(claims []models.Claim) map[models.ClaimStatus]int {
	out := make(map[models.ClaimStatus]int)
	for _, c := range claims {
		out[c.Status]++
	}
	return out
}

// dateLayouts are the report date shapes the backend has been seen to emit.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

func parseReportDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
