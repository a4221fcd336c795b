package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/models"
)

func TestSummarize(t *testing.T) {
	lost := []models.LostReport{
		{ID: 1, Status: models.LostPending},
		{ID: 2, Status: models.LostMatched},
		{ID: 3, Status: models.LostClosed},
	}
	found := []models.FoundReport{
		{ID: 1, Status: models.FoundAvailable},
		{ID: 2, Status: models.FoundClaimPending},
		{ID: 3, Status: models.FoundClaimed},
		{ID: 4, Status: models.FoundArchived},
	}
	claims := []models.Claim{
		{ID: 1, Status: models.ClaimPending},
		{ID: 2, Status: models.ClaimPending},
		{ID: 3, Status: models.ClaimApproved},
		{ID: 4, Status: models.ClaimRejected},
		{ID: 5, Status: models.ClaimCancelled},
	}

	stats := Summarize(lost, found, claims)
	assert.Equal(t, 3, stats.TotalLost)
	assert.Equal(t, 4, stats.TotalFound)
	assert.Equal(t, 1, stats.Returned, "returned counts approved claims")
	assert.Equal(t, 2, stats.UnmatchedFound, "available and claim-pending reports are unmatched")
	assert.Equal(t, 2, stats.PendingClaims)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Zero(t, Summarize(nil, nil, nil))
}

func TestByMonth(t *testing.T) {
	lost := []models.LostReport{
		{DateLost: "2026-03-05"},
		{DateLost: "2026-03-28"},
		{DateLost: "2026-03-01T10:30:00Z"},
		{DateLost: "2025-03-05"},
		{DateLost: "yesterday-ish"},
	}
	found := []models.FoundReport{
		{DateFound: "2026-03-06"},
		{DateFound: "2026-11-20T08:00:00"},
	}

	buckets := ByMonth(2026, lost, found)
	assert.Len(t, buckets, 12)
	march := buckets[time.March-1]
	assert.Equal(t, time.March, march.Month)
	assert.Equal(t, 3, march.Lost, "other years and unparseable dates are skipped")
	assert.Equal(t, 1, march.Found)
	assert.Equal(t, 1, buckets[time.November-1].Found)
	assert.Zero(t, buckets[time.January-1].Lost)
}

func TestStatusBreakdownKeepsUnknownStatuses(t *testing.T) {
	claims := []models.Claim{
		{Status: models.ClaimPending},
		{Status: models.ClaimPending},
		{Status: models.ClaimStatus("ESCALATED")},
	}
	breakdown := StatusBreakdown(claims)
	assert.Equal(t, 2, breakdown[models.ClaimPending])
	assert.Equal(t, 1, breakdown[models.ClaimStatus("ESCALATED")])
}
