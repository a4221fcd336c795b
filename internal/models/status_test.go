package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateClaimTransition(t *testing.T) {
	t.Run("pending accepts every decision", func(t *testing.T) {
		for _, to := range []ClaimStatus{ClaimApproved, ClaimRejected, ClaimCancelled} {
			assert.NoError(t, ValidateClaimTransition(ClaimPending, to))
		}
	})

	t.Run("terminal states accept nothing", func(t *testing.T) {
		for _, from := range []ClaimStatus{ClaimApproved, ClaimRejected, ClaimCancelled} {
			for _, to := range ClaimStatuses {
				assert.Error(t, ValidateClaimTransition(from, to), "%s -> %s", from, to)
			}
		}
	})

	t.Run("pending to pending is not a transition", func(t *testing.T) {
		assert.Error(t, ValidateClaimTransition(ClaimPending, ClaimPending))
	})

	t.Run("unknown target is rejected", func(t *testing.T) {
		assert.Error(t, ValidateClaimTransition(ClaimPending, ClaimStatus("ESCALATED")))
	})
}

func TestClaimReviewable(t *testing.T) {
	assert.True(t, Claim{Status: ClaimPending}.Reviewable())
	assert.False(t, Claim{Status: ClaimApproved}.Reviewable())
	assert.False(t, Claim{Status: ClaimCancelled}.Reviewable())
}

func TestTerminal(t *testing.T) {
	assert.False(t, ClaimPending.Terminal())
	assert.True(t, ClaimApproved.Terminal())
	assert.True(t, ClaimRejected.Terminal())
	assert.True(t, ClaimCancelled.Terminal())
	assert.False(t, ClaimStatus("ESCALATED").Terminal(), "unknown statuses are not assumed terminal")
}

func TestKnownToleratesUnknownValues(t *testing.T) {
	assert.True(t, FoundClaimPending.Known())
	assert.False(t, FoundReportStatus("IN_TRANSIT").Known())
	assert.False(t, LostReportStatus("").Known())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Claim pending", Label("CLAIM_PENDING"))
	assert.Equal(t, "Approved", Label("APPROVED"))
	assert.Equal(t, "In transit", Label("IN_TRANSIT"), "unknown values render instead of failing")
	assert.Equal(t, "—", Label(""))
	assert.Equal(t, "—", Label("   "))
	assert.Equal(t, "Internal", Label("_INTERNAL"), "leading separators are dropped")
	assert.Equal(t, "Very odd", Label("__VERY__ODD__"))
	assert.Equal(t, "___", Label("___"), "separator-only values pass through untouched")
}

func TestReferenceLabelFallback(t *testing.T) {
	require.Equal(t, "LST-AB12CD34", LostReport{ID: 5, ReferenceCode: "LST-AB12CD34"}.ReferenceLabel())
	assert.Equal(t, "L-5", LostReport{ID: 5}.ReferenceLabel())
	assert.Equal(t, "F-9", FoundReport{ID: 9}.ReferenceLabel())
}
