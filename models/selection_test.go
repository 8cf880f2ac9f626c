package models

import (
	"testing"
	"time"

	"github.com/optiplan/optiplan/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionStatus(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		valid := []SelectionStatus{
			SelectionStatusOnPlan,
			SelectionStatusAssetsRequested,
			SelectionStatusAwaitingPracticeResponse,
			SelectionStatusAssetsSubmitted,
			SelectionStatusFeedbackRequested,
			SelectionStatusAssetsConfirmed,
		}
		for _, s := range valid {
			assert.True(t, s.Valid(), "expected %s to be valid", s)
		}

		assert.False(t, SelectionStatus("").Valid())
		assert.False(t, SelectionStatus("pending").Valid())
	})

	t.Run("IsTerminal", func(t *testing.T) {
		assert.True(t, SelectionStatusAssetsConfirmed.IsTerminal())
		assert.False(t, SelectionStatusOnPlan.IsTerminal())
		assert.False(t, SelectionStatusAssetsSubmitted.IsTerminal())
	})
}

func TestSelectionCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    SelectionStatus
		to      SelectionStatus
		allowed bool
	}{
		{SelectionStatusOnPlan, SelectionStatusAssetsRequested, true},
		{SelectionStatusOnPlan, SelectionStatusAssetsSubmitted, false},
		{SelectionStatusOnPlan, SelectionStatusAssetsConfirmed, false},

		// Admins may overwrite a pending request
		{SelectionStatusAssetsRequested, SelectionStatusAssetsRequested, true},
		{SelectionStatusAssetsRequested, SelectionStatusAwaitingPracticeResponse, true},
		{SelectionStatusAssetsRequested, SelectionStatusAssetsSubmitted, true},
		{SelectionStatusAssetsRequested, SelectionStatusAssetsConfirmed, false},

		{SelectionStatusAwaitingPracticeResponse, SelectionStatusAssetsRequested, true},
		{SelectionStatusAwaitingPracticeResponse, SelectionStatusAssetsSubmitted, true},
		{SelectionStatusAwaitingPracticeResponse, SelectionStatusAwaitingPracticeResponse, false},
		{SelectionStatusAwaitingPracticeResponse, SelectionStatusAssetsConfirmed, false},

		{SelectionStatusAssetsSubmitted, SelectionStatusAssetsConfirmed, true},
		{SelectionStatusAssetsSubmitted, SelectionStatusFeedbackRequested, true},
		{SelectionStatusAssetsSubmitted, SelectionStatusAssetsRequested, false},

		{SelectionStatusFeedbackRequested, SelectionStatusAssetsSubmitted, true},
		{SelectionStatusFeedbackRequested, SelectionStatusAssetsRequested, true},
		{SelectionStatusFeedbackRequested, SelectionStatusAssetsConfirmed, false},

		// Confirmed is terminal
		{SelectionStatusAssetsConfirmed, SelectionStatusAssetsRequested, false},
		{SelectionStatusAssetsConfirmed, SelectionStatusAssetsSubmitted, false},
		{SelectionStatusAssetsConfirmed, SelectionStatusOnPlan, false},
	}

	for _, c := range cases {
		sel := &Selection{Status: c.from}
		assert.Equal(t, c.allowed, sel.CanTransitionTo(c.to),
			"transition %s -> %s", c.from, c.to)
	}
}

func TestSelectionIsRemovable(t *testing.T) {
	removable := []SelectionStatus{
		SelectionStatusOnPlan,
		SelectionStatusAssetsRequested,
		SelectionStatusAwaitingPracticeResponse,
		SelectionStatusAssetsSubmitted,
		SelectionStatusFeedbackRequested,
	}
	for _, s := range removable {
		sel := &Selection{Status: s}
		assert.True(t, sel.IsRemovable(), "expected %s to be removable", s)
	}

	confirmed := &Selection{Status: SelectionStatusAssetsConfirmed}
	assert.False(t, confirmed.IsRemovable())
}

func TestSelectionCampaignRef(t *testing.T) {
	campaignID := uint(1)
	bespokeID := uint(2)
	from := utils.UTCNow()
	to := from.Add(14 * 24 * time.Hour)

	t.Run("CatalogOnly", func(t *testing.T) {
		sel := &Selection{PracticeID: 1, CampaignID: &campaignID, FromDate: from, ToDate: to}
		require.NoError(t, sel.BeforeCreate(nil))
		assert.False(t, sel.Bespoke)
		assert.Equal(t, SelectionStatusOnPlan, sel.Status)
		assert.NotZero(t, sel.UUID)
	})

	t.Run("BespokeOnly", func(t *testing.T) {
		sel := &Selection{PracticeID: 1, BespokeCampaignID: &bespokeID, FromDate: from, ToDate: to}
		require.NoError(t, sel.BeforeCreate(nil))
		assert.True(t, sel.Bespoke)
	})

	t.Run("BothSet", func(t *testing.T) {
		sel := &Selection{PracticeID: 1, CampaignID: &campaignID, BespokeCampaignID: &bespokeID}
		assert.Error(t, sel.BeforeCreate(nil))
	})

	t.Run("NeitherSet", func(t *testing.T) {
		sel := &Selection{PracticeID: 1}
		assert.Error(t, sel.BeforeCreate(nil))
	})
}

func TestSelectionStatusDisplayName(t *testing.T) {
	cases := map[SelectionStatus]string{
		SelectionStatusOnPlan:                   "On Plan",
		SelectionStatusAssetsRequested:          "Assets Requested",
		SelectionStatusAwaitingPracticeResponse: "Awaiting Practice Response",
		SelectionStatusAssetsSubmitted:          "Assets Submitted",
		SelectionStatusFeedbackRequested:        "Revision Requested",
		SelectionStatusAssetsConfirmed:          "Assets Confirmed",
	}
	for status, want := range cases {
		sel := &Selection{Status: status}
		assert.Equal(t, want, sel.GetStatusDisplayName())
	}

	unknown := &Selection{Status: SelectionStatus("bogus")}
	assert.Equal(t, "Unknown", unknown.GetStatusDisplayName())
}
