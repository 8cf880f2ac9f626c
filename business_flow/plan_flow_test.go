package businessflow

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/optiplan/optiplan/app/dto"
	"github.com/optiplan/optiplan/models"
	"github.com/optiplan/optiplan/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// planEnv wires a PlanFlow over in-memory fakes with one practice, two
// catalog campaigns and one bespoke campaign.
type planEnv struct {
	selections *fakeSelectionRepo
	campaigns  *fakeCampaignRepo
	bespokes   *fakeBespokeRepo
	practices  *fakePracticeRepo
	audit      *fakeAuditRepo

	flow     PlanFlow
	practice *models.Practice
	good     *models.Campaign
	best     *models.Campaign
	bespoke  *models.BespokeCampaign
}

func newPlanEnv() *planEnv {
	env := &planEnv{
		selections: newFakeSelectionRepo(),
		campaigns:  newFakeCampaignRepo(),
		bespokes:   newFakeBespokeRepo(),
		practices:  newFakePracticeRepo(),
		audit:      &fakeAuditRepo{},
	}

	env.practice = env.practices.add(&models.Practice{
		ID: 1, UUID: uuid.New(),
		Name: "Harborview Opticians", Code: "HV001", IsActive: true,
	})

	posterPrice := int64(2500)
	env.good = env.campaigns.add(&models.Campaign{
		ID: 1, UUID: uuid.New(),
		Name: "Spring Eyewear", Category: "seasonal",
		Tier: models.CampaignTierGood, IsActive: true, SortOrder: 1,
		OfferedAssets: models.AssetsPayload{
			PrintedAssets: []models.AssetItem{
				{Name: "Window poster", Type: models.AssetTypeDefault, Price: &posterPrice, Quantity: 1, UserSelected: true},
			},
		},
	})
	env.best = env.campaigns.add(&models.Campaign{
		ID: 2, UUID: uuid.New(),
		Name: "Premium Lens Launch", Category: "product",
		Tier: models.CampaignTierBest, IsActive: true, SortOrder: 2,
	})
	env.campaigns.add(&models.Campaign{
		ID: 3, UUID: uuid.New(),
		Name: "Retired Promo", Category: "seasonal",
		Tier: models.CampaignTierGood, IsActive: false,
	})

	env.bespoke = env.bespokes.add(&models.BespokeCampaign{
		ID: 1, UUID: uuid.New(), PracticeID: env.practice.ID,
		Name: "Local Open Day", IsActive: true,
	})

	env.flow = NewPlanFlow(env.selections, env.campaigns, env.bespokes, env.practices, env.audit, &fakeTxManager{})
	return env
}

func planDates() (time.Time, time.Time) {
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return from, from.Add(27 * 24 * time.Hour)
}

func TestAddSelection(t *testing.T) {
	ctx := context.Background()
	from, to := planDates()

	t.Run("CatalogCampaign", func(t *testing.T) {
		env := newPlanEnv()

		resp, err := env.flow.AddSelection(ctx, &dto.AddSelectionRequest{
			PracticeID:   env.practice.ID,
			CampaignUUID: utils.ToPtr(env.good.UUID.String()),
			FromDate:     from,
			ToDate:       to,
		}, testMetadata())
		require.NoError(t, err)

		assert.Equal(t, models.SelectionStatusOnPlan.String(), resp.Selection.Status)
		assert.False(t, resp.Selection.Bespoke)
		// Offered assets are snapshotted onto the selection
		assert.Len(t, resp.Selection.Assets.PrintedAssets, 1)
		assert.Equal(t, int64(2500), resp.Selection.TotalCost)
	})

	t.Run("BespokeCampaign", func(t *testing.T) {
		env := newPlanEnv()

		resp, err := env.flow.AddSelection(ctx, &dto.AddSelectionRequest{
			PracticeID:          env.practice.ID,
			BespokeCampaignUUID: utils.ToPtr(env.bespoke.UUID.String()),
			FromDate:            from,
			ToDate:              to,
		}, testMetadata())
		require.NoError(t, err)
		assert.True(t, resp.Selection.Bespoke)
	})

	t.Run("ExactlyOneReference", func(t *testing.T) {
		env := newPlanEnv()

		_, err := env.flow.AddSelection(ctx, &dto.AddSelectionRequest{
			PracticeID:          env.practice.ID,
			CampaignUUID:        utils.ToPtr(env.good.UUID.String()),
			BespokeCampaignUUID: utils.ToPtr(env.bespoke.UUID.String()),
			FromDate:            from,
			ToDate:              to,
		}, testMetadata())
		assert.True(t, IsCampaignRefRequired(err))

		_, err = env.flow.AddSelection(ctx, &dto.AddSelectionRequest{
			PracticeID: env.practice.ID,
			FromDate:   from,
			ToDate:     to,
		}, testMetadata())
		assert.True(t, IsCampaignRefRequired(err))
	})

	t.Run("DatesInOrder", func(t *testing.T) {
		env := newPlanEnv()

		_, err := env.flow.AddSelection(ctx, &dto.AddSelectionRequest{
			PracticeID:   env.practice.ID,
			CampaignUUID: utils.ToPtr(env.good.UUID.String()),
			FromDate:     to,
			ToDate:       from,
		}, testMetadata())
		assert.True(t, IsStartDateAfterEndDate(err))
	})

	t.Run("OverlappingPeriod", func(t *testing.T) {
		env := newPlanEnv()

		add := func(f, tt time.Time) error {
			_, err := env.flow.AddSelection(ctx, &dto.AddSelectionRequest{
				PracticeID:   env.practice.ID,
				CampaignUUID: utils.ToPtr(env.good.UUID.String()),
				FromDate:     f,
				ToDate:       tt,
			}, testMetadata())
			return err
		}

		require.NoError(t, add(from, to))

		// Intersecting range of the same campaign is rejected
		err := add(to.Add(-24*time.Hour), to.Add(14*24*time.Hour))
		assert.True(t, IsSelectionOverlaps(err))

		// A disjoint later period is fine
		assert.NoError(t, add(to.Add(24*time.Hour), to.Add(28*24*time.Hour)))

		// Another campaign may share the period
		_, err = env.flow.AddSelection(ctx, &dto.AddSelectionRequest{
			PracticeID:   env.practice.ID,
			CampaignUUID: utils.ToPtr(env.best.UUID.String()),
			FromDate:     from,
			ToDate:       to,
		}, testMetadata())
		assert.NoError(t, err)
	})

	t.Run("InactiveCampaign", func(t *testing.T) {
		env := newPlanEnv()
		retired, err := env.campaigns.ByID(ctx, 3)
		require.NoError(t, err)

		_, err = env.flow.AddSelection(ctx, &dto.AddSelectionRequest{
			PracticeID:   env.practice.ID,
			CampaignUUID: utils.ToPtr(retired.UUID.String()),
			FromDate:     from,
			ToDate:       to,
		}, testMetadata())
		assert.True(t, IsCampaignInactive(err))
	})

	t.Run("UnknownCampaign", func(t *testing.T) {
		env := newPlanEnv()

		_, err := env.flow.AddSelection(ctx, &dto.AddSelectionRequest{
			PracticeID:   env.practice.ID,
			CampaignUUID: utils.ToPtr(uuid.NewString()),
			FromDate:     from,
			ToDate:       to,
		}, testMetadata())
		assert.True(t, IsCampaignNotFound(err))
	})

	t.Run("ForeignBespokeCampaign", func(t *testing.T) {
		env := newPlanEnv()
		foreign := env.bespokes.add(&models.BespokeCampaign{
			ID: 2, UUID: uuid.New(), PracticeID: 42, Name: "Someone else's event", IsActive: true,
		})

		_, err := env.flow.AddSelection(ctx, &dto.AddSelectionRequest{
			PracticeID:          env.practice.ID,
			BespokeCampaignUUID: utils.ToPtr(foreign.UUID.String()),
			FromDate:            from,
			ToDate:              to,
		}, testMetadata())
		assert.True(t, IsBespokeAccessDenied(err))
	})

	t.Run("InactivePractice", func(t *testing.T) {
		env := newPlanEnv()
		env.practices.add(&models.Practice{ID: 2, UUID: uuid.New(), Name: "Closed Branch", Code: "CB002", IsActive: false})

		_, err := env.flow.AddSelection(ctx, &dto.AddSelectionRequest{
			PracticeID:   2,
			CampaignUUID: utils.ToPtr(env.good.UUID.String()),
			FromDate:     from,
			ToDate:       to,
		}, testMetadata())
		assertBusinessCode(t, err, "PRACTICE_INACTIVE")
	})
}

func TestListCampaigns(t *testing.T) {
	ctx := context.Background()

	t.Run("CatalogPlusBespoke", func(t *testing.T) {
		env := newPlanEnv()

		resp, err := env.flow.ListCampaigns(ctx, &dto.ListCampaignsRequest{
			PracticeID: env.practice.ID,
		}, testMetadata())
		require.NoError(t, err)

		// Two active catalog campaigns plus the practice's bespoke one;
		// the retired campaign is hidden
		assert.Equal(t, int64(3), resp.Total)
		require.Len(t, resp.Campaigns, 3)
		assert.True(t, resp.Campaigns[2].Bespoke)
	})

	t.Run("TierFilter", func(t *testing.T) {
		env := newPlanEnv()

		resp, err := env.flow.ListCampaigns(ctx, &dto.ListCampaignsRequest{
			PracticeID: env.practice.ID,
			Tier:       utils.ToPtr("best"),
		}, testMetadata())
		require.NoError(t, err)

		// Tier filter still appends bespoke campaigns on the first page
		require.Len(t, resp.Campaigns, 2)
		assert.Equal(t, "Premium Lens Launch", resp.Campaigns[0].Name)
	})

	t.Run("InvalidTier", func(t *testing.T) {
		env := newPlanEnv()

		_, err := env.flow.ListCampaigns(ctx, &dto.ListCampaignsRequest{
			PracticeID: env.practice.ID,
			Tier:       utils.ToPtr("platinum"),
		}, testMetadata())
		assert.True(t, IsInvalidTier(err))
	})
}

func TestListSelections(t *testing.T) {
	ctx := context.Background()
	env := newPlanEnv()
	from, to := planDates()

	for _, campaignUUID := range []string{env.good.UUID.String(), env.best.UUID.String()} {
		_, err := env.flow.AddSelection(ctx, &dto.AddSelectionRequest{
			PracticeID:   env.practice.ID,
			CampaignUUID: utils.ToPtr(campaignUUID),
			FromDate:     from,
			ToDate:       to,
		}, testMetadata())
		require.NoError(t, err)
	}

	t.Run("PlanWithRunningCost", func(t *testing.T) {
		resp, err := env.flow.ListSelections(ctx, &dto.ListSelectionsRequest{
			PracticeID: env.practice.ID,
		}, testMetadata())
		require.NoError(t, err)

		assert.Equal(t, int64(2), resp.Total)
		assert.Len(t, resp.Selections, 2)
		// Only the poster campaign carries a selected priced item
		assert.Equal(t, int64(2500), resp.PlanCost)
	})

	t.Run("StatusFilter", func(t *testing.T) {
		resp, err := env.flow.ListSelections(ctx, &dto.ListSelectionsRequest{
			PracticeID: env.practice.ID,
			Status:     utils.ToPtr("assets_requested"),
		}, testMetadata())
		require.NoError(t, err)
		assert.Empty(t, resp.Selections)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		_, err := env.flow.ListSelections(ctx, &dto.ListSelectionsRequest{
			PracticeID: env.practice.ID,
			Status:     utils.ToPtr("pending"),
		}, testMetadata())
		assert.True(t, IsInvalidStatus(err))
	})
}

func TestRemoveSelection(t *testing.T) {
	ctx := context.Background()
	from, to := planDates()

	seed := func(env *planEnv, status models.SelectionStatus) *models.Selection {
		sel := &models.Selection{
			UUID:       uuid.New(),
			PracticeID: env.practice.ID,
			CampaignID: &env.good.ID,
			FromDate:   from,
			ToDate:     to,
			Status:     status,
		}
		return env.selections.add(sel)
	}

	t.Run("Success", func(t *testing.T) {
		env := newPlanEnv()
		sel := seed(env, models.SelectionStatusOnPlan)

		resp, err := env.flow.RemoveSelection(ctx, &dto.RemoveSelectionRequest{
			PracticeID:    env.practice.ID,
			SelectionUUID: sel.UUID.String(),
		}, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, sel.UUID.String(), resp.UUID)
		assert.Nil(t, env.selections.get(sel.ID))
	})

	t.Run("ConfirmedIsKept", func(t *testing.T) {
		env := newPlanEnv()
		sel := seed(env, models.SelectionStatusAssetsConfirmed)

		_, err := env.flow.RemoveSelection(ctx, &dto.RemoveSelectionRequest{
			PracticeID:    env.practice.ID,
			SelectionUUID: sel.UUID.String(),
		}, testMetadata())
		assert.True(t, IsSelectionNotRemovable(err))
		assert.NotNil(t, env.selections.get(sel.ID))
	})

	t.Run("OtherPractice", func(t *testing.T) {
		env := newPlanEnv()
		sel := seed(env, models.SelectionStatusOnPlan)

		_, err := env.flow.RemoveSelection(ctx, &dto.RemoveSelectionRequest{
			PracticeID:    42,
			SelectionUUID: sel.UUID.String(),
		}, testMetadata())
		assert.True(t, IsSelectionNotFound(err))
	})
}

func TestQuickPopulate(t *testing.T) {
	ctx := context.Background()
	from, to := planDates()

	t.Run("FillsTier", func(t *testing.T) {
		env := newPlanEnv()

		resp, err := env.flow.QuickPopulate(ctx, &dto.QuickPopulateRequest{
			PracticeID: env.practice.ID,
			Tier:       "good",
			FromDate:   from,
			ToDate:     to,
		}, testMetadata())
		require.NoError(t, err)

		// Only the active good-tier campaign qualifies
		assert.Equal(t, 1, resp.Added)
		assert.Equal(t, 0, resp.Skipped)
		require.Len(t, resp.Selections, 1)
		assert.Equal(t, models.SelectionStatusOnPlan.String(), resp.Selections[0].Status)
	})

	t.Run("SkipsOverlappingExisting", func(t *testing.T) {
		env := newPlanEnv()

		_, err := env.flow.AddSelection(ctx, &dto.AddSelectionRequest{
			PracticeID:   env.practice.ID,
			CampaignUUID: utils.ToPtr(env.good.UUID.String()),
			FromDate:     from,
			ToDate:       to,
		}, testMetadata())
		require.NoError(t, err)

		resp, err := env.flow.QuickPopulate(ctx, &dto.QuickPopulateRequest{
			PracticeID: env.practice.ID,
			Tier:       "good",
			FromDate:   from,
			ToDate:     to,
		}, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, 0, resp.Added)
		assert.Equal(t, 1, resp.Skipped)
	})

	t.Run("InvalidTier", func(t *testing.T) {
		env := newPlanEnv()

		_, err := env.flow.QuickPopulate(ctx, &dto.QuickPopulateRequest{
			PracticeID: env.practice.ID,
			Tier:       "platinum",
			FromDate:   from,
			ToDate:     to,
		}, testMetadata())
		assert.True(t, IsInvalidTier(err))
	})

	t.Run("EmptyTier", func(t *testing.T) {
		env := newPlanEnv()
		env.campaigns.get(2).IsActive = false

		_, err := env.flow.QuickPopulate(ctx, &dto.QuickPopulateRequest{
			PracticeID: env.practice.ID,
			Tier:       "best",
			FromDate:   from,
			ToDate:     to,
		}, testMetadata())
		assert.True(t, IsNoCampaignsInTier(err))
	})
}

func TestSelectionCost(t *testing.T) {
	ctx := context.Background()
	from, to := planDates()

	seed := func(t *testing.T, env *planEnv) *dto.SelectionDTO {
		t.Helper()
		resp, err := env.flow.AddSelection(ctx, &dto.AddSelectionRequest{
			PracticeID:   env.practice.ID,
			CampaignUUID: utils.ToPtr(env.good.UUID.String()),
			FromDate:     from,
			ToDate:       to,
		}, testMetadata())
		require.NoError(t, err)
		return &resp.Selection
	}

	t.Run("Breakdown", func(t *testing.T) {
		env := newPlanEnv()
		sel := seed(t, env)

		// Add a chosen card option on top of the snapshotted poster
		stored := env.selections.get(sel.ID)
		stored.Assets.PrintedAssets = append(stored.Assets.PrintedAssets, models.AssetItem{
			Name: "Appointment cards", Type: models.AssetTypeCard,
			Quantity: 2, UserSelected: true,
			ChosenOption:      utils.ToPtr("500 cards"),
			ChosenOptionValue: utils.ToPtr(int64(2500)),
		})

		resp, err := env.flow.SelectionCost(ctx, &dto.SelectionCostRequest{
			PracticeID:    env.practice.ID,
			SelectionUUID: sel.UUID,
		}, testMetadata())
		require.NoError(t, err)

		require.Len(t, resp.Lines, 2)
		assert.Equal(t, "Window poster", resp.Lines[0].Name)
		assert.Equal(t, int64(2500), resp.Lines[0].LineCost)
		assert.Equal(t, "Appointment cards", resp.Lines[1].Name)
		assert.Equal(t, "500 cards", resp.Lines[1].ChosenOption)
		assert.Equal(t, int64(5000), resp.Lines[1].LineCost)
		assert.Equal(t, int64(7500), resp.TotalCost)
	})

	t.Run("FreeItemsCostNothing", func(t *testing.T) {
		env := newPlanEnv()
		sel := seed(t, env)

		stored := env.selections.get(sel.ID)
		stored.Assets.DigitalAssets = []models.AssetItem{
			{Name: "Social media pack", Type: models.AssetTypeFree, Quantity: 1, UserSelected: true},
		}

		resp, err := env.flow.SelectionCost(ctx, &dto.SelectionCostRequest{
			PracticeID:    env.practice.ID,
			SelectionUUID: sel.UUID,
		}, testMetadata())
		require.NoError(t, err)

		require.Len(t, resp.Lines, 2)
		assert.Equal(t, int64(0), resp.Lines[1].LineCost)
		assert.Equal(t, int64(2500), resp.TotalCost)
	})

	t.Run("OtherPracticeSelection", func(t *testing.T) {
		env := newPlanEnv()
		sel := seed(t, env)
		env.selections.get(sel.ID).PracticeID = 42

		_, err := env.flow.SelectionCost(ctx, &dto.SelectionCostRequest{
			PracticeID:    env.practice.ID,
			SelectionUUID: sel.UUID,
		}, testMetadata())
		assert.True(t, IsSelectionNotFound(err))
	})

	t.Run("UnknownSelection", func(t *testing.T) {
		env := newPlanEnv()

		_, err := env.flow.SelectionCost(ctx, &dto.SelectionCostRequest{
			PracticeID:    env.practice.ID,
			SelectionUUID: uuid.NewString(),
		}, testMetadata())
		assert.True(t, IsSelectionNotFound(err))
	})
}
