package businessflow

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/optiplan/optiplan/app/dto"
	"github.com/optiplan/optiplan/models"
	"github.com/optiplan/optiplan/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type reportEnv struct {
	selections *fakeSelectionRepo
	practices  *fakePracticeRepo
	audit      *fakeAuditRepo
	flow       ReportFlow

	harborview *models.Practice
	lakeside   *models.Practice
	campaign   *models.Campaign
}

func newReportEnv() *reportEnv {
	env := &reportEnv{
		selections: newFakeSelectionRepo(),
		practices:  newFakePracticeRepo(),
		audit:      &fakeAuditRepo{},
	}

	env.harborview = env.practices.add(&models.Practice{
		ID: 1, UUID: uuid.New(), Name: "Harborview Opticians", Code: "HV001", IsActive: true,
	})
	env.lakeside = env.practices.add(&models.Practice{
		ID: 2, UUID: uuid.New(), Name: "Lakeside Opticians", Code: "LS002", IsActive: true,
	})

	env.campaign = &models.Campaign{ID: 1, UUID: uuid.New(), Name: "Spring Eyewear", Tier: models.CampaignTierGood, IsActive: true}

	env.flow = NewReportFlow(env.selections, env.practices, env.audit)
	return env
}

func (e *reportEnv) seedSelection(practiceID uint, status models.SelectionStatus) *models.Selection {
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	sel := &models.Selection{
		UUID:       uuid.New(),
		PracticeID: practiceID,
		CampaignID: &e.campaign.ID,
		FromDate:   from,
		ToDate:     from.Add(27 * 24 * time.Hour),
		Status:     status,
		Campaign:   e.campaign,
		CreatedAt:  utils.UTCNow(),
	}
	return e.selections.add(sel)
}

func TestAdminListSelections(t *testing.T) {
	ctx := context.Background()
	env := newReportEnv()

	env.seedSelection(env.harborview.ID, models.SelectionStatusOnPlan)
	env.seedSelection(env.harborview.ID, models.SelectionStatusAssetsSubmitted)
	env.seedSelection(env.lakeside.ID, models.SelectionStatusAssetsSubmitted)

	t.Run("AllPractices", func(t *testing.T) {
		resp, err := env.flow.AdminListSelections(ctx, &dto.AdminListSelectionsRequest{AdminID: 1}, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.Total)
		assert.Len(t, resp.Selections, 3)
	})

	t.Run("StatusFilter", func(t *testing.T) {
		resp, err := env.flow.AdminListSelections(ctx, &dto.AdminListSelectionsRequest{
			AdminID: 1,
			Status:  utils.ToPtr("assets_submitted"),
		}, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Total)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		_, err := env.flow.AdminListSelections(ctx, &dto.AdminListSelectionsRequest{
			AdminID: 1,
			Status:  utils.ToPtr("pending"),
		}, testMetadata())
		assert.True(t, IsInvalidStatus(err))
	})
}

func TestExportPlanXLSX(t *testing.T) {
	ctx := context.Background()

	t.Run("AllPractices", func(t *testing.T) {
		env := newReportEnv()
		env.seedSelection(env.harborview.ID, models.SelectionStatusOnPlan)
		env.seedSelection(env.lakeside.ID, models.SelectionStatusAssetsConfirmed)

		resp, err := env.flow.ExportPlanXLSX(ctx, &dto.ExportPlanRequest{AdminID: 1}, testMetadata())
		require.NoError(t, err)
		assert.Contains(t, resp.FileName, ".xlsx")
		require.NotEmpty(t, resp.Content)

		xl, err := excelize.OpenReader(bytes.NewReader(resp.Content))
		require.NoError(t, err)
		defer func() { _ = xl.Close() }()

		sheets := xl.GetSheetList()
		assert.ElementsMatch(t, []string{"Harborview Opticians", "Lakeside Opticians"}, sheets)

		rows, err := xl.GetRows("Harborview Opticians")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "campaign", rows[0][0])
		assert.Equal(t, "Spring Eyewear", rows[1][0])
		assert.Equal(t, "on_plan", rows[1][4])

		audit := env.audit.last()
		require.NotNil(t, audit)
		assert.Equal(t, models.AuditActionPlanExported, audit.Action)
	})

	t.Run("SinglePractice", func(t *testing.T) {
		env := newReportEnv()
		env.seedSelection(env.harborview.ID, models.SelectionStatusOnPlan)
		env.seedSelection(env.lakeside.ID, models.SelectionStatusOnPlan)

		resp, err := env.flow.ExportPlanXLSX(ctx, &dto.ExportPlanRequest{
			AdminID:      1,
			PracticeUUID: utils.ToPtr(env.lakeside.UUID.String()),
		}, testMetadata())
		require.NoError(t, err)

		xl, err := excelize.OpenReader(bytes.NewReader(resp.Content))
		require.NoError(t, err)
		defer func() { _ = xl.Close() }()

		assert.Equal(t, []string{"Lakeside Opticians"}, xl.GetSheetList())
	})

	t.Run("UnknownPractice", func(t *testing.T) {
		env := newReportEnv()

		_, err := env.flow.ExportPlanXLSX(ctx, &dto.ExportPlanRequest{
			AdminID:      1,
			PracticeUUID: utils.ToPtr(uuid.NewString()),
		}, testMetadata())
		assert.True(t, IsPracticeNotFound(err))
	})
}

func TestSheetNameSanitization(t *testing.T) {
	assert.Equal(t, "Smith _ Jones Opticians", sanitizeSheetName("Smith / Jones Opticians"))
	assert.Equal(t, "Sheet", sanitizeSheetName(""))
	assert.Len(t, sanitizeSheetName("An Extremely Long Practice Name That Exceeds The Limit"), 31)
}
