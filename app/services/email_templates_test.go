package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWorkflowEmail(t *testing.T) {
	data := EmailTemplateData{
		RecipientName: "Jane",
		PracticeName:  "Harborview Opticians",
		CampaignName:  "Spring Eyewear",
		FromDate:      "2026-09-01",
		ToDate:        "2026-09-28",
		Note:          "Please respond by Friday",
		Feedback:      "Pick the smaller card pack",
		PlanURL:       "https://app.optiplan.co.uk/plan",
	}

	t.Run("AssetsRequested", func(t *testing.T) {
		html, err := RenderWorkflowEmail("assets_requested", data)
		require.NoError(t, err)
		assert.Contains(t, html, "Jane")
		assert.Contains(t, html, "Spring Eyewear")
		assert.Contains(t, html, "Please respond by Friday")
		assert.Contains(t, html, data.PlanURL)
	})

	t.Run("AssetsRequestedBulk", func(t *testing.T) {
		bulk := data
		bulk.Summary = "Spring Eyewear: 2026-09-01 to 2026-09-28\nLocal Open Day: 2026-09-01 to 2026-09-14"
		html, err := RenderWorkflowEmail("assets_requested_bulk", bulk)
		require.NoError(t, err)
		assert.Contains(t, html, "Spring Eyewear")
		assert.Contains(t, html, "Local Open Day")
		assert.Contains(t, html, "Please respond by Friday")
	})

	t.Run("RevisionRequested", func(t *testing.T) {
		html, err := RenderWorkflowEmail("revision_requested", data)
		require.NoError(t, err)
		assert.Contains(t, html, "Pick the smaller card pack")
	})

	t.Run("EscapesHTML", func(t *testing.T) {
		unsafe := data
		unsafe.Note = `<script>alert("x")</script>`
		html, err := RenderWorkflowEmail("assets_requested", unsafe)
		require.NoError(t, err)
		assert.NotContains(t, html, "<script>")
	})

	t.Run("UnknownTemplate", func(t *testing.T) {
		_, err := RenderWorkflowEmail("no_such_template", data)
		assert.Error(t, err)
	})
}

func TestWorkflowEmailSubject(t *testing.T) {
	cases := map[string]string{
		"assets_requested":      "Action needed: asset choices for Spring Eyewear",
		"assets_requested_bulk": "Action needed: asset choices for your upcoming campaigns",
		"assets_submitted":      "Assets submitted for Spring Eyewear",
		"assets_confirmed":      "Assets confirmed for Spring Eyewear",
		"revision_requested":    "Changes requested for Spring Eyewear",
		"planner_digest":        "Your upcoming campaigns",
		"something_else":        "Update on Spring Eyewear",
	}
	for name, want := range cases {
		assert.Equal(t, want, WorkflowEmailSubject(name, "Spring Eyewear"))
	}
}
