package services

import (
	"bytes"
	"fmt"
	"html/template"
)

// EmailTemplateData carries the values rendered into workflow emails
type EmailTemplateData struct {
	RecipientName string
	PracticeName  string
	CampaignName  string
	FromDate      string
	ToDate        string
	Note          string
	Summary       string
	Feedback      string
	ActorName     string
	TotalCost     string
	PlanURL       string
}

var workflowEmailTemplates = template.Must(template.New("workflow").Parse(`
{{define "assets_requested"}}
<p>Hi {{.RecipientName}},</p>
<p>The marketing team has requested asset choices for <strong>{{.CampaignName}}</strong>
({{.FromDate}} to {{.ToDate}}) at {{.PracticeName}}.</p>
{{if .Note}}<p>Note from the team: {{.Note}}</p>{{end}}
<p>Please review the request and submit your choices on your campaign plan.</p>
{{if .PlanURL}}<p><a href="{{.PlanURL}}">Open your plan</a></p>{{end}}
{{end}}

{{define "assets_requested_bulk"}}
<p>Hi {{.RecipientName}},</p>
<p>The marketing team has requested asset choices for these campaigns at {{.PracticeName}}:</p>
{{.Summary}}
{{if .Note}}<p>Note from the team: {{.Note}}</p>{{end}}
<p>Please review each request and submit your choices on your campaign plan.</p>
{{if .PlanURL}}<p><a href="{{.PlanURL}}">Open your plan</a></p>{{end}}
{{end}}

{{define "assets_submitted"}}
<p>Hi {{.RecipientName}},</p>
<p>{{.PracticeName}} has submitted asset choices for <strong>{{.CampaignName}}</strong>
({{.FromDate}} to {{.ToDate}}).</p>
{{if .Note}}<p>Note from the practice: {{.Note}}</p>{{end}}
{{if .TotalCost}}<p>Estimated cost: {{.TotalCost}}</p>{{end}}
<p>Submitted by {{.ActorName}}.</p>
{{end}}

{{define "assets_confirmed"}}
<p>Hi {{.RecipientName}},</p>
<p>The asset choices for <strong>{{.CampaignName}}</strong> at {{.PracticeName}}
({{.FromDate}} to {{.ToDate}}) have been confirmed. No further action is needed.</p>
{{if .Note}}<p>Note from the team: {{.Note}}</p>{{end}}
{{end}}

{{define "revision_requested"}}
<p>Hi {{.RecipientName}},</p>
<p>The marketing team has reviewed the submission for <strong>{{.CampaignName}}</strong>
at {{.PracticeName}} and asked for changes:</p>
<blockquote>{{.Feedback}}</blockquote>
<p>Please update your choices and resubmit.</p>
{{if .PlanURL}}<p><a href="{{.PlanURL}}">Open your plan</a></p>{{end}}
{{end}}

{{define "planner_digest"}}
<p>Hi {{.RecipientName}},</p>
<p>Here is your upcoming campaign summary for the practices you plan:</p>
{{.Note}}
{{if .PlanURL}}<p><a href="{{.PlanURL}}">Open the planner</a></p>{{end}}
{{end}}
`))

// RenderWorkflowEmail renders the named workflow email template
func RenderWorkflowEmail(name string, data EmailTemplateData) (string, error) {
	var buf bytes.Buffer
	if err := workflowEmailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render email template %q: %w", name, err)
	}
	return buf.String(), nil
}

// WorkflowEmailSubject returns the subject line for a workflow event
func WorkflowEmailSubject(name, campaignName string) string {
	switch name {
	case "assets_requested":
		return fmt.Sprintf("Action needed: asset choices for %s", campaignName)
	case "assets_requested_bulk":
		return "Action needed: asset choices for your upcoming campaigns"
	case "assets_submitted":
		return fmt.Sprintf("Assets submitted for %s", campaignName)
	case "assets_confirmed":
		return fmt.Sprintf("Assets confirmed for %s", campaignName)
	case "revision_requested":
		return fmt.Sprintf("Changes requested for %s", campaignName)
	case "planner_digest":
		return "Your upcoming campaigns"
	default:
		return fmt.Sprintf("Update on %s", campaignName)
	}
}
