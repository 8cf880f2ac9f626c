package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/optiplan/optiplan/app/services"
	businessflow "github.com/optiplan/optiplan/business_flow"
	"github.com/optiplan/optiplan/models"
	"github.com/optiplan/optiplan/repository"
	"github.com/optiplan/optiplan/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The fakes embed the repository interfaces so only the methods the
// scheduler actually calls need an implementation.

type schedPracticeRepo struct {
	repository.PracticeRepository
	practices []*models.Practice
}

func (r *schedPracticeRepo) ListActive(ctx context.Context, limit, offset int) ([]*models.Practice, error) {
	var active []*models.Practice
	for _, p := range r.practices {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}

type schedSelectionRepo struct {
	repository.SelectionRepository
	selections []*models.Selection
}

func (r *schedSelectionRepo) ListUpcoming(ctx context.Context, from, to time.Time) ([]*models.Selection, error) {
	var upcoming []*models.Selection
	for _, sel := range r.selections {
		if !sel.FromDate.Before(from) && !sel.FromDate.After(to) {
			upcoming = append(upcoming, sel)
		}
	}
	return upcoming, nil
}

type schedNotificationRepo struct {
	repository.NotificationRepository

	mu    sync.Mutex
	saved []*models.Notification
}

func (r *schedNotificationRepo) SaveBatch(ctx context.Context, notifications []*models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, notifications...)
	return nil
}

func (r *schedNotificationRepo) all() []*models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.Notification(nil), r.saved...)
}

type stubResolver struct {
	byPractice map[uint][]businessflow.ResolvedRecipient
}

func (s *stubResolver) Resolve(ctx context.Context, practiceID uint) ([]businessflow.ResolvedRecipient, error) {
	return s.byPractice[practiceID], nil
}

type schedDispatcher struct {
	mu     sync.Mutex
	queued []services.EmailMessage
}

func (d *schedDispatcher) Enqueue(msg services.EmailMessage) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queued = append(d.queued, msg)
	return nil
}

func (d *schedDispatcher) Start(ctx context.Context) func() { return func() {} }

func (d *schedDispatcher) messages() []services.EmailMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]services.EmailMessage(nil), d.queued...)
}

func schedUser(id uint, name, email string) *models.User {
	return &models.User{
		ID: id, UUID: uuid.New(),
		FirstName: name, LastName: "Planner",
		Email:    email,
		IsActive: true,
	}
}

func upcomingSelection(practiceID uint, campaign *models.Campaign, start time.Time) *models.Selection {
	return &models.Selection{
		UUID:       uuid.New(),
		PracticeID: practiceID,
		CampaignID: &campaign.ID,
		Campaign:   campaign,
		FromDate:   start,
		ToDate:     start.Add(27 * 24 * time.Hour),
		Status:     models.SelectionStatusOnPlan,
	}
}

func TestDigestRunOnce(t *testing.T) {
	campaign := &models.Campaign{ID: 1, UUID: uuid.New(), Name: "Spring Eyewear", IsActive: true}
	soon := utils.UTCNow().Add(7 * 24 * time.Hour)

	practices := &schedPracticeRepo{practices: []*models.Practice{
		{ID: 1, UUID: uuid.New(), Name: "Harborview Opticians", Code: "HV001", IsActive: true},
		{ID: 2, UUID: uuid.New(), Name: "Lakeside Opticians", Code: "LS002", IsActive: true},
	}}
	selections := &schedSelectionRepo{selections: []*models.Selection{
		upcomingSelection(1, campaign, soon),
	}}
	notifications := &schedNotificationRepo{}
	dispatcher := &schedDispatcher{}
	resolver := &stubResolver{byPractice: map[uint][]businessflow.ResolvedRecipient{
		1: {
			{User: schedUser(10, "Jane", "jane@example.com"), EmailEnabled: true},
			{User: schedUser(11, "Tom", "tom@example.com"), EmailEnabled: false},
		},
	}}

	s := NewDigestScheduler(practices, selections, notifications, resolver, dispatcher, nil, time.Hour, "https://app.optiplan.co.uk/plan")

	report := s.RunOnce(context.Background())

	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, report.Errors)

	// Both members get an in-app notification, opted-out or not
	saved := notifications.all()
	require.Len(t, saved, 2)
	for _, n := range saved {
		assert.Equal(t, models.NotificationKindPlannerDigest, n.Kind)
		assert.Contains(t, n.Title, "Harborview Opticians")
		assert.Contains(t, n.Body, "Spring Eyewear")
	}

	// Only the opted-in member is emailed
	msgs := dispatcher.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"jane@example.com"}, msgs[0].To)
	assert.Equal(t, "Your upcoming campaigns", msgs[0].Subject)
	assert.Contains(t, msgs[0].HTML, "Spring Eyewear")
}

func TestDigestSkipsFarFutureSelections(t *testing.T) {
	campaign := &models.Campaign{ID: 1, UUID: uuid.New(), Name: "Winter Frames", IsActive: true}

	practices := &schedPracticeRepo{practices: []*models.Practice{
		{ID: 1, UUID: uuid.New(), Name: "Harborview Opticians", Code: "HV001", IsActive: true},
	}}
	selections := &schedSelectionRepo{selections: []*models.Selection{
		upcomingSelection(1, campaign, utils.UTCNow().Add(utils.DigestWindow+24*time.Hour)),
	}}
	notifications := &schedNotificationRepo{}
	dispatcher := &schedDispatcher{}
	resolver := &stubResolver{byPractice: map[uint][]businessflow.ResolvedRecipient{
		1: {{User: schedUser(10, "Jane", "jane@example.com"), EmailEnabled: true}},
	}}

	s := NewDigestScheduler(practices, selections, notifications, resolver, dispatcher, nil, time.Hour, "")

	report := s.RunOnce(context.Background())

	assert.Equal(t, 0, report.Processed)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, notifications.all())
	assert.Empty(t, dispatcher.messages())
}

func TestDigestSummary(t *testing.T) {
	campaign := &models.Campaign{ID: 1, Name: "Spring Eyewear"}
	bespoke := &models.BespokeCampaign{ID: 2, Name: "Local Open Day"}
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	summary := digestSummary([]*models.Selection{
		{Campaign: campaign, FromDate: from, ToDate: from.Add(27 * 24 * time.Hour), Status: models.SelectionStatusOnPlan},
		{BespokeCampaign: bespoke, FromDate: from, ToDate: from.Add(13 * 24 * time.Hour), Status: models.SelectionStatusAssetsRequested},
	})

	assert.Contains(t, summary, "Spring Eyewear: 2026-09-01 to 2026-09-28 (On Plan)")
	assert.Contains(t, summary, "Local Open Day: 2026-09-01 to 2026-09-14 (Assets Requested)")
}
