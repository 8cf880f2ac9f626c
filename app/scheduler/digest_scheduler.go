// Package scheduler runs the periodic planner digest job
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/optiplan/optiplan/app/services"
	businessflow "github.com/optiplan/optiplan/business_flow"
	"github.com/optiplan/optiplan/models"
	"github.com/optiplan/optiplan/repository"
	"github.com/optiplan/optiplan/utils"
	"github.com/redis/go-redis/v9"
)

// digestConcurrency bounds how many practices are processed at once
const digestConcurrency = 4

// DigestReport summarizes one digest run
type DigestReport struct {
	Processed int
	Sent      int
	Skipped   int
	Errors    []string
}

// DigestScheduler periodically sends each practice an upcoming-campaign
// summary, as in-app notifications plus one email per opted-in recipient
type DigestScheduler struct {
	practiceRepo     repository.PracticeRepository
	selectionRepo    repository.SelectionRepository
	notificationRepo repository.NotificationRepository
	resolver         businessflow.RecipientResolver
	dispatcher       services.EmailDispatcher
	rc               *redis.Client
	logger           *log.Logger
	interval         time.Duration
	planURL          string

	logFile *os.File
}

// NewDigestScheduler creates a new digest scheduler
func NewDigestScheduler(
	practiceRepo repository.PracticeRepository,
	selectionRepo repository.SelectionRepository,
	notificationRepo repository.NotificationRepository,
	resolver businessflow.RecipientResolver,
	dispatcher services.EmailDispatcher,
	rc *redis.Client,
	interval time.Duration,
	planURL string,
) *DigestScheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	s := &DigestScheduler{
		practiceRepo:     practiceRepo,
		selectionRepo:    selectionRepo,
		notificationRepo: notificationRepo,
		resolver:         resolver,
		dispatcher:       dispatcher,
		rc:               rc,
		interval:         interval,
		planURL:          planURL,
	}

	if err := s.initSchedulerLogger(); err != nil {
		s.logger = log.Default()
		s.logger.Printf("scheduler: failed to initialize file logger: %v", err)
	}

	return s
}

// initSchedulerLogger configures a logger that writes to both stdout and a persistent file under data/ (or /data)
func (s *DigestScheduler) initSchedulerLogger() error {
	candidates := []string{
		filepath.Join("data"),
		"/data",
	}
	for _, dir := range candidates {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			continue
		}
		logPath := filepath.Join(dir, "scheduler.log")
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			continue
		}
		s.logFile = f
		mw := io.MultiWriter(os.Stdout, f)
		s.logger = log.New(mw, "scheduler ", log.LstdFlags|log.Lmicroseconds|log.LUTC)
		return nil
	}
	return fmt.Errorf("could not create scheduler log file in any candidate directory")
}

// Start launches the scheduler loop in a background goroutine and returns a stop function
func (s *DigestScheduler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.RunOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				if s.logFile != nil {
					_ = s.logFile.Close()
				}
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()

	return cancel
}

// RunOnce executes a single digest pass across all active practices. One
// practice failing never stops the batch.
func (s *DigestScheduler) RunOnce(ctx context.Context) DigestReport {
	now := utils.UTCNow()

	selections, err := s.selectionRepo.ListUpcoming(ctx, now, now.Add(utils.DigestWindow))
	if err != nil {
		s.logger.Printf("scheduler: list upcoming selections failed: %v", err)
		return DigestReport{Errors: []string{err.Error()}}
	}

	byPractice := make(map[uint][]*models.Selection)
	for _, sel := range selections {
		byPractice[sel.PracticeID] = append(byPractice[sel.PracticeID], sel)
	}

	practices, err := s.practiceRepo.ListActive(ctx, 0, 0)
	if err != nil {
		s.logger.Printf("scheduler: list practices failed: %v", err)
		return DigestReport{Errors: []string{err.Error()}}
	}

	var (
		mu     sync.Mutex
		report DigestReport
		wg     sync.WaitGroup
		sem    = make(chan struct{}, digestConcurrency)
	)

	for _, practice := range practices {
		upcoming := byPractice[practice.ID]
		if len(upcoming) == 0 {
			mu.Lock()
			report.Skipped++
			mu.Unlock()
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(p *models.Practice, sels []*models.Selection) {
			defer wg.Done()
			defer func() { <-sem }()

			sent, err := s.digestPractice(ctx, p, sels)
			mu.Lock()
			defer mu.Unlock()
			report.Processed++
			report.Sent += sent
			if err != nil {
				report.Errors = append(report.Errors, fmt.Sprintf("practice %s: %v", p.Code, err))
			}
		}(practice, upcoming)
	}

	wg.Wait()

	s.logger.Printf("scheduler: digest run processed=%d sent=%d skipped=%d errors=%d",
		report.Processed, report.Sent, report.Skipped, len(report.Errors))
	return report
}

// digestPractice notifies one practice's recipients about its upcoming
// selections. Returns how many emails were enqueued.
func (s *DigestScheduler) digestPractice(ctx context.Context, practice *models.Practice, selections []*models.Selection) (int, error) {
	recipients, err := s.resolver.Resolve(ctx, practice.ID)
	if err != nil {
		return 0, fmt.Errorf("resolve recipients: %w", err)
	}
	if len(recipients) == 0 {
		return 0, nil
	}

	summary := digestSummary(selections)
	title := fmt.Sprintf("%d upcoming campaigns at %s", len(selections), practice.Name)

	notifications := make([]*models.Notification, 0, len(recipients))
	for _, r := range recipients {
		notifications = append(notifications, &models.Notification{
			UserID: r.User.ID,
			Kind:   models.NotificationKindPlannerDigest,
			Title:  title,
			Body:   summary,
		})
	}
	if err := s.notificationRepo.SaveBatch(ctx, notifications); err != nil {
		return 0, fmt.Errorf("save notifications: %w", err)
	}

	if s.rc != nil {
		for _, r := range recipients {
			s.rc.Del(ctx, businessflow.UnreadCountCacheKey(r.User.ID))
		}
	}

	sent := 0
	for _, r := range recipients {
		if !r.EmailEnabled {
			continue
		}

		html, err := services.RenderWorkflowEmail("planner_digest", services.EmailTemplateData{
			RecipientName: r.User.FullName(),
			PracticeName:  practice.Name,
			Note:          summary,
			PlanURL:       s.planURL,
		})
		if err != nil {
			s.logger.Printf("scheduler: render digest for %s failed: %v", r.User.Email, err)
			continue
		}

		if err := s.dispatcher.Enqueue(services.EmailMessage{
			To:      []string{r.User.Email},
			Subject: services.WorkflowEmailSubject("planner_digest", ""),
			HTML:    html,
		}); err != nil {
			s.logger.Printf("scheduler: enqueue digest for %s failed: %v", r.User.Email, err)
			continue
		}
		sent++
	}

	return sent, nil
}

// digestSummary renders the upcoming selections as one line per campaign
func digestSummary(selections []*models.Selection) string {
	lines := make([]string, 0, len(selections))
	for _, sel := range selections {
		name := "Campaign"
		if sel.Campaign != nil {
			name = sel.Campaign.Name
		} else if sel.BespokeCampaign != nil {
			name = sel.BespokeCampaign.Name
		}
		lines = append(lines, fmt.Sprintf("%s: %s to %s (%s)",
			name,
			sel.FromDate.Format("2006-01-02"),
			sel.ToDate.Format("2006-01-02"),
			sel.GetStatusDisplayName(),
		))
	}
	return strings.Join(lines, "\n")
}
