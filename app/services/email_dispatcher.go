package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/resend/resend-go/v2"
)

// Email dispatch error constants
var (
	ErrDispatcherClosed = errors.New("email dispatcher is closed")
	ErrQueueFull        = errors.New("email queue is full")
)

var (
	emailsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "optiplan_emails_enqueued_total",
		Help: "Total number of emails accepted for delivery",
	})
	emailsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "optiplan_emails_sent_total",
		Help: "Total number of emails delivered to the provider",
	})
	emailsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "optiplan_emails_failed_total",
		Help: "Total number of emails the provider rejected after retries",
	})
)

// EmailMessage is one queued outbound email
type EmailMessage struct {
	To      []string
	Subject string
	HTML    string
}

// EmailProvider delivers a single email
type EmailProvider interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// ResendProvider delivers email through the Resend API
type ResendProvider struct {
	client    *resend.Client
	fromEmail string
}

// NewResendProvider creates an email provider backed by Resend
func NewResendProvider(apiKey, fromEmail string) *ResendProvider {
	return &ResendProvider{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
	}
}

// Send delivers a single email via Resend
func (p *ResendProvider) Send(ctx context.Context, msg EmailMessage) error {
	params := &resend.SendEmailRequest{
		From:    p.fromEmail,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	}

	_, err := p.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	return nil
}

// MockEmailProvider records sent emails for tests and local development
type MockEmailProvider struct {
	mu   sync.Mutex
	Sent []EmailMessage
	Err  error
}

// Send records the email, or returns the configured error
func (p *MockEmailProvider) Send(ctx context.Context, msg EmailMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Sent = append(p.Sent, msg)
	return nil
}

// Messages returns a copy of the recorded emails
func (p *MockEmailProvider) Messages() []EmailMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]EmailMessage, len(p.Sent))
	copy(out, p.Sent)
	return out
}

// EmailDispatcher queues emails and delivers them on a background worker.
// Workflow transitions never wait on, or roll back for, email delivery.
type EmailDispatcher interface {
	Enqueue(msg EmailMessage) error
	Start(ctx context.Context) func()
}

// QueuedEmailDispatcher implements EmailDispatcher over a buffered channel
type QueuedEmailDispatcher struct {
	provider EmailProvider
	queue    chan EmailMessage
	retries  int
	closed   bool
	mu       sync.Mutex
	wg       sync.WaitGroup
}

// NewEmailDispatcher creates a dispatcher with the given queue depth
func NewEmailDispatcher(provider EmailProvider, queueSize int) *QueuedEmailDispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &QueuedEmailDispatcher{
		provider: provider,
		queue:    make(chan EmailMessage, queueSize),
		retries:  3,
	}
}

// Enqueue accepts an email for background delivery. It never blocks; a
// full queue is reported to the caller instead.
func (d *QueuedEmailDispatcher) Enqueue(msg EmailMessage) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.queue <- msg:
		emailsEnqueued.Inc()
		return nil
	default:
		return ErrQueueFull
	}
}

// Start launches the delivery worker and returns a stop function that
// drains the queue before returning.
func (d *QueuedEmailDispatcher) Start(ctx context.Context) func() {
	workerCtx, cancel := context.WithCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case msg, ok := <-d.queue:
				if !ok {
					return
				}
				d.deliver(workerCtx, msg)
			case <-workerCtx.Done():
				// Drain whatever is already queued before exiting
				for {
					select {
					case msg, ok := <-d.queue:
						if !ok {
							return
						}
						d.deliver(context.Background(), msg)
					default:
						return
					}
				}
			}
		}
	}()

	return func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()
		cancel()
		d.wg.Wait()
	}
}

func (d *QueuedEmailDispatcher) deliver(ctx context.Context, msg EmailMessage) {
	var err error
	for attempt := 0; attempt < d.retries; attempt++ {
		sendCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		err = d.provider.Send(sendCtx, msg)
		cancel()
		if err == nil {
			emailsSent.Inc()
			return
		}
		time.Sleep(time.Duration(attempt+1) * time.Second)
	}

	emailsFailed.Inc()
	log.Printf("email delivery failed after %d attempts to=%v subject=%q: %v", d.retries, msg.To, msg.Subject, err)
}
