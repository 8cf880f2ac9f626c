package businessflow

import (
	"context"

	"github.com/optiplan/optiplan/models"
	"github.com/optiplan/optiplan/repository"
)

// RecipientResolver decides which practice users are notified about a
// workflow event.
type RecipientResolver interface {
	// Resolve returns the users to notify for a practice. Users who have
	// disabled email notifications still receive in-app notifications, so
	// they are included with EmailEnabled false.
	Resolve(ctx context.Context, practiceID uint) ([]ResolvedRecipient, error)
}

// ResolvedRecipient is one user to notify, with the channels they accept
type ResolvedRecipient struct {
	User         *models.User
	EmailEnabled bool
}

// PracticeRecipientResolver resolves recipients as the active members of
// the practice
type PracticeRecipientResolver struct {
	userRepo repository.UserRepository
}

// NewRecipientResolver creates a resolver over the user repository
func NewRecipientResolver(userRepo repository.UserRepository) RecipientResolver {
	return &PracticeRecipientResolver{userRepo: userRepo}
}

// Resolve returns the active members of the practice, deduplicated by
// email so a shared inbox is only notified once
func (r *PracticeRecipientResolver) Resolve(ctx context.Context, practiceID uint) ([]ResolvedRecipient, error) {
	users, err := r.userRepo.ListByPractice(ctx, practiceID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(users))
	recipients := make([]ResolvedRecipient, 0, len(users))
	for _, u := range users {
		if !u.IsActive || seen[u.Email] {
			continue
		}
		seen[u.Email] = true
		recipients = append(recipients, ResolvedRecipient{
			User:         u,
			EmailEnabled: u.EmailNotificationsEnabled,
		})
	}

	return recipients, nil
}

// EmailRecipients filters resolved recipients down to those accepting email
func EmailRecipients(recipients []ResolvedRecipient) []string {
	var emails []string
	for _, r := range recipients {
		if r.EmailEnabled {
			emails = append(emails, r.User.Email)
		}
	}
	return emails
}

// RecipientSnapshots converts resolved recipients to log snapshots. Only
// recipients who were actually emailed are recorded on the log entry.
func RecipientSnapshots(recipients []ResolvedRecipient) models.RecipientList {
	snapshots := make(models.RecipientList, 0, len(recipients))
	for _, r := range recipients {
		if !r.EmailEnabled {
			continue
		}
		snapshots = append(snapshots, models.Recipient{
			Name:  r.User.FullName(),
			Email: r.User.Email,
		})
	}
	return snapshots
}
