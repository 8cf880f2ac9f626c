// Package businessflow contains the core business logic and use cases for campaign planning workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Account-related errors
	ErrUserNotFound      = errors.New("user not found")
	ErrAdminNotFound     = errors.New("admin not found")
	ErrAccountInactive   = errors.New("account is inactive")
	ErrIncorrectPassword = errors.New("incorrect password")

	// Practice-related errors
	ErrPracticeNotFound   = errors.New("practice not found")
	ErrPracticeInactive   = errors.New("practice is inactive")
	ErrNotPracticeMember  = errors.New("user is not assigned to this practice")
	ErrPracticeIDRequired = errors.New("practice ID is required")

	// Campaign and plan errors
	ErrCampaignNotFound      = errors.New("campaign not found")
	ErrCampaignInactive      = errors.New("campaign is inactive")
	ErrCampaignRefRequired   = errors.New("exactly one of campaign and bespoke campaign must be provided")
	ErrBespokeAccessDenied   = errors.New("bespoke campaign belongs to another practice")
	ErrStartDateAfterEndDate = errors.New("start date cannot be after end date")
	ErrSelectionOverlaps     = errors.New("campaign is already on the plan for an overlapping period")
	ErrInvalidTier           = errors.New("invalid campaign tier")
	ErrNoCampaignsInTier     = errors.New("no active campaigns in the requested tier")

	// Selection workflow errors
	ErrSelectionNotFound         = errors.New("selection not found")
	ErrSelectionAlreadyConfirmed = errors.New("selection is already confirmed")
	ErrSelectionNotRemovable     = errors.New("selection cannot be removed after confirmation")
	ErrInvalidTransition         = errors.New("selection status does not allow this operation")
	ErrTooManyCreativeOptions    = errors.New("too many creative options offered")
	ErrChosenCreativeNotOffered  = errors.New("chosen creative was not among the offered options")
	ErrFeedbackRequired          = errors.New("feedback is required when requesting a revision")
	ErrNoAssetsRequested         = errors.New("asset request must offer at least one asset")
	ErrNothingSelected           = errors.New("submission must select at least one asset")

	// Notification errors
	ErrNotificationNotFound     = errors.New("notification not found")
	ErrNotificationAccessDenied = errors.New("notification belongs to another user")
	ErrNoRecipients             = errors.New("no recipients could be resolved for the practice")
	ErrInvalidRecipient         = errors.New("recipient is not an active member of the practice")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
	ErrInvalidStatus   = errors.New("invalid selection status")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsAdminNotFound(err error) bool {
	return errors.Is(err, ErrAdminNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsPracticeNotFound(err error) bool {
	return errors.Is(err, ErrPracticeNotFound)
}

func IsNotPracticeMember(err error) bool {
	return errors.Is(err, ErrNotPracticeMember)
}

func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

func IsSelectionNotFound(err error) bool {
	return errors.Is(err, ErrSelectionNotFound)
}

func IsSelectionAlreadyConfirmed(err error) bool {
	return errors.Is(err, ErrSelectionAlreadyConfirmed)
}

func IsSelectionNotRemovable(err error) bool {
	return errors.Is(err, ErrSelectionNotRemovable)
}

func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

func IsChosenCreativeNotOffered(err error) bool {
	return errors.Is(err, ErrChosenCreativeNotOffered)
}

func IsFeedbackRequired(err error) bool {
	return errors.Is(err, ErrFeedbackRequired)
}

func IsSelectionOverlaps(err error) bool {
	return errors.Is(err, ErrSelectionOverlaps)
}

func IsNotificationNotFound(err error) bool {
	return errors.Is(err, ErrNotificationNotFound)
}

func IsNotificationAccessDenied(err error) bool {
	return errors.Is(err, ErrNotificationAccessDenied)
}

func IsInvalidRecipient(err error) bool {
	return errors.Is(err, ErrInvalidRecipient)
}

func IsCampaignInactive(err error) bool {
	return errors.Is(err, ErrCampaignInactive)
}

func IsCampaignRefRequired(err error) bool {
	return errors.Is(err, ErrCampaignRefRequired)
}

func IsBespokeAccessDenied(err error) bool {
	return errors.Is(err, ErrBespokeAccessDenied)
}

func IsStartDateAfterEndDate(err error) bool {
	return errors.Is(err, ErrStartDateAfterEndDate)
}

func IsInvalidTier(err error) bool {
	return errors.Is(err, ErrInvalidTier)
}

func IsNoCampaignsInTier(err error) bool {
	return errors.Is(err, ErrNoCampaignsInTier)
}

func IsTooManyCreativeOptions(err error) bool {
	return errors.Is(err, ErrTooManyCreativeOptions)
}

func IsNoAssetsRequested(err error) bool {
	return errors.Is(err, ErrNoAssetsRequested)
}

func IsNothingSelected(err error) bool {
	return errors.Is(err, ErrNothingSelected)
}

func IsInvalidStatus(err error) bool {
	return errors.Is(err, ErrInvalidStatus)
}
