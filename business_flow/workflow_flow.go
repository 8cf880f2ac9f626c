// Package businessflow contains the core business logic and use cases for campaign planning workflows
package businessflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/optiplan/optiplan/app/dto"
	"github.com/optiplan/optiplan/app/services"
	"github.com/optiplan/optiplan/config"
	"github.com/optiplan/optiplan/models"
	"github.com/optiplan/optiplan/repository"
	"github.com/optiplan/optiplan/utils"
	"github.com/redis/go-redis/v9"
)

// WorkflowFlow handles the asset request and response workflow between the
// marketing team and practices
type WorkflowFlow interface {
	RequestAssets(ctx context.Context, req *dto.RequestAssetsRequest, metadata *ClientMetadata) (*dto.RequestAssetsResponse, error)
	RequestAssetsBulk(ctx context.Context, req *dto.RequestAssetsBulkRequest, metadata *ClientMetadata) (*dto.RequestAssetsBulkResponse, error)
	AcknowledgeRequest(ctx context.Context, req *dto.AcknowledgeRequestRequest, metadata *ClientMetadata) (*dto.AcknowledgeRequestResponse, error)
	SubmitAssets(ctx context.Context, req *dto.SubmitAssetsRequest, metadata *ClientMetadata) (*dto.SubmitAssetsResponse, error)
	ConfirmAssets(ctx context.Context, req *dto.ConfirmAssetsRequest, metadata *ClientMetadata) (*dto.ConfirmAssetsResponse, error)
	RequestRevision(ctx context.Context, req *dto.RequestRevisionRequest, metadata *ClientMetadata) (*dto.RequestRevisionResponse, error)
	ListCommunicationLog(ctx context.Context, req *dto.ListCommunicationLogRequest, metadata *ClientMetadata) (*dto.ListCommunicationLogResponse, error)
}

// WorkflowFlowImpl implements the workflow business flow
type WorkflowFlowImpl struct {
	selectionRepo    repository.SelectionRepository
	commLogRepo      repository.CommunicationLogRepository
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	adminRepo        repository.AdminRepository
	auditRepo        repository.AuditLogRepository
	resolver         RecipientResolver
	dispatcher       services.EmailDispatcher
	tx               repository.TxManager
	rc               *redis.Client
	adminConfig      config.AdminConfig
}

// NewWorkflowFlow creates a new workflow flow instance
func NewWorkflowFlow(
	selectionRepo repository.SelectionRepository,
	commLogRepo repository.CommunicationLogRepository,
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	adminRepo repository.AdminRepository,
	auditRepo repository.AuditLogRepository,
	resolver RecipientResolver,
	dispatcher services.EmailDispatcher,
	tx repository.TxManager,
	rc *redis.Client,
	adminConfig config.AdminConfig,
) WorkflowFlow {
	return &WorkflowFlowImpl{
		selectionRepo:    selectionRepo,
		commLogRepo:      commLogRepo,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		adminRepo:        adminRepo,
		auditRepo:        auditRepo,
		resolver:         resolver,
		dispatcher:       dispatcher,
		tx:               tx,
		rc:               rc,
		adminConfig:      adminConfig,
	}
}

// transitionResult carries what a committed transition produced, for the
// post-commit side effects (audit, emails, cache invalidation).
type transitionResult struct {
	selection  *models.Selection
	recipients []ResolvedRecipient
}

// RequestAssets moves a selection to assets_requested and records which
// assets and creative options are on offer. Re-requesting overwrites the
// previous offer and clears the practice's earlier answers.
func (s *WorkflowFlowImpl) RequestAssets(ctx context.Context, req *dto.RequestAssetsRequest, metadata *ClientMetadata) (*dto.RequestAssetsResponse, error) {
	if err := validateAssetRequest(req.PrintedAssets, req.DigitalAssets, req.ExternalPlacements, req.RequestedCreatives); err != nil {
		return nil, NewBusinessError("ASSET_REQUEST_VALIDATION_FAILED", "Asset request validation failed", err)
	}

	admin, err := s.getAdmin(ctx, req.AdminID)
	if err != nil {
		return nil, err
	}

	var result *transitionResult
	err = s.tx.Do(ctx, func(txCtx context.Context) error {
		result, err = s.applyAssetRequest(txCtx, req.SelectionUUID, req, admin)
		return err
	})
	if err != nil {
		errMsg := fmt.Sprintf("Asset request failed: %s", err.Error())
		_ = s.createAdminAuditLog(ctx, admin, models.AuditActionAssetsRequested, errMsg, false, &errMsg, metadata)
		return nil, wrapWorkflowError("ASSET_REQUEST_FAILED", "Asset request failed", err)
	}

	msg := fmt.Sprintf("Assets requested for selection %s", result.selection.UUID)
	_ = s.createAdminAuditLog(ctx, admin, models.AuditActionAssetsRequested, msg, true, nil, metadata)

	warning := s.sendWorkflowEmails(result, "assets_requested", services.EmailTemplateData{
		Note: req.RequestNote,
	})
	s.invalidateUnreadCounts(ctx, result.recipients)

	return &dto.RequestAssetsResponse{
		Message:   "Assets requested successfully",
		Selection: ToSelectionDTO(*result.selection),
		Notified:  len(result.recipients),
		Warning:   warning,
	}, nil
}

// RequestAssetsBulk applies the same asset request to several selections.
// Failures are reported per selection and do not stop the rest.
func (s *WorkflowFlowImpl) RequestAssetsBulk(ctx context.Context, req *dto.RequestAssetsBulkRequest, metadata *ClientMetadata) (*dto.RequestAssetsBulkResponse, error) {
	if err := validateAssetRequest(req.PrintedAssets, req.DigitalAssets, req.ExternalPlacements, req.RequestedCreatives); err != nil {
		return nil, NewBusinessError("ASSET_REQUEST_VALIDATION_FAILED", "Asset request validation failed", err)
	}

	admin, err := s.getAdmin(ctx, req.AdminID)
	if err != nil {
		return nil, err
	}

	resp := &dto.RequestAssetsBulkResponse{}
	single := &dto.RequestAssetsRequest{
		AdminID:            req.AdminID,
		PrintedAssets:      req.PrintedAssets,
		DigitalAssets:      req.DigitalAssets,
		ExternalPlacements: req.ExternalPlacements,
		RequestedCreatives: req.RequestedCreatives,
		RequestNote:        req.RequestNote,
	}

	var succeeded []*transitionResult
	for _, selectionUUID := range req.SelectionUUIDs {
		resp.Processed++

		var result *transitionResult
		err := s.tx.Do(ctx, func(txCtx context.Context) error {
			var txErr error
			result, txErr = s.applyAssetRequest(txCtx, selectionUUID, single, admin)
			return txErr
		})
		if err != nil {
			resp.Skipped++
			resp.Errors = append(resp.Errors, dto.BulkItemError{
				SelectionUUID: selectionUUID,
				Code:          bulkErrorCode(err),
				Message:       err.Error(),
			})
			continue
		}

		resp.Sent++
		succeeded = append(succeeded, result)
		s.invalidateUnreadCounts(ctx, result.recipients)
	}

	// One consolidated email per recipient covering every selection that
	// went through, rather than one email per selection
	s.sendBulkRequestEmails(succeeded, req.RequestNote)

	msg := fmt.Sprintf("Bulk asset request: %d sent, %d skipped", resp.Sent, resp.Skipped)
	_ = s.createAdminAuditLog(ctx, admin, models.AuditActionAssetsRequested, msg, resp.Skipped == 0, nil, metadata)

	resp.Message = msg
	return resp, nil
}

// applyAssetRequest performs the in-transaction part of an asset request
func (s *WorkflowFlowImpl) applyAssetRequest(txCtx context.Context, selectionUUID string, req *dto.RequestAssetsRequest, admin *models.Admin) (*transitionResult, error) {
	selection, err := s.getSelection(txCtx, selectionUUID)
	if err != nil {
		return nil, err
	}

	if !selection.CanTransitionTo(models.SelectionStatusAssetsRequested) {
		if selection.Status.IsTerminal() {
			return nil, ErrSelectionAlreadyConfirmed
		}
		return nil, ErrInvalidTransition
	}

	fromStatus := selection.Status

	// A fresh request replaces the previous offer and any answers the
	// practice gave against it
	selection.Assets = models.AssetsPayload{
		PrintedAssets:      req.PrintedAssets,
		DigitalAssets:      req.DigitalAssets,
		ExternalPlacements: req.ExternalPlacements,
		RequestedCreatives: req.RequestedCreatives,
		RequestNote:        req.RequestNote,
	}
	selection.Status = models.SelectionStatusAssetsRequested

	if err := s.selectionRepo.Update(txCtx, *selection); err != nil {
		return nil, fmt.Errorf("failed to update selection: %w", err)
	}

	recipients, err := s.resolveRequestRecipients(txCtx, selection.PracticeID, req.RecipientIDs)
	if err != nil {
		return nil, err
	}

	entry := &models.CommunicationLog{
		SelectionID: selection.ID,
		Event:       models.CommunicationEventAssetsRequested,
		FromStatus:  fromStatus,
		ToStatus:    selection.Status,
		ActorType:   models.ActorTypeAdmin,
		ActorID:     admin.ID,
		ActorName:   admin.FullName(),
		Note:        req.RequestNote,
		Assets:      selection.Assets,
		Recipients:  RecipientSnapshots(recipients),
	}
	if err := s.commLogRepo.Save(txCtx, entry); err != nil {
		return nil, fmt.Errorf("failed to append communication log: %w", err)
	}

	if err := s.notifyRecipients(txCtx, selection, recipients, models.NotificationKindAssetsRequested,
		fmt.Sprintf("Asset choices needed for %s", campaignName(selection)),
		fmt.Sprintf("The marketing team has requested asset choices for %s.", campaignName(selection))); err != nil {
		return nil, err
	}

	return &transitionResult{selection: selection, recipients: recipients}, nil
}

// AcknowledgeRequest records that the practice has seen an open asset
// request, moving it to awaiting_practice_response.
func (s *WorkflowFlowImpl) AcknowledgeRequest(ctx context.Context, req *dto.AcknowledgeRequestRequest, metadata *ClientMetadata) (*dto.AcknowledgeRequestResponse, error) {
	user, err := s.getUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	var selection *models.Selection
	err = s.tx.Do(ctx, func(txCtx context.Context) error {
		selection, err = s.getPracticeSelection(txCtx, req.SelectionUUID, req.PracticeID, user)
		if err != nil {
			return err
		}

		if selection.Status != models.SelectionStatusAssetsRequested {
			return ErrInvalidTransition
		}

		fromStatus := selection.Status
		selection.Status = models.SelectionStatusAwaitingPracticeResponse

		if err := s.selectionRepo.Update(txCtx, *selection); err != nil {
			return fmt.Errorf("failed to update selection: %w", err)
		}

		entry := &models.CommunicationLog{
			SelectionID: selection.ID,
			Event:       models.CommunicationEventRequestAcknowledged,
			FromStatus:  fromStatus,
			ToStatus:    selection.Status,
			ActorType:   models.ActorTypePractice,
			ActorID:     user.ID,
			ActorName:   user.FullName(),
			Assets:      selection.Assets,
		}
		return s.commLogRepo.Save(txCtx, entry)
	})
	if err != nil {
		errMsg := fmt.Sprintf("Acknowledge failed: %s", err.Error())
		_ = s.createUserAuditLog(ctx, user, models.AuditActionRequestAcknowledged, errMsg, false, &errMsg, metadata)
		return nil, wrapWorkflowError("ACKNOWLEDGE_FAILED", "Failed to acknowledge asset request", err)
	}

	msg := fmt.Sprintf("Asset request acknowledged for selection %s", selection.UUID)
	_ = s.createUserAuditLog(ctx, user, models.AuditActionRequestAcknowledged, msg, true, nil, metadata)

	return &dto.AcknowledgeRequestResponse{
		Message:   "Asset request acknowledged",
		Selection: ToSelectionDTO(*selection),
	}, nil
}

// SubmitAssets records the practice's asset choices and moves the
// selection to assets_submitted.
func (s *WorkflowFlowImpl) SubmitAssets(ctx context.Context, req *dto.SubmitAssetsRequest, metadata *ClientMetadata) (*dto.SubmitAssetsResponse, error) {
	user, err := s.getUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	var selection *models.Selection
	err = s.tx.Do(ctx, func(txCtx context.Context) error {
		selection, err = s.getPracticeSelection(txCtx, req.SelectionUUID, req.PracticeID, user)
		if err != nil {
			return err
		}

		if !selection.CanTransitionTo(models.SelectionStatusAssetsSubmitted) {
			if selection.Status.IsTerminal() {
				return ErrSelectionAlreadyConfirmed
			}
			return ErrInvalidTransition
		}

		payload := selection.Assets
		payload.PrintedAssets = normalizeSubmittedItems(req.PrintedAssets)
		payload.DigitalAssets = normalizeSubmittedItems(req.DigitalAssets)
		payload.ExternalPlacements = normalizeSubmittedItems(req.ExternalPlacements)
		payload.PracticeNote = req.PracticeNote
		payload.Feedback = ""

		if req.ChosenCreative != nil {
			if !payload.OffersCreative(*req.ChosenCreative) {
				return ErrChosenCreativeNotOffered
			}
			payload.ChosenCreative = req.ChosenCreative
		}

		if len(payload.SelectedItems()) == 0 && payload.ChosenCreative == nil {
			return ErrNothingSelected
		}

		fromStatus := selection.Status
		selection.Assets = payload
		selection.Status = models.SelectionStatusAssetsSubmitted

		if err := s.selectionRepo.Update(txCtx, *selection); err != nil {
			return fmt.Errorf("failed to update selection: %w", err)
		}

		entry := &models.CommunicationLog{
			SelectionID: selection.ID,
			Event:       models.CommunicationEventAssetsSubmitted,
			FromStatus:  fromStatus,
			ToStatus:    selection.Status,
			ActorType:   models.ActorTypePractice,
			ActorID:     user.ID,
			ActorName:   user.FullName(),
			Note:        req.PracticeNote,
			Assets:      selection.Assets,
			Recipients:  s.teamRecipients(),
		}
		return s.commLogRepo.Save(txCtx, entry)
	})
	if err != nil {
		errMsg := fmt.Sprintf("Asset submission failed: %s", err.Error())
		_ = s.createUserAuditLog(ctx, user, models.AuditActionAssetsSubmitted, errMsg, false, &errMsg, metadata)
		return nil, wrapWorkflowError("ASSET_SUBMISSION_FAILED", "Asset submission failed", err)
	}

	msg := fmt.Sprintf("Assets submitted for selection %s", selection.UUID)
	_ = s.createUserAuditLog(ctx, user, models.AuditActionAssetsSubmitted, msg, true, nil, metadata)

	// The marketing team inbox is notified rather than practice users
	var warning string
	if s.adminConfig.NotificationEmail != "" {
		html, renderErr := services.RenderWorkflowEmail("assets_submitted", services.EmailTemplateData{
			RecipientName: "Marketing Team",
			PracticeName:  practiceName(selection),
			CampaignName:  campaignName(selection),
			FromDate:      selection.FromDate.Format("2006-01-02"),
			ToDate:        selection.ToDate.Format("2006-01-02"),
			Note:          req.PracticeNote,
			ActorName:     user.FullName(),
			TotalCost:     formatPence(selection.Assets.TotalCost()),
		})
		if renderErr == nil {
			if enqueueErr := s.dispatcher.Enqueue(services.EmailMessage{
				To:      []string{s.adminConfig.NotificationEmail},
				Subject: services.WorkflowEmailSubject("assets_submitted", campaignName(selection)),
				HTML:    html,
			}); enqueueErr != nil {
				warning = "submission recorded but the email notification could not be queued"
			}
		}
	}

	return &dto.SubmitAssetsResponse{
		Message:   "Assets submitted successfully",
		Selection: ToSelectionDTO(*selection),
		TotalCost: selection.Assets.TotalCost(),
		Warning:   warning,
	}, nil
}

// ConfirmAssets closes the workflow for a selection. Confirmed selections
// can no longer change.
func (s *WorkflowFlowImpl) ConfirmAssets(ctx context.Context, req *dto.ConfirmAssetsRequest, metadata *ClientMetadata) (*dto.ConfirmAssetsResponse, error) {
	admin, err := s.getAdmin(ctx, req.AdminID)
	if err != nil {
		return nil, err
	}

	var result *transitionResult
	err = s.tx.Do(ctx, func(txCtx context.Context) error {
		selection, err := s.getSelection(txCtx, req.SelectionUUID)
		if err != nil {
			return err
		}

		if !selection.CanTransitionTo(models.SelectionStatusAssetsConfirmed) {
			if selection.Status.IsTerminal() {
				return ErrSelectionAlreadyConfirmed
			}
			return ErrInvalidTransition
		}

		fromStatus := selection.Status
		selection.Status = models.SelectionStatusAssetsConfirmed

		if err := s.selectionRepo.Update(txCtx, *selection); err != nil {
			return fmt.Errorf("failed to update selection: %w", err)
		}

		recipients, err := s.resolver.Resolve(txCtx, selection.PracticeID)
		if err != nil {
			return fmt.Errorf("failed to resolve recipients: %w", err)
		}

		entry := &models.CommunicationLog{
			SelectionID: selection.ID,
			Event:       models.CommunicationEventAssetsConfirmed,
			FromStatus:  fromStatus,
			ToStatus:    selection.Status,
			ActorType:   models.ActorTypeAdmin,
			ActorID:     admin.ID,
			ActorName:   admin.FullName(),
			Note:        req.Note,
			Assets:      selection.Assets,
			Recipients:  RecipientSnapshots(recipients),
		}
		if err := s.commLogRepo.Save(txCtx, entry); err != nil {
			return fmt.Errorf("failed to append communication log: %w", err)
		}

		if err := s.notifyRecipients(txCtx, selection, recipients, models.NotificationKindAssetsConfirmed,
			fmt.Sprintf("Assets confirmed for %s", campaignName(selection)),
			fmt.Sprintf("The marketing team confirmed your asset choices for %s.", campaignName(selection))); err != nil {
			return err
		}

		result = &transitionResult{selection: selection, recipients: recipients}
		return nil
	})
	if err != nil {
		errMsg := fmt.Sprintf("Asset confirmation failed: %s", err.Error())
		_ = s.createAdminAuditLog(ctx, admin, models.AuditActionAssetsConfirmed, errMsg, false, &errMsg, metadata)
		return nil, wrapWorkflowError("ASSET_CONFIRMATION_FAILED", "Asset confirmation failed", err)
	}

	msg := fmt.Sprintf("Assets confirmed for selection %s", result.selection.UUID)
	_ = s.createAdminAuditLog(ctx, admin, models.AuditActionAssetsConfirmed, msg, true, nil, metadata)

	warning := s.sendWorkflowEmails(result, "assets_confirmed", services.EmailTemplateData{
		Note: req.Note,
	})
	s.invalidateUnreadCounts(ctx, result.recipients)

	return &dto.ConfirmAssetsResponse{
		Message:   "Assets confirmed successfully",
		Selection: ToSelectionDTO(*result.selection),
		Warning:   warning,
	}, nil
}

// RequestRevision sends a submission back to the practice with feedback,
// moving the selection to feedback_requested.
func (s *WorkflowFlowImpl) RequestRevision(ctx context.Context, req *dto.RequestRevisionRequest, metadata *ClientMetadata) (*dto.RequestRevisionResponse, error) {
	if req.Feedback == "" {
		return nil, NewBusinessError("FEEDBACK_REQUIRED", "Feedback is required", ErrFeedbackRequired)
	}

	admin, err := s.getAdmin(ctx, req.AdminID)
	if err != nil {
		return nil, err
	}

	var result *transitionResult
	err = s.tx.Do(ctx, func(txCtx context.Context) error {
		selection, err := s.getSelection(txCtx, req.SelectionUUID)
		if err != nil {
			return err
		}

		if !selection.CanTransitionTo(models.SelectionStatusFeedbackRequested) {
			if selection.Status.IsTerminal() {
				return ErrSelectionAlreadyConfirmed
			}
			return ErrInvalidTransition
		}

		fromStatus := selection.Status
		selection.Assets.Feedback = req.Feedback
		selection.Status = models.SelectionStatusFeedbackRequested

		if err := s.selectionRepo.Update(txCtx, *selection); err != nil {
			return fmt.Errorf("failed to update selection: %w", err)
		}

		recipients, err := s.resolver.Resolve(txCtx, selection.PracticeID)
		if err != nil {
			return fmt.Errorf("failed to resolve recipients: %w", err)
		}

		entry := &models.CommunicationLog{
			SelectionID: selection.ID,
			Event:       models.CommunicationEventRevisionRequested,
			FromStatus:  fromStatus,
			ToStatus:    selection.Status,
			ActorType:   models.ActorTypeAdmin,
			ActorID:     admin.ID,
			ActorName:   admin.FullName(),
			Note:        req.Feedback,
			Assets:      selection.Assets,
			Recipients:  RecipientSnapshots(recipients),
		}
		if err := s.commLogRepo.Save(txCtx, entry); err != nil {
			return fmt.Errorf("failed to append communication log: %w", err)
		}

		if err := s.notifyRecipients(txCtx, selection, recipients, models.NotificationKindRevisionRequested,
			fmt.Sprintf("Changes requested for %s", campaignName(selection)),
			fmt.Sprintf("The marketing team asked for changes to your submission for %s: %s", campaignName(selection), req.Feedback)); err != nil {
			return err
		}

		result = &transitionResult{selection: selection, recipients: recipients}
		return nil
	})
	if err != nil {
		errMsg := fmt.Sprintf("Revision request failed: %s", err.Error())
		_ = s.createAdminAuditLog(ctx, admin, models.AuditActionRevisionRequested, errMsg, false, &errMsg, metadata)
		return nil, wrapWorkflowError("REVISION_REQUEST_FAILED", "Revision request failed", err)
	}

	msg := fmt.Sprintf("Revision requested for selection %s", result.selection.UUID)
	_ = s.createAdminAuditLog(ctx, admin, models.AuditActionRevisionRequested, msg, true, nil, metadata)

	warning := s.sendWorkflowEmails(result, "revision_requested", services.EmailTemplateData{
		Feedback: req.Feedback,
	})
	s.invalidateUnreadCounts(ctx, result.recipients)

	return &dto.RequestRevisionResponse{
		Message:   "Revision requested successfully",
		Selection: ToSelectionDTO(*result.selection),
		Warning:   warning,
	}, nil
}

// ListCommunicationLog returns a selection's full workflow history,
// oldest first.
func (s *WorkflowFlowImpl) ListCommunicationLog(ctx context.Context, req *dto.ListCommunicationLogRequest, metadata *ClientMetadata) (*dto.ListCommunicationLogResponse, error) {
	selection, err := s.getSelection(ctx, req.SelectionUUID)
	if err != nil {
		return nil, wrapWorkflowError("SELECTION_LOOKUP_FAILED", "Failed to lookup selection", err)
	}

	entries, err := s.commLogRepo.ListBySelection(ctx, selection.ID)
	if err != nil {
		return nil, NewBusinessError("COMMUNICATION_LOG_LOOKUP_FAILED", "Failed to list communication log", err)
	}

	out := make([]dto.CommunicationLogEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToCommunicationLogEntryDTO(*e))
	}

	return &dto.ListCommunicationLogResponse{
		Message: "Communication log retrieved successfully",
		Entries: out,
	}, nil
}

// getSelection loads a selection by UUID, mapping absence to a sentinel
func (s *WorkflowFlowImpl) getSelection(ctx context.Context, selectionUUID string) (*models.Selection, error) {
	selection, err := s.selectionRepo.ByUUID(ctx, selectionUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup selection: %w", err)
	}
	if selection == nil {
		return nil, ErrSelectionNotFound
	}
	return selection, nil
}

// getPracticeSelection loads a selection and checks the acting user may
// touch it on behalf of the practice
func (s *WorkflowFlowImpl) getPracticeSelection(ctx context.Context, selectionUUID string, practiceID uint, user *models.User) (*models.Selection, error) {
	selection, err := s.getSelection(ctx, selectionUUID)
	if err != nil {
		return nil, err
	}
	if selection.PracticeID != practiceID {
		return nil, ErrSelectionNotFound
	}
	if !user.MemberOf(practiceID) {
		return nil, ErrNotPracticeMember
	}
	return selection, nil
}

func (s *WorkflowFlowImpl) getAdmin(ctx context.Context, adminID uint) (*models.Admin, error) {
	admin, err := s.adminRepo.ByID(ctx, adminID)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}
	if admin == nil {
		return nil, NewBusinessError("ADMIN_NOT_FOUND", "Admin not found", ErrAdminNotFound)
	}
	if !admin.IsActive {
		return nil, NewBusinessError("ACCOUNT_INACTIVE", "Account is inactive", ErrAccountInactive)
	}
	return admin, nil
}

func (s *WorkflowFlowImpl) getUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to lookup user", err)
	}
	if user == nil {
		return nil, NewBusinessError("USER_NOT_FOUND", "User not found", ErrUserNotFound)
	}
	if !user.IsActive {
		return nil, NewBusinessError("ACCOUNT_INACTIVE", "Account is inactive", ErrAccountInactive)
	}
	return user, nil
}

// resolveRequestRecipients picks the recipients for an asset request.
// When the request names users explicitly they are used as given, their
// email opt-out ignored; otherwise resolution falls back to the automatic
// rule. Recipients are deduplicated by email.
func (s *WorkflowFlowImpl) resolveRequestRecipients(ctx context.Context, practiceID uint, userIDs []uint) ([]ResolvedRecipient, error) {
	if len(userIDs) == 0 {
		return s.resolver.Resolve(ctx, practiceID)
	}

	users, err := s.userRepo.ByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup recipients: %w", err)
	}

	byID := make(map[uint]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	seen := make(map[string]bool, len(userIDs))
	recipients := make([]ResolvedRecipient, 0, len(userIDs))
	for _, id := range userIDs {
		u, ok := byID[id]
		if !ok || !u.IsActive || !u.MemberOf(practiceID) {
			return nil, NewBusinessError("INVALID_RECIPIENT", "Recipient is not an active member of the practice", ErrInvalidRecipient)
		}
		if seen[u.Email] {
			continue
		}
		seen[u.Email] = true
		recipients = append(recipients, ResolvedRecipient{User: u, EmailEnabled: true})
	}

	return recipients, nil
}

// notifyRecipients creates an in-app notification row per recipient.
// Email preference does not matter here; it only gates emails.
func (s *WorkflowFlowImpl) notifyRecipients(ctx context.Context, selection *models.Selection, recipients []ResolvedRecipient, kind models.NotificationKind, title, body string) error {
	notifications := make([]*models.Notification, 0, len(recipients))
	for _, r := range recipients {
		notifications = append(notifications, &models.Notification{
			UserID:      r.User.ID,
			SelectionID: &selection.ID,
			Kind:        kind,
			Title:       title,
			Body:        body,
		})
	}
	if err := s.notificationRepo.SaveBatch(ctx, notifications); err != nil {
		return fmt.Errorf("failed to create notifications: %w", err)
	}
	return nil
}

// sendWorkflowEmails enqueues one email per consenting recipient after the
// transition has committed. Delivery problems never undo the transition;
// an enqueue failure surfaces as a warning on the response.
func (s *WorkflowFlowImpl) sendWorkflowEmails(result *transitionResult, templateName string, base services.EmailTemplateData) string {
	var warning string

	base.PracticeName = practiceName(result.selection)
	base.CampaignName = campaignName(result.selection)
	base.FromDate = result.selection.FromDate.Format("2006-01-02")
	base.ToDate = result.selection.ToDate.Format("2006-01-02")

	for _, r := range result.recipients {
		if !r.EmailEnabled {
			continue
		}

		data := base
		data.RecipientName = r.User.FirstName

		html, err := services.RenderWorkflowEmail(templateName, data)
		if err != nil {
			warning = "transition saved but a notification email could not be rendered"
			continue
		}

		if err := s.dispatcher.Enqueue(services.EmailMessage{
			To:      []string{r.User.Email},
			Subject: services.WorkflowEmailSubject(templateName, base.CampaignName),
			HTML:    html,
		}); err != nil {
			warning = "transition saved but some notification emails could not be queued"
		}
	}

	return warning
}

// sendBulkRequestEmails enqueues one email per consenting recipient across
// all the selections a bulk request transitioned, listing every campaign it
// covered for their practice.
func (s *WorkflowFlowImpl) sendBulkRequestEmails(results []*transitionResult, note string) {
	type group struct {
		recipient  ResolvedRecipient
		selections []*models.Selection
	}

	groups := make(map[string]*group)
	var order []string
	for _, result := range results {
		for _, r := range result.recipients {
			if !r.EmailEnabled {
				continue
			}
			g, ok := groups[r.User.Email]
			if !ok {
				g = &group{recipient: r}
				groups[r.User.Email] = g
				order = append(order, r.User.Email)
			}
			g.selections = append(g.selections, result.selection)
		}
	}

	for _, email := range order {
		g := groups[email]

		html, err := services.RenderWorkflowEmail("assets_requested_bulk", services.EmailTemplateData{
			RecipientName: g.recipient.User.FirstName,
			PracticeName:  practiceName(g.selections[0]),
			Note:          note,
			Summary:       bulkRequestSummary(g.selections),
		})
		if err != nil {
			continue
		}

		_ = s.dispatcher.Enqueue(services.EmailMessage{
			To:      []string{email},
			Subject: services.WorkflowEmailSubject("assets_requested_bulk", ""),
			HTML:    html,
		})
	}
}

// bulkRequestSummary renders the transitioned selections as one line per campaign
func bulkRequestSummary(selections []*models.Selection) string {
	lines := make([]string, 0, len(selections))
	for _, sel := range selections {
		lines = append(lines, fmt.Sprintf("%s: %s to %s",
			campaignName(sel),
			sel.FromDate.Format("2006-01-02"),
			sel.ToDate.Format("2006-01-02")))
	}
	return strings.Join(lines, "\n")
}

// invalidateUnreadCounts drops cached unread counters for notified users
func (s *WorkflowFlowImpl) invalidateUnreadCounts(ctx context.Context, recipients []ResolvedRecipient) {
	if s.rc == nil {
		return
	}
	for _, r := range recipients {
		s.rc.Del(ctx, unreadCountKey(r.User.ID))
	}
}

// teamRecipients snapshots the marketing-team inbox for the log
func (s *WorkflowFlowImpl) teamRecipients() models.RecipientList {
	if s.adminConfig.NotificationEmail == "" {
		return models.RecipientList{}
	}
	return models.RecipientList{{
		Name:  "Marketing Team",
		Email: s.adminConfig.NotificationEmail,
	}}
}

// createAdminAuditLog creates an audit log entry for an admin operation
func (s *WorkflowFlowImpl) createAdminAuditLog(ctx context.Context, admin *models.Admin, action, description string, success bool, errorMsg *string, metadata *ClientMetadata) error {
	audit := newAuditLog(ctx, action, description, success, errorMsg, metadata)
	if admin != nil {
		audit.AdminID = &admin.ID
	}
	return s.auditRepo.Save(ctx, audit)
}

// createUserAuditLog creates an audit log entry for a practice-user operation
func (s *WorkflowFlowImpl) createUserAuditLog(ctx context.Context, user *models.User, action, description string, success bool, errorMsg *string, metadata *ClientMetadata) error {
	audit := newAuditLog(ctx, action, description, success, errorMsg, metadata)
	if user != nil {
		audit.UserID = &user.ID
	}
	return s.auditRepo.Save(ctx, audit)
}

func newAuditLog(ctx context.Context, action, description string, success bool, errorMsg *string, metadata *ClientMetadata) *models.AuditLog {
	ipAddress := ""
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errorMsg,
	}

	requestID := ctx.Value(utils.RequestIDKey)
	if requestID != nil {
		if requestIDStr, ok := requestID.(string); ok {
			audit.RequestID = &requestIDStr
		}
	}

	return audit
}

// validateAssetRequest checks the shape of an asset request offer
func validateAssetRequest(printed, digital, external []models.AssetItem, creatives []models.CreativeOption) error {
	if len(printed)+len(digital)+len(external)+len(creatives) == 0 {
		return ErrNoAssetsRequested
	}
	if len(creatives) > utils.MaxCreativeOptions {
		return ErrTooManyCreativeOptions
	}
	return nil
}

// normalizeSubmittedItems resolves chosen card options to their prices so
// cost calculations do not depend on the client sending values
func normalizeSubmittedItems(items []models.AssetItem) []models.AssetItem {
	out := make([]models.AssetItem, len(items))
	copy(out, items)
	for i := range out {
		item := &out[i]
		if item.Type != models.AssetTypeCard || item.ChosenOption == nil {
			continue
		}
		for _, opt := range item.Options {
			if opt.Label == *item.ChosenOption {
				value := opt.Value
				item.ChosenOptionValue = &value
				break
			}
		}
	}
	return out
}

// wrapWorkflowError avoids double-wrapping errors that already carry a code
func wrapWorkflowError(code, message string, err error) error {
	var be *BusinessError
	if errors.As(err, &be) {
		return err
	}
	return NewBusinessError(code, message, err)
}

func campaignName(selection *models.Selection) string {
	if selection.Campaign != nil {
		return selection.Campaign.Name
	}
	if selection.BespokeCampaign != nil {
		return selection.BespokeCampaign.Name
	}
	return "your campaign"
}

func practiceName(selection *models.Selection) string {
	if selection.Practice != nil {
		return selection.Practice.Name
	}
	return ""
}

// formatPence renders a minor-unit amount as pounds for emails
func formatPence(pence int64) string {
	return fmt.Sprintf("£%d.%02d", pence/100, pence%100)
}

func bulkErrorCode(err error) string {
	switch {
	case IsSelectionNotFound(err):
		return "SELECTION_NOT_FOUND"
	case IsSelectionAlreadyConfirmed(err):
		return "SELECTION_ALREADY_CONFIRMED"
	case IsInvalidTransition(err):
		return "INVALID_TRANSITION"
	default:
		return "ASSET_REQUEST_FAILED"
	}
}
