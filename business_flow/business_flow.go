// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/optiplan/optiplan/app/dto"
	"github.com/optiplan/optiplan/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToSelectionDTO converts a selection model to its response projection
func ToSelectionDTO(selection models.Selection) dto.SelectionDTO {
	d := dto.SelectionDTO{
		ID:                selection.ID,
		UUID:              selection.UUID.String(),
		PracticeID:        selection.PracticeID,
		Bespoke:           selection.Bespoke,
		FromDate:          selection.FromDate.Format("2006-01-02"),
		ToDate:            selection.ToDate.Format("2006-01-02"),
		Status:            selection.Status.String(),
		StatusDisplayName: selection.GetStatusDisplayName(),
		Assets:            selection.Assets,
		TotalCost:         selection.Assets.TotalCost(),
		CreatedAt:         selection.CreatedAt.Format(time.RFC3339),
	}

	if selection.UpdatedAt != nil {
		d.UpdatedAt = selection.UpdatedAt.Format(time.RFC3339)
	}
	if selection.Campaign != nil {
		d.CampaignName = selection.Campaign.Name
		d.CampaignUUID = selection.Campaign.UUID.String()
	}
	if selection.BespokeCampaign != nil {
		d.CampaignName = selection.BespokeCampaign.Name
		d.CampaignUUID = selection.BespokeCampaign.UUID.String()
	}

	return d
}

// ToCampaignDTO converts a catalog campaign model to its response projection
func ToCampaignDTO(campaign models.Campaign) dto.CampaignDTO {
	d := dto.CampaignDTO{
		ID:            campaign.ID,
		UUID:          campaign.UUID.String(),
		Name:          campaign.Name,
		Description:   campaign.Description,
		Category:      campaign.Category,
		Tier:          string(campaign.Tier),
		OfferedAssets: campaign.OfferedAssets,
	}
	if campaign.ImageURL != nil {
		d.ImageURL = *campaign.ImageURL
	}
	return d
}

// ToBespokeCampaignDTO converts a bespoke campaign model to the shared
// campaign projection
func ToBespokeCampaignDTO(campaign models.BespokeCampaign) dto.CampaignDTO {
	return dto.CampaignDTO{
		ID:            campaign.ID,
		UUID:          campaign.UUID.String(),
		Name:          campaign.Name,
		Description:   campaign.Description,
		OfferedAssets: campaign.OfferedAssets,
		Bespoke:       true,
	}
}

// ToNotificationDTO converts a notification model to its response projection
func ToNotificationDTO(notification models.Notification) dto.NotificationDTO {
	d := dto.NotificationDTO{
		ID:        notification.ID,
		UUID:      notification.UUID.String(),
		Kind:      string(notification.Kind),
		Title:     notification.Title,
		Body:      notification.Body,
		CreatedAt: notification.CreatedAt.Format(time.RFC3339),
	}
	if notification.ReadAt != nil {
		d.ReadAt = notification.ReadAt.Format(time.RFC3339)
	}
	if notification.Selection != nil {
		d.SelectionUUID = notification.Selection.UUID.String()
	}
	return d
}

// ToCommunicationLogEntryDTO converts a log entry to its response projection
func ToCommunicationLogEntryDTO(entry models.CommunicationLog) dto.CommunicationLogEntryDTO {
	recipients := make([]dto.RecipientDTO, 0, len(entry.Recipients))
	for _, r := range entry.Recipients {
		recipients = append(recipients, dto.RecipientDTO{Name: r.Name, Email: r.Email})
	}

	return dto.CommunicationLogEntryDTO{
		ID:         entry.ID,
		UUID:       entry.UUID.String(),
		Event:      string(entry.Event),
		FromStatus: entry.FromStatus.String(),
		ToStatus:   entry.ToStatus.String(),
		ActorType:  string(entry.ActorType),
		ActorName:  entry.ActorName,
		Note:       entry.Note,
		Assets:     entry.Assets,
		Recipients: recipients,
		CreatedAt:  entry.CreatedAt.Format(time.RFC3339),
	}
}

// ToUserDTO converts a user model to its response projection
func ToUserDTO(user models.User) dto.UserDTO {
	practices := make([]dto.PracticeDTO, 0, len(user.Practices))
	for _, p := range user.Practices {
		practices = append(practices, ToPracticeDTO(p))
	}

	return dto.UserDTO{
		ID:                        user.ID,
		UUID:                      user.UUID.String(),
		FirstName:                 user.FirstName,
		LastName:                  user.LastName,
		Email:                     user.Email,
		Role:                      string(user.Role),
		EmailNotificationsEnabled: user.EmailNotificationsEnabled,
		Practices:                 practices,
		CreatedAt:                 user.CreatedAt.Format(time.RFC3339),
	}
}

// ToPracticeDTO converts a practice model to its response projection
func ToPracticeDTO(practice models.Practice) dto.PracticeDTO {
	d := dto.PracticeDTO{
		ID:   practice.ID,
		UUID: practice.UUID.String(),
		Name: practice.Name,
		Code: practice.Code,
	}
	if practice.City != nil {
		d.City = *practice.City
	}
	if practice.Postcode != nil {
		d.Postcode = *practice.Postcode
	}
	return d
}

// ToAdminDTO converts an admin model to its response projection
func ToAdminDTO(admin models.Admin) dto.AdminDTO {
	return dto.AdminDTO{
		ID:        admin.ID,
		UUID:      admin.UUID.String(),
		FirstName: admin.FirstName,
		LastName:  admin.LastName,
		Email:     admin.Email,
		CreatedAt: admin.CreatedAt.Format(time.RFC3339),
	}
}
