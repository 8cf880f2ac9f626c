// Package testing provides test utilities and database setup for testing the campaign planner
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/optiplan/optiplan/models"
	"github.com/optiplan/optiplan/utils"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestPractice creates a practice with a unique code
func (tf *TestFixtures) CreateTestPractice() (*models.Practice, error) {
	suffix := fmt.Sprintf("%06d", rand.Intn(900000)+100000)

	practice := &models.Practice{
		Name:     fmt.Sprintf("Test Practice %s", suffix),
		Code:     fmt.Sprintf("TP%s", suffix),
		IsActive: true,
	}

	if err := tf.DB.DB.Create(practice).Error; err != nil {
		return nil, fmt.Errorf("failed to create test practice: %w", err)
	}

	return practice, nil
}

// CreateTestUser creates an active user assigned to the given practices
func (tf *TestFixtures) CreateTestUser(role models.UserRole, practices ...*models.Practice) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix := fmt.Sprintf("%09d", rand.Intn(900000000)+100000000)

	user := &models.User{
		FirstName:                 "Jane",
		LastName:                  "Smith",
		Email:                     fmt.Sprintf("jane.smith.%s@example.com", suffix),
		PasswordHash:              string(hashedPassword),
		Role:                      role,
		EmailNotificationsEnabled: true,
		IsActive:                  true,
	}
	for _, p := range practices {
		user.Practices = append(user.Practices, *p)
	}

	if err := tf.DB.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}

	return user, nil
}

// CreateTestAdmin creates an active marketing-team admin
func (tf *TestFixtures) CreateTestAdmin() (*models.Admin, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("AdminPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix := fmt.Sprintf("%09d", rand.Intn(900000000)+100000000)

	admin := &models.Admin{
		FirstName:    "Alex",
		LastName:     "Morgan",
		Email:        fmt.Sprintf("alex.morgan.%s@optiplan.co.uk", suffix),
		PasswordHash: string(hashedPassword),
		IsActive:     true,
	}

	if err := tf.DB.DB.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create test admin: %w", err)
	}

	return admin, nil
}

// CreateTestCampaign creates an active catalog campaign in the given tier
func (tf *TestFixtures) CreateTestCampaign(tier models.CampaignTier) (*models.Campaign, error) {
	suffix := fmt.Sprintf("%06d", rand.Intn(900000)+100000)
	price := int64(2500)

	campaign := &models.Campaign{
		Name:     fmt.Sprintf("Spring Eyewear %s", suffix),
		Category: "seasonal",
		Tier:     tier,
		IsActive: true,
		OfferedAssets: models.AssetsPayload{
			PrintedAssets: []models.AssetItem{
				{Name: "Window poster", Type: models.AssetTypeDefault, Price: &price, Quantity: 1},
				{Name: "Appointment cards", Type: models.AssetTypeCard, Quantity: 1, Options: []models.AssetOption{
					{Label: "250 cards", Value: 1500},
					{Label: "500 cards", Value: 2500},
				}},
			},
			DigitalAssets: []models.AssetItem{
				{Name: "Social media pack", Type: models.AssetTypeFree, Quantity: 1},
			},
		},
	}

	if err := tf.DB.DB.Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to create test campaign: %w", err)
	}

	return campaign, nil
}

// CreateTestBespokeCampaign creates a bespoke campaign for one practice
func (tf *TestFixtures) CreateTestBespokeCampaign(practiceID uint, createdByID *uint) (*models.BespokeCampaign, error) {
	suffix := fmt.Sprintf("%06d", rand.Intn(900000)+100000)

	bespoke := &models.BespokeCampaign{
		PracticeID:  practiceID,
		Name:        fmt.Sprintf("Local Open Day %s", suffix),
		CreatedByID: createdByID,
		IsActive:    true,
		OfferedAssets: models.AssetsPayload{
			PrintedAssets: []models.AssetItem{
				{Name: "Event flyer", Type: models.AssetTypeFree, Quantity: 1},
			},
		},
	}

	if err := tf.DB.DB.Create(bespoke).Error; err != nil {
		return nil, fmt.Errorf("failed to create test bespoke campaign: %w", err)
	}

	return bespoke, nil
}

// CreateTestSelection puts a catalog campaign on a practice's plan
func (tf *TestFixtures) CreateTestSelection(practiceID, campaignID uint, from, to time.Time) (*models.Selection, error) {
	var campaign models.Campaign
	if err := tf.DB.DB.Last(&campaign, campaignID).Error; err != nil {
		return nil, fmt.Errorf("failed to load campaign %d: %w", campaignID, err)
	}

	selection := &models.Selection{
		PracticeID: practiceID,
		CampaignID: &campaignID,
		FromDate:   from,
		ToDate:     to,
		Status:     models.SelectionStatusOnPlan,
		Assets:     campaign.OfferedAssets,
	}

	if err := tf.DB.DB.Create(selection).Error; err != nil {
		return nil, fmt.Errorf("failed to create test selection: %w", err)
	}

	return selection, nil
}

// CreateTestNotification creates an unread notification for a user
func (tf *TestFixtures) CreateTestNotification(userID uint, selectionID *uint, kind models.NotificationKind) (*models.Notification, error) {
	notification := &models.Notification{
		UserID:      userID,
		SelectionID: selectionID,
		Kind:        kind,
		Title:       "Test notification",
		Body:        "Something happened on your plan",
	}

	if err := tf.DB.DB.Create(notification).Error; err != nil {
		return nil, fmt.Errorf("failed to create test notification: %w", err)
	}

	return notification, nil
}

// CreateTestAuditLog creates a test audit log entry
func (tf *TestFixtures) CreateTestAuditLog(userID *uint, action string, success bool) (*models.AuditLog, error) {
	description := fmt.Sprintf("Test %s action", action)
	ipAddress := "127.0.0.1"
	userAgent := "Test User Agent"

	audit := &models.AuditLog{
		UserID:      userID,
		Action:      action,
		Description: &description,
		Success:     utils.ToPtr(success),
		IPAddress:   &ipAddress,
		UserAgent:   &userAgent,
	}

	if !success {
		errorMessage := "Test failed action"
		audit.ErrorMessage = &errorMessage
	}

	if err := tf.DB.DB.Create(audit).Error; err != nil {
		return nil, fmt.Errorf("failed to create test audit log: %w", err)
	}

	return audit, nil
}
