package businessflow

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/optiplan/optiplan/app/dto"
	"github.com/optiplan/optiplan/app/services"
	"github.com/optiplan/optiplan/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// stubTokenService issues fixed tokens so auth tests do not depend on
// signing configuration
type stubTokenService struct {
	err error
}

func (s *stubTokenService) GenerateTokens(userID uint) (string, string, error) {
	if s.err != nil {
		return "", "", s.err
	}
	return "user-access", "user-refresh", nil
}

func (s *stubTokenService) GenerateAdminTokens(adminID uint) (string, string, error) {
	if s.err != nil {
		return "", "", s.err
	}
	return "admin-access", "admin-refresh", nil
}

func (s *stubTokenService) ValidateToken(token string) (*services.TokenClaims, error) {
	return nil, services.ErrTokenInvalid
}

func (s *stubTokenService) ValidateAdminToken(token string) (*services.AdminTokenClaims, error) {
	return nil, services.ErrTokenInvalid
}

func (s *stubTokenService) RefreshToken(refreshToken string) (string, string, error) {
	return "", "", services.ErrTokenInvalid
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fakeUserRepo, *fakeAuditRepo, AuthFlow, *models.User) {
		users := newFakeUserRepo()
		audit := &fakeAuditRepo{}
		flow := NewAuthFlow(users, newFakeAdminRepo(), audit, &stubTokenService{})

		user := users.add(&models.User{
			ID: 1, UUID: uuid.New(),
			FirstName: "Jane", LastName: "Smith",
			Email:        "jane.smith@example.com",
			PasswordHash: hashPassword(t, "TestPass123!"),
			Role:         models.UserRoleStaff,
			IsActive:     true,
		})
		return users, audit, flow, user
	}

	t.Run("Success", func(t *testing.T) {
		users, audit, flow, user := setup(t)

		resp, err := flow.Login(ctx, &dto.LoginRequest{
			Email:    "  Jane.Smith@Example.com ",
			Password: "TestPass123!",
		}, testMetadata())
		require.NoError(t, err)

		assert.Equal(t, user.Email, resp.User.Email)
		assert.Equal(t, "user-access", resp.Tokens.AccessToken)
		assert.Equal(t, "Bearer", resp.Tokens.TokenType)

		stored, err := users.ByID(ctx, user.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored.LastLoginAt)

		entry := audit.last()
		require.NotNil(t, entry)
		assert.Equal(t, models.AuditActionLoginSuccess, entry.Action)
		assert.True(t, *entry.Success)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, audit, flow, _ := setup(t)

		_, err := flow.Login(ctx, &dto.LoginRequest{
			Email:    "jane.smith@example.com",
			Password: "not-the-password",
		}, testMetadata())
		assertBusinessCode(t, err, "INVALID_CREDENTIALS")
		assert.True(t, IsIncorrectPassword(err))

		entry := audit.last()
		require.NotNil(t, entry)
		assert.Equal(t, models.AuditActionLoginFailed, entry.Action)
		assert.False(t, *entry.Success)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		_, _, flow, _ := setup(t)

		_, err := flow.Login(ctx, &dto.LoginRequest{
			Email:    "nobody@example.com",
			Password: "TestPass123!",
		}, testMetadata())
		// Same code as a wrong password, so callers cannot probe for accounts
		assertBusinessCode(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("InactiveAccount", func(t *testing.T) {
		users, _, flow, _ := setup(t)
		users.add(&models.User{
			ID: 2, UUID: uuid.New(),
			Email:        "left@example.com",
			PasswordHash: hashPassword(t, "TestPass123!"),
			IsActive:     false,
		})

		_, err := flow.Login(ctx, &dto.LoginRequest{
			Email:    "left@example.com",
			Password: "TestPass123!",
		}, testMetadata())
		assertBusinessCode(t, err, "ACCOUNT_INACTIVE")
	})
}

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()

	admins := newFakeAdminRepo()
	audit := &fakeAuditRepo{}
	flow := NewAuthFlow(newFakeUserRepo(), admins, audit, &stubTokenService{})

	admin := admins.add(&models.Admin{
		ID: 1, UUID: uuid.New(),
		FirstName: "Alex", LastName: "Morgan",
		Email:        "alex.morgan@optiplan.co.uk",
		PasswordHash: hashPassword(t, "AdminPass123!"),
		IsActive:     true,
	})

	t.Run("Success", func(t *testing.T) {
		resp, err := flow.AdminLogin(ctx, &dto.AdminLoginRequest{
			Email:    "alex.morgan@optiplan.co.uk",
			Password: "AdminPass123!",
		}, testMetadata())
		require.NoError(t, err)

		assert.Equal(t, admin.Email, resp.Admin.Email)
		assert.Equal(t, "admin-access", resp.Tokens.AccessToken)

		entry := audit.last()
		require.NotNil(t, entry)
		assert.Equal(t, models.AuditActionAdminLoginSuccess, entry.Action)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := flow.AdminLogin(ctx, &dto.AdminLoginRequest{
			Email:    "alex.morgan@optiplan.co.uk",
			Password: "wrong",
		}, testMetadata())
		assertBusinessCode(t, err, "INVALID_CREDENTIALS")

		entry := audit.last()
		require.NotNil(t, entry)
		assert.Equal(t, models.AuditActionAdminLoginFailed, entry.Action)
	})
}
