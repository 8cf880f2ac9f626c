package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/optiplan/optiplan/app/dto"
	"github.com/optiplan/optiplan/app/services"
	"github.com/optiplan/optiplan/models"
	"github.com/optiplan/optiplan/repository"
	"github.com/optiplan/optiplan/utils"
	"golang.org/x/crypto/bcrypt"
)

// AuthFlow handles practice-user and admin authentication
type AuthFlow interface {
	Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	AdminLogin(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error)
}

// AuthFlowImpl implements the authentication business flow
type AuthFlowImpl struct {
	userRepo     repository.UserRepository
	adminRepo    repository.AdminRepository
	auditRepo    repository.AuditLogRepository
	tokenService services.TokenService
}

// NewAuthFlow creates a new authentication flow instance
func NewAuthFlow(
	userRepo repository.UserRepository,
	adminRepo repository.AdminRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
) AuthFlow {
	return &AuthFlowImpl{
		userRepo:     userRepo,
		adminRepo:    adminRepo,
		auditRepo:    auditRepo,
		tokenService: tokenService,
	}
}

// Login authenticates a practice user and issues a token pair
func (s *AuthFlowImpl) Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.ByEmail(ctx, email)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to lookup user", err)
	}
	if user == nil {
		s.auditLoginFailure(ctx, nil, nil, models.AuditActionLoginFailed, email, metadata)
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid email or password", ErrUserNotFound)
	}
	if !user.IsActive {
		s.auditLoginFailure(ctx, &user.ID, nil, models.AuditActionLoginFailed, email, metadata)
		return nil, NewBusinessError("ACCOUNT_INACTIVE", "Account is inactive", ErrAccountInactive)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.auditLoginFailure(ctx, &user.ID, nil, models.AuditActionLoginFailed, email, metadata)
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid email or password", ErrIncorrectPassword)
	}

	accessToken, refreshToken, err := s.tokenService.GenerateTokens(user.ID)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	now := utils.UTCNow()
	_ = s.userRepo.UpdateLastLogin(ctx, user.ID, now)

	audit := newAuditLog(ctx, models.AuditActionLoginSuccess,
		fmt.Sprintf("User logged in: %s", user.Email), true, nil, metadata)
	audit.UserID = &user.ID
	_ = s.auditRepo.Save(ctx, audit)

	return &dto.LoginResponse{
		Message: "Login successful",
		User:    ToUserDTO(*user),
		Tokens: dto.TokenDTO{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    int(utils.AccessTokenTTL.Seconds()),
		},
	}, nil
}

// AdminLogin authenticates a marketing-team administrator
func (s *AuthFlowImpl) AdminLogin(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	admin, err := s.adminRepo.ByEmail(ctx, email)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}
	if admin == nil {
		s.auditLoginFailure(ctx, nil, nil, models.AuditActionAdminLoginFailed, email, metadata)
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid email or password", ErrAdminNotFound)
	}
	if !admin.IsActive {
		s.auditLoginFailure(ctx, nil, &admin.ID, models.AuditActionAdminLoginFailed, email, metadata)
		return nil, NewBusinessError("ACCOUNT_INACTIVE", "Account is inactive", ErrAccountInactive)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		s.auditLoginFailure(ctx, nil, &admin.ID, models.AuditActionAdminLoginFailed, email, metadata)
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid email or password", ErrIncorrectPassword)
	}

	accessToken, refreshToken, err := s.tokenService.GenerateAdminTokens(admin.ID)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	now := utils.UTCNow()
	_ = s.adminRepo.UpdateLastLogin(ctx, admin.ID, now)

	audit := newAuditLog(ctx, models.AuditActionAdminLoginSuccess,
		fmt.Sprintf("Admin logged in: %s", admin.Email), true, nil, metadata)
	audit.AdminID = &admin.ID
	_ = s.auditRepo.Save(ctx, audit)

	return &dto.AdminLoginResponse{
		Message: "Login successful",
		Admin:   ToAdminDTO(*admin),
		Tokens: dto.TokenDTO{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    int(utils.AccessTokenTTL.Seconds()),
		},
	}, nil
}

func (s *AuthFlowImpl) auditLoginFailure(ctx context.Context, userID, adminID *uint, action, email string, metadata *ClientMetadata) {
	errMsg := fmt.Sprintf("Login failed for %s", email)
	audit := newAuditLog(ctx, action, errMsg, false, &errMsg, metadata)
	audit.UserID = userID
	audit.AdminID = adminID
	_ = s.auditRepo.Save(ctx, audit)
}
