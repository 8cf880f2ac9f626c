package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/optiplan/optiplan/app/dto"
	"github.com/optiplan/optiplan/repository"
)

// PracticeScopeMiddleware resolves the practice named in the route path and
// checks the authenticated user is assigned to it
type PracticeScopeMiddleware struct {
	userRepo repository.UserRepository
}

// NewPracticeScopeMiddleware creates a new practice scope middleware
func NewPracticeScopeMiddleware(userRepo repository.UserRepository) *PracticeScopeMiddleware {
	return &PracticeScopeMiddleware{userRepo: userRepo}
}

// RequirePractice loads the :practiceUUID path parameter, verifies membership,
// and stores the resolved practice ID for downstream handlers. Runs after
// Authenticate.
func (m *PracticeScopeMiddleware) RequirePractice() fiber.Handler {
	return func(c fiber.Ctx) error {
		userID, ok := GetUserIDFromContext(c)
		if !ok || userID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Authentication required",
				Error:   dto.ErrorDetail{Code: "AUTHENTICATION_REQUIRED"},
			})
		}

		practiceUUID := c.Params("practiceUUID")
		if practiceUUID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.APIResponse{
				Success: false,
				Message: "Practice UUID is required",
				Error:   dto.ErrorDetail{Code: "MISSING_PRACTICE_UUID"},
			})
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		user, err := m.userRepo.ByID(ctx, userID)
		if err != nil || user == nil || !user.IsActive {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "User not found or inactive",
				Error:   dto.ErrorDetail{Code: "USER_NOT_FOUND"},
			})
		}

		for _, p := range user.Practices {
			if p.UUID.String() == practiceUUID && p.IsActive {
				c.Locals("practice_id", p.ID)
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
			Success: false,
			Message: "You are not assigned to this practice",
			Error:   dto.ErrorDetail{Code: "PRACTICE_ACCESS_DENIED"},
		})
	}
}

// GetPracticeIDFromContext extracts the resolved practice ID from the request context
func GetPracticeIDFromContext(c fiber.Ctx) (uint, bool) {
	practiceID, ok := c.Locals("practice_id").(uint)
	return practiceID, ok
}
