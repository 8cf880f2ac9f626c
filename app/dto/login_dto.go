package dto

// LoginRequest represents a practice-user login attempt
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

// AdminLoginRequest represents an administrator login attempt
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

// UserDTO is the authenticated user projection returned on login
type UserDTO struct {
	ID                        uint          `json:"id"`
	UUID                      string        `json:"uuid"`
	FirstName                 string        `json:"first_name"`
	LastName                  string        `json:"last_name"`
	Email                     string        `json:"email"`
	Role                      string        `json:"role"`
	EmailNotificationsEnabled bool          `json:"email_notifications_enabled"`
	Practices                 []PracticeDTO `json:"practices"`
	CreatedAt                 string        `json:"created_at"`
}

// AdminDTO is the authenticated admin projection returned on login
type AdminDTO struct {
	ID        uint   `json:"id"`
	UUID      string `json:"uuid"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// PracticeDTO is the practice projection used in responses
type PracticeDTO struct {
	ID       uint   `json:"id"`
	UUID     string `json:"uuid"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	City     string `json:"city,omitempty"`
	Postcode string `json:"postcode,omitempty"`
}

// TokenDTO carries the issued token pair
type TokenDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// LoginResponse represents a successful user login
type LoginResponse struct {
	Message string   `json:"message"`
	User    UserDTO  `json:"user"`
	Tokens  TokenDTO `json:"tokens"`
}

// AdminLoginResponse represents a successful admin login
type AdminLoginResponse struct {
	Message string   `json:"message"`
	Admin   AdminDTO `json:"admin"`
	Tokens  TokenDTO `json:"tokens"`
}
