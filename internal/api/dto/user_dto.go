package dto

import (
	"time"

	"github.com/finledger/finance-api/internal/domain"
)

// RegisterRequest payload for new users.
type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	User      ProfileResponse `json:"user"`
}

// ProfileResponse is the public view of a user.
type ProfileResponse struct {
	ID        int64               `json:"id"`
	Email     string              `json:"email"`
	Name      *string             `json:"name"`
	Avatar    *string             `json:"avatar"`
	Provider  domain.AuthProvider `json:"provider"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// NewProfileResponse maps a user, leaving out credentials.
func NewProfileResponse(user *domain.User) ProfileResponse {
	return ProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Avatar:    user.Avatar,
		Provider:  user.Provider,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// MessageResponse carries a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}
