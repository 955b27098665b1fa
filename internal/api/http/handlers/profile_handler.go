package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/finledger/finance-api/internal/api/dto"
	"github.com/finledger/finance-api/internal/auth"
	"github.com/finledger/finance-api/internal/domain"
	"github.com/finledger/finance-api/internal/service"
	apperrors "github.com/finledger/finance-api/pkg/util/errorutil"
)

// ProfileHandler serves the caller's own profile.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get handles GET /api/user/profile.
func (h *ProfileHandler) Get(c *fiber.Ctx, subject auth.SubjectID) error {
	user, err := h.profiles.Get(c.UserContext(), subject)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProfileResponse(user))
}

// Update handles PUT /api/user/profile.
func (h *ProfileHandler) Update(c *fiber.Ctx, subject auth.SubjectID) error {
	var raw map[string]json.RawMessage
	if err := parseJSON(c, &raw); err != nil {
		return err
	}

	name, err := optionalString(raw, "name", "Name must be a string")
	if err != nil {
		return err
	}
	avatar, err := optionalString(raw, "avatar", "Avatar must be a string")
	if err != nil {
		return err
	}

	user, err := h.profiles.Update(c.UserContext(), subject, domain.ProfileUpdate{Name: name, Avatar: avatar})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProfileResponse(user))
}

func optionalString(raw map[string]json.RawMessage, key, message string) (*string, error) {
	value, ok := raw[key]
	if !ok {
		return nil, nil
	}
	var s string
	if string(value) == "null" {
		return nil, apperrors.NewValidationError(message, nil)
	}
	if err := json.Unmarshal(value, &s); err != nil {
		return nil, apperrors.NewValidationError(message, nil)
	}
	return &s, nil
}
