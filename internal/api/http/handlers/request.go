package handlers

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/finledger/finance-api/pkg/util/errorutil"
)

// parseJSON decodes the body regardless of the Content-Type the client sent.
func parseJSON(c *fiber.Ctx, out any) error {
	if err := json.Unmarshal(c.Body(), out); err != nil {
		return apperrors.NewValidationError("Invalid JSON payload", nil)
	}
	return nil
}

// resourceID reads the :id path parameter. It only ever names a resource; the
// owner always comes from the authenticated subject.
func resourceID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("Invalid id", nil)
	}
	return id, nil
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseDate(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, *raw); err == nil {
			return &t, nil
		}
	}
	return nil, apperrors.NewValidationError(field+" must be a valid date", nil)
}
