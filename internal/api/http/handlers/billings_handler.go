package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/finledger/finance-api/internal/api/dto"
	"github.com/finledger/finance-api/internal/auth"
	"github.com/finledger/finance-api/internal/domain"
	"github.com/finledger/finance-api/internal/service"
)

// BillingsHandler manages the caller's billings.
type BillingsHandler struct {
	service *service.BillingService
}

// NewBillingsHandler constructs handler.
func NewBillingsHandler(billings *service.BillingService) *BillingsHandler {
	return &BillingsHandler{service: billings}
}

// List GET /api/billings.
func (h *BillingsHandler) List(c *fiber.Ctx, subject auth.SubjectID) error {
	billings, err := h.service.List(c.UserContext(), subject)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewBillingResponses(billings))
}

// Get GET /api/billings/:id.
func (h *BillingsHandler) Get(c *fiber.Ctx, subject auth.SubjectID) error {
	id, err := resourceID(c)
	if err != nil {
		return err
	}
	billing, err := h.service.Get(c.UserContext(), subject, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewBillingResponse(billing))
}

// Create POST /api/billings.
func (h *BillingsHandler) Create(c *fiber.Ctx, subject auth.SubjectID) error {
	var req dto.BillingRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	due, err := parseDate("dueDate", req.DueDate)
	if err != nil {
		return err
	}

	input := service.BillingCreateInput{
		Amount:   req.Amount,
		Category: req.Category.Value,
		Note:     req.Note.Value,
		DueDate:  due,
	}
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.Paid != nil {
		input.Paid = *req.Paid
	}

	billing, err := h.service.Create(c.UserContext(), subject, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewBillingResponse(billing))
}

// Update PUT /api/billings/:id.
func (h *BillingsHandler) Update(c *fiber.Ctx, subject auth.SubjectID) error {
	id, err := resourceID(c)
	if err != nil {
		return err
	}
	var req dto.BillingRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	due, err := parseDate("dueDate", req.DueDate)
	if err != nil {
		return err
	}

	billing, err := h.service.Update(c.UserContext(), subject, id, domain.BillingPatch{
		Name:     req.Name,
		Amount:   req.Amount,
		Category: req.Category.Field(),
		Note:     req.Note.Field(),
		DueDate:  due,
		Paid:     req.Paid,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewBillingResponse(billing))
}

// Delete DELETE /api/billings/:id.
func (h *BillingsHandler) Delete(c *fiber.Ctx, subject auth.SubjectID) error {
	id, err := resourceID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), subject, id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Billing deleted successfully"})
}
