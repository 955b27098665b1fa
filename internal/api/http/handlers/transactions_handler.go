package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/finledger/finance-api/internal/api/dto"
	"github.com/finledger/finance-api/internal/auth"
	"github.com/finledger/finance-api/internal/domain"
	"github.com/finledger/finance-api/internal/service"
)

// TransactionsHandler manages the caller's transactions.
type TransactionsHandler struct {
	service *service.TransactionService
}

// NewTransactionsHandler constructs handler.
func NewTransactionsHandler(transactions *service.TransactionService) *TransactionsHandler {
	return &TransactionsHandler{service: transactions}
}

// List GET /api/transactions.
func (h *TransactionsHandler) List(c *fiber.Ctx, subject auth.SubjectID) error {
	txs, err := h.service.List(c.UserContext(), subject)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTransactionResponses(txs))
}

// Get GET /api/transactions/:id.
func (h *TransactionsHandler) Get(c *fiber.Ctx, subject auth.SubjectID) error {
	id, err := resourceID(c)
	if err != nil {
		return err
	}
	tx, err := h.service.Get(c.UserContext(), subject, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTransactionResponse(tx))
}

// Create POST /api/transactions.
func (h *TransactionsHandler) Create(c *fiber.Ctx, subject auth.SubjectID) error {
	var req dto.TransactionRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return err
	}

	tx, err := h.service.Create(c.UserContext(), subject, service.TransactionCreateInput{
		Amount:      req.Amount,
		Type:        transactionType(req.Type),
		Category:    req.Category.Value,
		Description: req.Description.Value,
		Date:        date,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewTransactionResponse(tx))
}

// Update PUT /api/transactions/:id.
func (h *TransactionsHandler) Update(c *fiber.Ctx, subject auth.SubjectID) error {
	id, err := resourceID(c)
	if err != nil {
		return err
	}
	var req dto.TransactionRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return err
	}

	tx, err := h.service.Update(c.UserContext(), subject, id, domain.TransactionPatch{
		Amount:      req.Amount,
		Type:        transactionType(req.Type),
		Category:    req.Category.Field(),
		Description: req.Description.Field(),
		Date:        date,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTransactionResponse(tx))
}

// Delete DELETE /api/transactions/:id.
func (h *TransactionsHandler) Delete(c *fiber.Ctx, subject auth.SubjectID) error {
	id, err := resourceID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), subject, id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Transaction deleted successfully"})
}

func transactionType(raw *string) *domain.TransactionType {
	if raw == nil {
		return nil
	}
	t := domain.TransactionType(*raw)
	return &t
}
