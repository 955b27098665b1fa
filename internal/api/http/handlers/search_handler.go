package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/finledger/finance-api/internal/api/dto"
	"github.com/finledger/finance-api/internal/auth"
	"github.com/finledger/finance-api/internal/service"
)

// SearchHandler serves GET /api/search.
type SearchHandler struct {
	service *service.SearchService
}

// NewSearchHandler constructs handler.
func NewSearchHandler(search *service.SearchService) *SearchHandler {
	return &SearchHandler{service: search}
}

// Search GET /api/search?q=&limit=.
func (h *SearchHandler) Search(c *fiber.Ctx, subject auth.SubjectID) error {
	query := c.Query("q")
	result, err := h.service.Search(c.UserContext(), subject, query, c.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(dto.SearchResponse{
		Query:        query,
		Transactions: dto.NewTransactionResponses(result.Transactions),
		Billings:     dto.NewBillingResponses(result.Billings),
	})
}
