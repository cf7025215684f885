package handlers

import (
	"corebank/internal/middleware"
	"corebank/internal/models"
	"corebank/internal/services/transfer"
	"corebank/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// TransferHandler exposes the fund-transfer endpoint.
type TransferHandler struct {
	service transfer.Service
}

func NewTransferHandler(s transfer.Service) *TransferHandler { return &TransferHandler{service: s} }

// Transfer handles POST /api/transfer. The response carries only the ledger
// record; clients re-read their accounts for fresh balances.
func (h *TransferHandler) Transfer(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return response.Unauthorized(c)
	}

	var req struct {
		FromAccountNumber string `json:"from_account_number"`
		ToAccountNumber   string `json:"to_account_number"`
		Amount            string `json:"amount"`
		Description       string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}

	amount, err := models.ParseMoney(req.Amount)
	if err != nil {
		return fail(c, err)
	}

	record, err := h.service.Execute(c.Context(), claims.UserID, req.FromAccountNumber, req.ToAccountNumber, amount, req.Description)
	if err != nil {
		return fail(c, err)
	}
	return response.Created(c, "transfer completed", record)
}
