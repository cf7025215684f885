package handlers

import (
	"strconv"

	"corebank/internal/middleware"
	"corebank/internal/services/account"
	"corebank/internal/services/ledger"
	"corebank/internal/services/query"
	"corebank/internal/utils/pagination"
	"corebank/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// TransactionHandler exposes the owner-scoped transaction history.
type TransactionHandler struct {
	queries  query.Service
	ledger   ledger.Service
	accounts account.Service
}

func NewTransactionHandler(q query.Service, l ledger.Service, a account.Service) *TransactionHandler {
	return &TransactionHandler{queries: q, ledger: l, accounts: a}
}

// List handles GET /api/transactions. An optional account_id query parameter
// narrows the history to one of the caller's accounts.
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return response.Unauthorized(c)
	}

	accountID, _ := strconv.ParseUint(c.Query("account_id", "0"), 10, 32)
	p := pagination.ParseFromRequest(c)

	views, err := h.queries.Transactions(c.Context(), claims.UserID, uint(accountID), p.Limit, p.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(pagination.Response(p, views))
}

// ListForAccount handles GET /api/accounts/:id/transactions and returns the
// raw ledger records for one of the caller's accounts, oldest first.
func (h *TransactionHandler) ListForAccount(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return response.Unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "invalid account id")
	}

	acct, err := h.accounts.Get(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	if acct.UserID != claims.UserID {
		return response.NotFound(c, account.ErrAccountNotFound.Error())
	}

	p := pagination.ParseFromRequest(c)
	records, err := h.ledger.ListFor(c.Context(), acct.ID, p.Limit, p.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(pagination.Response(p, records))
}
