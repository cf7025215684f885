package handlers

import (
	"context"
	"strconv"

	"corebank/internal/middleware"
	"corebank/internal/models"
	"corebank/internal/services/account"
	"corebank/internal/services/query"
	"corebank/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AccountHandler exposes account lifecycle endpoints. All routes are scoped
// to the authenticated user; other principals' accounts read as not found.
type AccountHandler struct {
	accounts account.Service
	queries  query.Service
}

func NewAccountHandler(accounts account.Service, queries query.Service) *AccountHandler {
	return &AccountHandler{accounts: accounts, queries: queries}
}

// List handles GET /api/accounts.
func (h *AccountHandler) List(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return response.Unauthorized(c)
	}

	views, err := h.queries.Accounts(c.Context(), claims.UserID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "accounts", views)
}

// Create handles POST /api/accounts.
func (h *AccountHandler) Create(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return response.Unauthorized(c)
	}

	var req struct {
		AccountType    string `json:"account_type"`
		InitialBalance string `json:"initial_balance"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}

	initial := models.Money(0)
	if req.InitialBalance != "" {
		parsed, err := models.ParseMoney(req.InitialBalance)
		if err != nil {
			return fail(c, err)
		}
		initial = parsed
	}

	acct, err := h.accounts.Open(c.Context(), claims.UserID, models.AccountType(req.AccountType), initial)
	if err != nil {
		return fail(c, err)
	}
	return response.Created(c, "account opened", acct)
}

// Get handles GET /api/accounts/:id.
func (h *AccountHandler) Get(c *fiber.Ctx) error {
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
	return response.Success(c, "account", acct)
}

// Update handles PUT /api/accounts/:id.
func (h *AccountHandler) Update(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return response.Unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "invalid account id")
	}

	var req struct {
		AccountType string `json:"account_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}

	acct, err := h.accounts.Update(c.Context(), claims.UserID, id, models.AccountType(req.AccountType))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "account updated", acct)
}

// Delete handles DELETE /api/accounts/:id.
func (h *AccountHandler) Delete(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return response.Unauthorized(c)
	}
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "invalid account id")
	}

	if err := h.accounts.Delete(c.Context(), claims.UserID, id); err != nil {
		return fail(c, err)
	}
	return response.Success(c, "account deleted", nil)
}

// Deposit handles POST /api/accounts/:number/deposit.
func (h *AccountHandler) Deposit(c *fiber.Ctx) error {
	return h.move(c, h.accounts.Deposit)
}

// Withdraw handles POST /api/accounts/:number/withdraw.
func (h *AccountHandler) Withdraw(c *fiber.Ctx) error {
	return h.move(c, h.accounts.Withdraw)
}

type moveFunc func(ctx context.Context, userID uint, accountNumber string, amount models.Money, description string) (*models.Transaction, error)

func (h *AccountHandler) move(c *fiber.Ctx, op moveFunc) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return response.Unauthorized(c)
	}

	var req struct {
		Amount      string `json:"amount"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}
	amount, err := models.ParseMoney(req.Amount)
	if err != nil {
		return fail(c, err)
	}

	record, err := op(c.Context(), claims.UserID, c.Params("number"), amount, req.Description)
	if err != nil {
		return fail(c, err)
	}
	return response.Created(c, "transaction recorded", record)
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
