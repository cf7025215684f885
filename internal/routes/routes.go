// Package routes wires repositories, services and handlers onto the Fiber
// application.
package routes

import (
	"corebank/internal/handlers"
	"corebank/internal/middleware"
	"corebank/internal/repositories"
	"corebank/internal/repositories/cache"
	"corebank/internal/services/account"
	"corebank/internal/services/auth"
	"corebank/internal/services/ledger"
	"corebank/internal/services/query"
	"corebank/internal/services/transfer"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes. The cache may be nil, in
// which case account reads always hit the store.
func SetupRoutes(app *fiber.App, accountRepo repositories.AccountRepository, userRepo repositories.UserRepository, cacheSvc *cache.CacheService) {
	var acctCache account.Cache
	var xferCache transfer.Cache
	if cacheSvc != nil {
		acctCache = cacheSvc
		xferCache = cacheSvc
	}

	authService := auth.NewService(userRepo)
	accountService := account.NewService(accountRepo, acctCache)
	ledgerService := ledger.NewService(accountRepo)
	queryService := query.NewService(accountRepo)
	transferService := transfer.NewService(accountRepo, transfer.OwnerPolicy{}, xferCache)

	authHandler := handlers.NewAuthHandler(authService)
	accountHandler := handlers.NewAccountHandler(accountService, queryService)
	transactionHandler := handlers.NewTransactionHandler(queryService, ledgerService, accountService)
	transferHandler := handlers.NewTransferHandler(transferService)

	authMW := middleware.NewAuthMiddleware(authService)

	api := app.Group("/api")
	api.Get("/health", handlers.Health)

	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/token/refresh", authHandler.Refresh)

	protected := api.Use(authMW.Handler)
	protected.Post("/logout", authHandler.Logout)

	protected.Get("/accounts", accountHandler.List)
	protected.Post("/accounts", accountHandler.Create)
	protected.Get("/accounts/:id", accountHandler.Get)
	protected.Put("/accounts/:id", accountHandler.Update)
	protected.Delete("/accounts/:id", accountHandler.Delete)
	protected.Post("/accounts/:number/deposit", accountHandler.Deposit)
	protected.Post("/accounts/:number/withdraw", accountHandler.Withdraw)

	protected.Get("/accounts/:id/transactions", transactionHandler.ListForAccount)
	protected.Get("/transactions", transactionHandler.List)
	protected.Post("/transfer", transferHandler.Transfer)
}
