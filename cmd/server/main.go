// Package main is the entry point for the ledger service. It loads
// configuration, connects the stores and starts the HTTP server.
package main

import (
	"context"
	"log"
	"time"

	"corebank/internal/config"
	"corebank/internal/repositories"
	"corebank/internal/repositories/cache"
	"corebank/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadEnv()

	var (
		accountRepo repositories.AccountRepository
		userRepo    repositories.UserRepository
		cacheSvc    *cache.CacheService
	)

	if config.GetEnv("STORE", "postgres") == "memory" {
		// Database-less development mode; state lives for the process only.
		log.Println("STORE=memory: using the in-memory store")
		accountRepo = repositories.NewMemoryStore()
		userRepo = repositories.NewMemoryUserStore()
	} else {
		db, err := repositories.InitDB()
		if err != nil {
			log.Fatalf("failed to initialize database: %v", err)
		}
		accountRepo = repositories.NewAccountRepository(db)
		userRepo = repositories.NewUserRepository(db)

		redisClient := cache.NewRedisClient(&cache.RedisConfig{
			Host:     config.GetEnv("REDIS_HOST", "localhost"),
			Port:     config.GetEnv("REDIS_PORT", "6379"),
			Password: config.GetEnv("REDIS_PASSWORD", ""),
			DB:       config.GetIntEnv("REDIS_DB", 0),
		})
		cacheSvc = cache.NewCacheService(redisClient, 5*time.Minute)
		if err := cacheSvc.FlushAll(context.Background()); err != nil {
			log.Printf("failed to flush cache on startup: %v", err)
		}
		defer func() {
			if err := cacheSvc.Close(); err != nil {
				log.Printf("failed to close redis connection: %v", err)
			}
		}()
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	for _, path := range []string{"/api/register", "/api/login"} {
		app.Use(path, limiter.New(limiter.Config{
			Max:        5,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "too many requests, please try again later",
				})
			},
		}))
	}

	routes.SetupRoutes(app, accountRepo, userRepo, cacheSvc)

	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "3000")))
}
