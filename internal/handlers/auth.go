package handlers

import (
	"errors"

	"corebank/internal/middleware"
	"corebank/internal/services/auth"
	"corebank/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler exposes registration and token endpoints.
type AuthHandler struct {
	service auth.Service
}

func NewAuthHandler(s auth.Service) *AuthHandler { return &AuthHandler{service: s} }

// Register handles POST /api/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}
	if req.Username == "" || req.Email == "" {
		return response.BadRequest(c, "username and email are required")
	}

	user, err := h.service.Register(req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken),
			errors.Is(err, auth.ErrUsernameTaken),
			errors.Is(err, auth.ErrWeakPassword):
			return response.BadRequest(c, err.Error())
		}
		return response.ServerError(c, "registration failed")
	}
	return response.Created(c, "user registered", user)
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}

	user, accessToken, refreshToken, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	return response.Success(c, "login successful", fiber.Map{
		"user":          user,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// Refresh handles POST /api/token/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}

	accessToken, refreshToken, err := h.service.Refresh(req.RefreshToken)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, "invalid refresh token")
	}
	return response.Success(c, "token refreshed", fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// Logout handles POST /api/logout. It bumps the token version so every
// outstanding token for the user stops validating.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return response.Unauthorized(c)
	}
	if err := h.service.Logout(claims.UserID); err != nil {
		return response.ServerError(c, "logout failed")
	}
	return response.Success(c, "logged out", nil)
}
