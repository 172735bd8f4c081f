package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/booknow-hub/internal/api/dto"
	"github.com/spec-kit/booknow-hub/internal/auth"
	"github.com/spec-kit/booknow-hub/internal/service"
	"github.com/spec-kit/booknow-hub/internal/session"
	apperrors "github.com/spec-kit/booknow-hub/pkg/util/errorutil"
)

var errNoClient = errors.New("credential client missing from request")

// AuthHandler exposes login, session and logout endpoints for both contexts.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginGlobal handles POST /auth/global/login.
func (h *AuthHandler) LoginGlobal(c *fiber.Ctx) error {
	req, client, err := h.loginInput(c)
	if err != nil {
		return err
	}
	store := h.authService.NewStore(client, nil)
	state, err := h.authService.LoginGlobal(c.UserContext(), store, req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.loginResponse(c, client, state)
}

// LoginTenant handles POST /auth/tenants/:slug/login.
func (h *AuthHandler) LoginTenant(c *fiber.Ctx) error {
	req, client, err := h.loginInput(c)
	if err != nil {
		return err
	}
	store := h.authService.NewStore(client, nil)
	state, err := h.authService.LoginTenant(c.UserContext(), store, req.Email, req.Password, c.Params("slug"))
	if err != nil {
		return err
	}
	return h.loginResponse(c, client, state)
}

// GlobalSession handles GET /auth/global/session. A caller without a context gets mode "none".
func (h *AuthHandler) GlobalSession(c *fiber.Ctx) error {
	client, err := requestClient(c)
	if err != nil {
		return err
	}
	state, err := h.authService.HydrateGlobal(c.UserContext(), h.authService.NewStore(client, nil))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponse(state)})
}

// TenantSession handles GET /auth/tenants/:slug/session.
func (h *AuthHandler) TenantSession(c *fiber.Ctx) error {
	client, err := requestClient(c)
	if err != nil {
		return err
	}
	state, err := h.authService.HydrateTenant(c.UserContext(), h.authService.NewStore(client, nil), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponse(state)})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	client, err := requestClient(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()

	userID := ""
	if current, err := client.GetSession(ctx); err == nil && current != nil {
		userID = current.UserID
	}
	if err := h.authService.Logout(ctx, h.authService.NewStore(client, nil), userID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "signed_out"}})
}

func (h *AuthHandler) loginInput(c *fiber.Ctx) (dto.LoginRequest, *auth.Client, error) {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return req, nil, fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return req, nil, apperrors.NewValidationError("email and password required", nil)
	}
	client, err := requestClient(c)
	return req, client, err
}

func (h *AuthHandler) loginResponse(c *fiber.Ctx, client *auth.Client, state session.State) error {
	resp := sessionResponse(state)
	authResp, err := tokenResponse(c.UserContext(), client)
	if err != nil {
		return err
	}
	resp.Auth = authResp
	return c.JSON(fiber.Map{"data": resp})
}

func tokenResponse(ctx context.Context, client *auth.Client) (*dto.AuthResponse, error) {
	token, err := client.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	current, err := client.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperrors.NewUnauthorized("session ended during login")
	}
	return &dto.AuthResponse{Token: token, ExpiresAt: current.ExpiresAt}, nil
}

func requestClient(c *fiber.Ctx) (*auth.Client, error) {
	client, ok := auth.ClientFromContext(c)
	if !ok {
		return nil, apperrors.NewInternalError(errNoClient)
	}
	return client, nil
}
