package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/booknow-hub/pkg/util/errorutil"
)

const clientKey = "auth_client"

// BearerMiddleware binds a request-scoped credential Client to every request. A missing
// Authorization header yields a client without a session; resolution decides what that means.
type BearerMiddleware struct {
	authenticator Authenticator
}

// NewBearerMiddleware constructs middleware.
func NewBearerMiddleware(authenticator Authenticator) *BearerMiddleware {
	return &BearerMiddleware{authenticator: authenticator}
}

// Handle extracts the bearer token.
func (m *BearerMiddleware) Handle(c *fiber.Ctx) error {
	token := ""
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return apperrors.NewUnauthorized("invalid authorization header")
		}
		token = strings.TrimSpace(parts[1])
	}

	c.Locals(clientKey, NewClient(m.authenticator, NewMemoryTokenStore(token)))
	return c.Next()
}

// ClientFromContext retrieves the request-scoped client.
func ClientFromContext(c *fiber.Ctx) (*Client, bool) {
	client, ok := c.Locals(clientKey).(*Client)
	return client, ok
}
