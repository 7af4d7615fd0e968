package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	httpUtil "github.com/sifan077/FoodGram/internal/http/util"
	"go.uber.org/zap"
)

const (
	localUserID = "user_id"
	localClaims = "auth_claims"
)

// RevocationChecker reports whether a token id was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Authenticate resolves the caller from an "Authorization: Token <jwt>" (or Bearer) header.
// Requests without the header pass through anonymously; a bad or revoked token is rejected.
func Authenticate(tokens *httpUtil.TokenSigner, revoked RevocationChecker, logger *zap.Logger) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		raw, ok := bearer(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return c.Next()
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		if revoked != nil {
			ctx := c.UserContext()
			if ctx == nil {
				ctx = context.Background()
			}
			isRevoked, err := revoked.IsRevoked(ctx, claims.ID)
			if err != nil {
				logger.Error("failed to check token revocation", zap.Error(err))
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "authentication unavailable",
				})
			}
			if isRevoked {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "invalid token",
				})
			}
		}

		c.Locals(localUserID, claims.UserID)
		c.Locals(localClaims, claims)
		return c.Next()
	}
}

// RequireAuth rejects anonymous requests. It must run after Authenticate.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication credentials were not provided",
			})
		}
		return c.Next()
	}
}

// UserID returns the authenticated user id, or 0 for anonymous requests.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(localUserID).(uint)
	return id
}

// Claims returns the parsed token of the request, if any.
func Claims(c *fiber.Ctx) *httpUtil.Claims {
	claims, _ := c.Locals(localClaims).(*httpUtil.Claims)
	return claims
}

func bearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return "", false
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
