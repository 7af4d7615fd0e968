package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CORS returns a CORS middleware. An empty origin list allows any origin.
func CORS(allowedOrigins ...string) fiber.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		switch {
		case len(allowed) == 0:
			c.Set("Access-Control-Allow-Origin", "*")
		case allowed[origin]:
			c.Set("Access-Control-Allow-Origin", origin)
			c.Vary(fiber.HeaderOrigin)
		}
		c.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Request-ID")
		c.Set("Access-Control-Expose-Headers", "Content-Length, Content-Type, Content-Disposition, X-Request-ID")
		c.Set("Access-Control-Max-Age", "86400")

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}

		return c.Next()
	}
}
