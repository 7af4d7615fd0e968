package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sifan077/FoodGram/internal/app/repository"
	"github.com/sifan077/FoodGram/internal/app/service"
	"go.uber.org/zap"
)

const (
	linkNotFoundBody = "Link not found"
	readinessTimeout = 2 * time.Second
)

// ReadinessCheck probes one backing service.
type ReadinessCheck func(ctx context.Context) error

// RedirectDeps groups dependencies required by redirect handlers.
type RedirectDeps struct {
	Logger     *zap.Logger
	ShortLinks service.ShortLinkService
	// Checks are run by /ready, keyed by the name reported on failure.
	Checks map[string]ReadinessCheck
}

// RedirectHandler serves health checks and inbound short links.
type RedirectHandler struct {
	logger     *zap.Logger
	shortLinks service.ShortLinkService
	checks     map[string]ReadinessCheck
}

// NewRedirectHandler creates a redirect handler with the provided dependencies.
func NewRedirectHandler(deps RedirectDeps) *RedirectHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedirectHandler{
		logger:     logger,
		shortLinks: deps.ShortLinks,
		checks:     deps.Checks,
	}
}

// Register wires redirect routes onto the provided router.
func (h *RedirectHandler) Register(router fiber.Router) {
	router.Get("/", h.Health)
	router.Get("/health", h.Health)
	router.Get("/ready", h.Ready)
	router.Get("/s/:token", h.Resolve)
}

// Health is a simple root endpoint so we know the service is running.
func (h *RedirectHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "FoodGram",
		"status":  "ok",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready reports whether every backing service answers.
func (h *RedirectHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(requestContext(c), readinessTimeout)
	defer cancel()

	failures := make(map[string]string)
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("readiness check failed", zap.String("check", name), zap.Error(err))
			failures[name] = err.Error()
		}
	}
	if len(failures) > 0 {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"checks": failures,
		})
	}
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Resolve handles GET /s/:token/ and redirects to the recipe page.
func (h *RedirectHandler) Resolve(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return c.Status(fiber.StatusNotFound).SendString(linkNotFoundBody)
	}

	visitor := service.Visitor{
		IP:        utils.CopyString(c.IP()),
		UserAgent: utils.CopyString(c.Get(fiber.HeaderUserAgent)),
	}
	target, err := h.shortLinks.Resolve(requestContext(c), token, visitor)
	if err != nil {
		if errors.Is(err, repository.ErrShortLinkNotFound) {
			return c.Status(fiber.StatusNotFound).SendString(linkNotFoundBody)
		}
		h.logger.Error("failed to resolve short link", zap.Error(err), zap.String("token", token))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	h.logger.Debug("redirecting short link", zap.String("token", token), zap.String("target", target))
	return c.Redirect(target, fiber.StatusFound)
}
