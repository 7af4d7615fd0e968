package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/FoodGram/internal/app/repository"
	"github.com/sifan077/FoodGram/internal/http/view"
	"go.uber.org/zap"
)

// APIDeps groups dependencies required by the reference data handlers.
type APIDeps struct {
	Logger      *zap.Logger
	Ingredients repository.IngredientRepository
	Tags        repository.TagRepository
}

// APIHandler serves the read-only ingredient and tag catalog.
type APIHandler struct {
	logger      *zap.Logger
	ingredients repository.IngredientRepository
	tags        repository.TagRepository
}

// NewAPIHandler creates an API handler with the provided dependencies.
func NewAPIHandler(deps APIDeps) *APIHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{
		logger:      logger,
		ingredients: deps.Ingredients,
		tags:        deps.Tags,
	}
}

// Register wires API routes onto the provided router.
func (h *APIHandler) Register(router fiber.Router) {
	api := router.Group("/api")
	{
		ingredients := api.Group("/ingredients")
		{
			ingredients.Get("/", h.ListIngredients)
			ingredients.Get("/:id", h.GetIngredient)
		}
		tags := api.Group("/tags")
		{
			tags.Get("/", h.ListTags)
			tags.Get("/:id", h.GetTag)
		}
	}
}

// ListIngredients handles GET /api/ingredients/?name=<prefix>
func (h *APIHandler) ListIngredients(c *fiber.Ctx) error {
	ingredients, err := h.ingredients.Search(requestContext(c), c.Query("name"))
	if err != nil {
		return writeError(c, h.logger, err, "failed to list ingredients")
	}
	return c.JSON(view.NewIngredients(ingredients))
}

// GetIngredient handles GET /api/ingredients/:id
func (h *APIHandler) GetIngredient(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c)
	}
	ingredient, err := h.ingredients.GetByID(requestContext(c), id)
	if err != nil {
		return writeError(c, h.logger, err, "failed to load ingredient")
	}
	return c.JSON(view.NewIngredient(*ingredient))
}

// ListTags handles GET /api/tags/
func (h *APIHandler) ListTags(c *fiber.Ctx) error {
	tags, err := h.tags.List(requestContext(c))
	if err != nil {
		return writeError(c, h.logger, err, "failed to list tags")
	}
	return c.JSON(view.NewTags(tags))
}

// GetTag handles GET /api/tags/:id
func (h *APIHandler) GetTag(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c)
	}
	tag, err := h.tags.GetByID(requestContext(c), id)
	if err != nil {
		return writeError(c, h.logger, err, "failed to load tag")
	}
	return c.JSON(view.NewTag(*tag))
}
