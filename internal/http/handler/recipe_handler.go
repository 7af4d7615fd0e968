package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/FoodGram/internal/app/model"
	"github.com/sifan077/FoodGram/internal/app/service"
	"github.com/sifan077/FoodGram/internal/http/middleware"
	httpUtil "github.com/sifan077/FoodGram/internal/http/util"
	"github.com/sifan077/FoodGram/internal/http/view"
	"go.uber.org/zap"
)

const defaultShoppingListFilename = "shopping_list.txt"

// RecipeDeps groups dependencies required by recipe handlers.
type RecipeDeps struct {
	Logger               *zap.Logger
	Recipes              service.RecipeService
	Memberships          service.MembershipService
	ShoppingList         service.ShoppingListService
	ShortLinks           service.ShortLinkService
	ShoppingListFilename string
}

// RecipeHandler implements the recipe endpoints, including the per-user lists.
type RecipeHandler struct {
	logger       *zap.Logger
	recipes      service.RecipeService
	memberships  service.MembershipService
	shoppingList service.ShoppingListService
	shortLinks   service.ShortLinkService
	filename     string
}

// NewRecipeHandler creates a recipe handler with the provided dependencies.
func NewRecipeHandler(deps RecipeDeps) *RecipeHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	filename := deps.ShoppingListFilename
	if filename == "" {
		filename = defaultShoppingListFilename
	}
	return &RecipeHandler{
		logger:       logger,
		recipes:      deps.Recipes,
		memberships:  deps.Memberships,
		shoppingList: deps.ShoppingList,
		shortLinks:   deps.ShortLinks,
		filename:     filename,
	}
}

// Register wires recipe routes onto the provided router.
func (h *RecipeHandler) Register(router fiber.Router) {
	auth := middleware.RequireAuth()

	recipes := router.Group("/api/recipes")
	{
		recipes.Get("/", h.List)
		recipes.Post("/", auth, h.Create)
		recipes.Get("/download_shopping_cart", auth, h.DownloadShoppingCart)
		recipes.Get("/:id", h.Get)
		recipes.Patch("/:id", auth, h.Update)
		recipes.Delete("/:id", auth, h.Delete)
		recipes.Get("/:id/get-link", h.GetLink)
		recipes.Get("/:id/link-visits", auth, h.LinkVisits)
		recipes.Post("/:id/favorite", auth, h.addTo(model.MembershipFavorite))
		recipes.Delete("/:id/favorite", auth, h.removeFrom(model.MembershipFavorite))
		recipes.Post("/:id/shopping_cart", auth, h.addTo(model.MembershipShoppingCart))
		recipes.Delete("/:id/shopping_cart", auth, h.removeFrom(model.MembershipShoppingCart))
	}
}

type ingredientAmountRequest struct {
	ID     uint `json:"id" validate:"required"`
	Amount int  `json:"amount" validate:"min=1"`
}

// RecipeRequest is the body of recipe create and update requests.
type RecipeRequest struct {
	Ingredients []ingredientAmountRequest `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []uint                    `json:"tags" validate:"required,min=1,dive,required"`
	Image       string                    `json:"image"`
	Name        string                    `json:"name" validate:"max=256"`
	Text        string                    `json:"text"`
	CookingTime int                       `json:"cooking_time" validate:"omitempty,min=1"`
}

func (r RecipeRequest) input() service.RecipeInput {
	ingredients := make([]service.IngredientAmount, 0, len(r.Ingredients))
	for _, item := range r.Ingredients {
		ingredients = append(ingredients, service.IngredientAmount{ID: item.ID, Amount: item.Amount})
	}
	return service.RecipeInput{
		Name:        r.Name,
		Image:       r.Image,
		Text:        r.Text,
		CookingTime: r.CookingTime,
		Ingredients: ingredients,
		Tags:        r.Tags,
	}
}

// List handles GET /api/recipes/
func (h *RecipeHandler) List(c *fiber.Ctx) error {
	page := httpUtil.ParsePage(c)
	query := service.RecipeListQuery{
		IsFavorited:      c.Query("is_favorited") == "1",
		IsInShoppingCart: c.Query("is_in_shopping_cart") == "1",
		Limit:            page.Limit,
		Offset:           page.Offset(),
	}
	if author := c.QueryInt("author"); author > 0 {
		query.AuthorID = uint(author)
	}
	for _, slug := range c.Context().QueryArgs().PeekMulti("tags") {
		query.Tags = append(query.Tags, string(slug))
	}

	result, err := h.recipes.List(requestContext(c), middleware.UserID(c), query)
	if err != nil {
		return writeError(c, h.logger, err, "failed to list recipes")
	}
	return c.JSON(httpUtil.NewPageResponse(c, page, result.Total, view.NewRecipes(result.Items)))
}

// Get handles GET /api/recipes/:id
func (h *RecipeHandler) Get(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c)
	}
	recipe, err := h.recipes.Get(requestContext(c), middleware.UserID(c), id)
	if err != nil {
		return writeError(c, h.logger, err, "failed to load recipe")
	}
	return c.JSON(view.NewRecipe(*recipe))
}

// Create handles POST /api/recipes/
func (h *RecipeHandler) Create(c *fiber.Ctx) error {
	var req RecipeRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, h.logger, err, "failed to create recipe")
	}

	recipe, err := h.recipes.Create(requestContext(c), middleware.UserID(c), req.input())
	if err != nil {
		return writeError(c, h.logger, err, "failed to create recipe")
	}
	return c.Status(fiber.StatusCreated).JSON(view.NewRecipe(*recipe))
}

// Update handles PATCH /api/recipes/:id
func (h *RecipeHandler) Update(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c)
	}
	var req RecipeRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, h.logger, err, "failed to update recipe")
	}

	recipe, err := h.recipes.Update(requestContext(c), middleware.UserID(c), id, req.input())
	if err != nil {
		return writeError(c, h.logger, err, "failed to update recipe")
	}
	return c.JSON(view.NewRecipe(*recipe))
}

// Delete handles DELETE /api/recipes/:id
func (h *RecipeHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c)
	}
	if err := h.recipes.Delete(requestContext(c), middleware.UserID(c), id); err != nil {
		return writeError(c, h.logger, err, "failed to delete recipe")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadShoppingCart handles GET /api/recipes/download_shopping_cart/
func (h *RecipeHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	list, err := h.shoppingList.Generate(requestContext(c), middleware.UserID(c))
	if err != nil {
		return writeError(c, h.logger, err, "failed to build shopping list")
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", h.filename))
	return c.SendString(list.Text())
}

// GetLink handles GET /api/recipes/:id/get-link/
func (h *RecipeHandler) GetLink(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c)
	}
	link, err := h.shortLinks.GetOrCreate(requestContext(c), id)
	if err != nil {
		return writeError(c, h.logger, err, "failed to create short link")
	}
	return c.JSON(fiber.Map{
		"short-link": h.shortLinks.ShortURL(link),
	})
}

// LinkVisits handles GET /api/recipes/:id/link-visits/
func (h *RecipeHandler) LinkVisits(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c)
	}
	visits, err := h.shortLinks.Visits(requestContext(c), middleware.UserID(c), id)
	if err != nil {
		return writeError(c, h.logger, err, "failed to count link visits")
	}
	return c.JSON(fiber.Map{
		"visits": visits,
	})
}

func (h *RecipeHandler) addTo(kind model.MembershipKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return writeError(c, h.logger, service.ErrUnknownRecipe, "")
		}
		recipe, err := h.memberships.Add(requestContext(c), middleware.UserID(c), id, kind)
		if err != nil {
			return writeError(c, h.logger, err, "failed to add recipe to "+string(kind))
		}
		return c.Status(fiber.StatusCreated).JSON(view.NewRecipeShort(*recipe))
	}
}

func (h *RecipeHandler) removeFrom(kind model.MembershipKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		if err := h.memberships.Remove(requestContext(c), middleware.UserID(c), id, kind); err != nil {
			return writeError(c, h.logger, err, "failed to remove recipe from "+string(kind))
		}
		h.logger.Debug("recipe removed from list",
			zap.String("kind", string(kind)),
			zap.Uint("recipe_id", id),
		)
		return c.SendStatus(fiber.StatusNoContent)
	}
}
