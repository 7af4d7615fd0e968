package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/FoodGram/internal/app/service"
	"github.com/sifan077/FoodGram/internal/http/middleware"
	httpUtil "github.com/sifan077/FoodGram/internal/http/util"
	"github.com/sifan077/FoodGram/internal/http/view"
	"go.uber.org/zap"
)

// UserDeps groups dependencies required by user, auth and subscription handlers.
type UserDeps struct {
	Logger        *zap.Logger
	Users         service.UserService
	Auth          service.AuthService
	Subscriptions service.SubscriptionService
	Tokens        *httpUtil.TokenSigner
}

// UserHandler implements accounts, token auth and subscriptions.
type UserHandler struct {
	logger        *zap.Logger
	users         service.UserService
	auth          service.AuthService
	subscriptions service.SubscriptionService
	tokens        *httpUtil.TokenSigner
}

// NewUserHandler creates a user handler with the provided dependencies.
func NewUserHandler(deps UserDeps) *UserHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserHandler{
		logger:        logger,
		users:         deps.Users,
		auth:          deps.Auth,
		subscriptions: deps.Subscriptions,
		tokens:        deps.Tokens,
	}
}

// Register wires user routes onto the provided router.
func (h *UserHandler) Register(router fiber.Router) {
	auth := middleware.RequireAuth()

	api := router.Group("/api")
	{
		token := api.Group("/auth/token")
		{
			token.Post("/login", h.Login)
			token.Post("/logout", auth, h.Logout)
		}

		users := api.Group("/users")
		{
			users.Get("/", h.List)
			users.Post("/", h.Create)
			users.Get("/me", auth, h.Me)
			users.Put("/me/avatar", auth, h.SetAvatar)
			users.Delete("/me/avatar", auth, h.DeleteAvatar)
			users.Post("/set_password", auth, h.SetPassword)
			users.Get("/subscriptions", auth, h.Subscriptions)
			users.Get("/:id", h.Get)
			users.Post("/:id/subscribe", auth, h.Subscribe)
			users.Delete("/:id/subscribe", auth, h.Unsubscribe)
		}
	}
}

// CreateUserRequest represents the request body for registration.
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required"`
}

// CreateUserResponse represents the response for registration.
type CreateUserResponse struct {
	Email     string `json:"email"`
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type setPasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

type avatarRequest struct {
	Avatar string `json:"avatar" validate:"required"`
}

// Create handles POST /api/users/
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, h.logger, err, "failed to register user")
	}

	user, err := h.users.Register(requestContext(c), service.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return writeError(c, h.logger, err, "failed to register user")
	}

	return c.Status(fiber.StatusCreated).JSON(CreateUserResponse{
		Email:     user.Email,
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

// List handles GET /api/users/
func (h *UserHandler) List(c *fiber.Ctx) error {
	page := httpUtil.ParsePage(c)
	users, total, err := h.users.List(requestContext(c), middleware.UserID(c), page.Limit, page.Offset())
	if err != nil {
		return writeError(c, h.logger, err, "failed to list users")
	}
	return c.JSON(httpUtil.NewPageResponse(c, page, total, view.NewUsers(users)))
}

// Get handles GET /api/users/:id
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c)
	}
	user, err := h.users.Get(requestContext(c), middleware.UserID(c), id)
	if err != nil {
		return writeError(c, h.logger, err, "failed to load user")
	}
	return c.JSON(view.NewUser(user.User, user.IsSubscribed))
}

// Me handles GET /api/users/me/
func (h *UserHandler) Me(c *fiber.Ctx) error {
	uid := middleware.UserID(c)
	user, err := h.users.Get(requestContext(c), uid, uid)
	if err != nil {
		return writeError(c, h.logger, err, "failed to load user")
	}
	return c.JSON(view.NewUser(user.User, false))
}

// SetPassword handles POST /api/users/set_password/
func (h *UserHandler) SetPassword(c *fiber.Ctx) error {
	var req setPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, h.logger, err, "failed to change password")
	}
	if err := h.users.SetPassword(requestContext(c), middleware.UserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return writeError(c, h.logger, err, "failed to change password")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetAvatar handles PUT /api/users/me/avatar/
func (h *UserHandler) SetAvatar(c *fiber.Ctx) error {
	var req avatarRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, h.logger, err, "failed to update avatar")
	}
	if err := h.users.SetAvatar(requestContext(c), middleware.UserID(c), req.Avatar); err != nil {
		return writeError(c, h.logger, err, "failed to update avatar")
	}
	return c.JSON(fiber.Map{
		"avatar": req.Avatar,
	})
}

// DeleteAvatar handles DELETE /api/users/me/avatar/
func (h *UserHandler) DeleteAvatar(c *fiber.Ctx) error {
	if err := h.users.SetAvatar(requestContext(c), middleware.UserID(c), ""); err != nil {
		return writeError(c, h.logger, err, "failed to delete avatar")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Login handles POST /api/auth/token/login/
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, h.logger, err, "failed to log in")
	}

	user, err := h.auth.Login(requestContext(c), req.Email, req.Password)
	if err != nil {
		return writeError(c, h.logger, err, "failed to log in")
	}
	token, _, err := h.tokens.Issue(user.ID)
	if err != nil {
		return writeError(c, h.logger, err, "failed to issue token")
	}

	h.logger.Info("user logged in", zap.Uint("user_id", user.ID))
	return c.JSON(fiber.Map{
		"auth_token": token,
	})
}

// Logout handles POST /api/auth/token/logout/
func (h *UserHandler) Logout(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if claims == nil || claims.ExpiresAt == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	if err := h.auth.Revoke(requestContext(c), claims.ID, claims.ExpiresAt.Time); err != nil {
		return writeError(c, h.logger, err, "failed to log out")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Subscriptions handles GET /api/users/subscriptions/
func (h *UserHandler) Subscriptions(c *fiber.Ctx) error {
	page := httpUtil.ParsePage(c)
	authors, total, err := h.subscriptions.List(requestContext(c), middleware.UserID(c), page.Limit, page.Offset(), c.QueryInt("recipes_limit"))
	if err != nil {
		return writeError(c, h.logger, err, "failed to list subscriptions")
	}
	return c.JSON(httpUtil.NewPageResponse(c, page, total, view.NewAuthors(authors)))
}

// Subscribe handles POST /api/users/:id/subscribe/
func (h *UserHandler) Subscribe(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c)
	}
	author, err := h.subscriptions.Subscribe(requestContext(c), middleware.UserID(c), id, c.QueryInt("recipes_limit"))
	if err != nil {
		return writeError(c, h.logger, err, "failed to subscribe")
	}
	return c.Status(fiber.StatusCreated).JSON(view.NewAuthor(*author))
}

// Unsubscribe handles DELETE /api/users/:id/subscribe/
func (h *UserHandler) Unsubscribe(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return notFound(c)
	}
	if err := h.subscriptions.Unsubscribe(requestContext(c), middleware.UserID(c), id); err != nil {
		return writeError(c, h.logger, err, "failed to unsubscribe")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
