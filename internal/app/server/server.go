package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/sifan077/FoodGram/internal/app/repository"
	"github.com/sifan077/FoodGram/internal/app/service"
	inthttp "github.com/sifan077/FoodGram/internal/http/handler"
	"github.com/sifan077/FoodGram/internal/http/middleware"
	httpUtil "github.com/sifan077/FoodGram/internal/http/util"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const localRevocationEntries = 10000

// Options carries the application settings the HTTP server needs.
type Options struct {
	BaseURL              string
	ShoppingListFilename string
	Secret               []byte
	TokenTTL             time.Duration
	RateLimit            middleware.RateLimitConfig
	AllowedOrigins       []string
}

// Dependencies bundles infrastructure dependencies required by the HTTP server.
// Postgres, Redis and JetStream are optional.
type Dependencies struct {
	Logger    *zap.Logger
	DB        *gorm.DB
	Postgres  *pgxpool.Pool
	Redis     *redis.Client
	JetStream nats.JetStreamContext
	// Filter is shared with the refresher that keeps it current.
	Filter  service.TokenFilter
	Options Options
}

// Server wraps the Fiber application and its dependencies.
type Server struct {
	app    *fiber.App
	deps   Dependencies
	tokens *httpUtil.TokenSigner
	auth   service.AuthService
}

// New creates a new HTTP server instance with every route registered.
func New(deps Dependencies) (*Server, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Filter == nil {
		deps.Filter = service.NewBloomTokenFilter(0, 0)
	}

	app := fiber.New(fiber.Config{
		AppName: "FoodGram",
	})

	s := &Server{
		app:  app,
		deps: deps,
	}

	if err := s.registerRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

// App exposes the underlying Fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the Fiber server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the Fiber server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) revocationStore() (service.RevocationStore, error) {
	if s.deps.Redis != nil {
		return service.NewRedisRevocationStore(s.deps.Redis), nil
	}
	s.deps.Logger.Warn("redis unavailable, logouts are tracked in memory only")
	store, err := service.NewLocalRevocationStore(localRevocationEntries)
	if err != nil {
		return nil, fmt.Errorf("create revocation store: %w", err)
	}
	return store, nil
}

func (s *Server) shoppingListRepository() repository.ShoppingListRepository {
	if s.deps.Postgres != nil {
		return repository.NewPgxShoppingListRepository(s.deps.Postgres)
	}
	return repository.NewShoppingListRepository(s.deps.DB)
}

func (s *Server) readinessChecks() map[string]inthttp.ReadinessCheck {
	checks := map[string]inthttp.ReadinessCheck{}
	if s.deps.DB != nil {
		checks["database"] = func(ctx context.Context) error {
			sqlDB, err := s.deps.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if s.deps.Postgres != nil {
		checks["postgres"] = s.deps.Postgres.Ping
	}
	if s.deps.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return s.deps.Redis.Ping(ctx).Err()
		}
	}
	return checks
}

func (s *Server) registerRoutes() error {
	db := s.deps.DB
	log := s.deps.Logger
	opts := s.deps.Options

	users := repository.NewUserRepository(db)
	subs := repository.NewSubscriptionRepository(db)
	ingredients := repository.NewIngredientRepository(db)
	tags := repository.NewTagRepository(db)
	recipes := repository.NewRecipeRepository(db)
	members := repository.NewMembershipRepository(db)
	links := repository.NewShortLinkRepository(db)
	visits := repository.NewLinkVisitRepository(db)

	revoked, err := s.revocationStore()
	if err != nil {
		return err
	}

	var publisher service.VisitPublisher
	if s.deps.JetStream != nil {
		publisher = service.NewVisitPublisher(s.deps.JetStream)
	}

	s.tokens = httpUtil.NewTokenSigner(opts.Secret, opts.TokenTTL)
	s.auth = service.NewAuthService(users, revoked)
	shortLinks := service.NewShortLinkService(links, recipes, service.ShortLinkOptions{
		BaseURL:   opts.BaseURL,
		Filter:    s.deps.Filter,
		Publisher: publisher,
		Visits:    visits,
		Logger:    log,
	})

	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Recovery(log))
	s.app.Use(middleware.Logger(log))
	s.app.Use(middleware.Metrics())
	s.app.Use(middleware.CORS(opts.AllowedOrigins...))
	s.app.Use(middleware.Authenticate(s.tokens, s.auth, log))
	s.app.Use(middleware.RateLimit(s.deps.Redis, opts.RateLimit, log))

	inthttp.NewRedirectHandler(inthttp.RedirectDeps{
		Logger:     log,
		ShortLinks: shortLinks,
		Checks:     s.readinessChecks(),
	}).Register(s.app)

	inthttp.NewAPIHandler(inthttp.APIDeps{
		Logger:      log,
		Ingredients: ingredients,
		Tags:        tags,
	}).Register(s.app)

	inthttp.NewUserHandler(inthttp.UserDeps{
		Logger:        log,
		Users:         service.NewUserService(users, subs),
		Auth:          s.auth,
		Subscriptions: service.NewSubscriptionService(subs, users, recipes),
		Tokens:        s.tokens,
	}).Register(s.app)

	inthttp.NewRecipeHandler(inthttp.RecipeDeps{
		Logger:               log,
		Recipes:              service.NewRecipeService(recipes, ingredients, tags, members, subs),
		Memberships:          service.NewMembershipService(members, recipes),
		ShoppingList:         service.NewShoppingListService(s.shoppingListRepository(), log),
		ShortLinks:           shortLinks,
		ShoppingListFilename: opts.ShoppingListFilename,
	}).Register(s.app)

	return nil
}
