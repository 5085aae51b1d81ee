// Package server contains the HTTP and WebSocket handlers of the REST API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	_ "typoteka/docs" // swagger docs
	"typoteka/internal/bootstrap"
	"typoteka/internal/cache"
	"typoteka/internal/config"
	"typoteka/internal/middleware"
	"typoteka/internal/models"
	"typoteka/internal/notifications"
	"typoteka/internal/repository"
	"typoteka/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	db              *gorm.DB
	redis           *redis.Client
	app             *fiber.App
	promMiddleware  *fiberprometheus.FiberPrometheus
	shutdownCtx     context.Context
	shutdownFn      context.CancelFunc
	notifier        *notifications.Notifier
	hub             *notifications.Hub
	publisher       notifications.Publisher
	articleService  *service.ArticleService
	commentService  *service.CommentService
	categoryService *service.CategoryService
	userService     *service.UserService
	homeService     *service.HomeService
}

// NewServer connects to the database and, when reachable, Redis.
func NewServer(cfg *config.Config) (*Server, error) {
	db, rdb, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, rdb)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}

	articleRepo := repository.NewArticleRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	userRepo := repository.NewUserRepository(db)
	c := cache.New(redisClient)

	ctx, cancel := context.WithCancel(context.Background())
	server := &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		promMiddleware:  middleware.InitMetrics("typoteka-api"),
		shutdownCtx:     ctx,
		shutdownFn:      cancel,
		notifier:        notifications.NewNotifier(redisClient),
		hub:             notifications.NewHub(),
		articleService:  service.NewArticleService(articleRepo, categoryRepo, c),
		commentService:  service.NewCommentService(commentRepo, articleRepo, c),
		categoryService: service.NewCategoryService(categoryRepo, articleRepo, c),
		userService:     service.NewUserService(userRepo),
		homeService:     service.NewHomeService(articleRepo, commentRepo, c),
	}
	server.publisher = notifications.NewDispatcher(server.hub, server.notifier)

	return server, nil
}

// SetPublisher replaces the realtime event publisher.
func (s *Server) SetPublisher(p notifications.Publisher) {
	s.publisher = p
}

// NewApp builds the Fiber application with middleware and routes.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Typoteka API",
		ErrorHandler: s.errorHandler,
		BodyLimit:    4 * 1024 * 1024,
		// The site calls on behalf of its visitors and names them in
		// X-Forwarded-For; other peers cannot pick their own address.
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          s.config.TrustedProxyList(),
		EnableIPValidation:      true,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler reports Fiber errors with their own status and everything else
// as an opaque 500. StructuredLogger logs the outcome.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(models.ErrorResponse{Error: fiberErr.Message})
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())
	// Inside the logger so a recovered panic is logged as a 500.
	app.Use(recover.New())

	// CORS runs before the limiter so error responses still carry CORS headers.
	app.Use(cors.New(cors.Config{
		AllowOrigins: s.config.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		MaxAge:       86400,
	}))

	maxPerMinute := s.config.RateLimitPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 300
	}
	app.Use(limiter.New(limiter.Config{
		Max:        maxPerMinute,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || s.config.Env == "test"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{Title: "Typoteka API Metrics"}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := middleware.OptionalAuth(s.config.JWTSecret)

	articles := api.Group("/articles")
	articles.Get("/", s.GetArticles)
	// Specific routes before the generic /:articleId
	articles.Get("/comments", s.GetAllComments)
	articles.Post("/", auth, s.CreateArticle)
	articles.Get("/:articleId/comments", s.GetComments)
	articles.Post("/:articleId/comments", auth, middleware.RateLimit(
		s.redis, 5, time.Minute, "create_comment"), s.CreateComment)
	articles.Delete("/:articleId/comments/:commentId", s.DeleteComment)
	articles.Get("/:articleId", s.GetArticle)
	articles.Put("/:articleId", s.UpdateArticle)
	articles.Delete("/:articleId", s.DeleteArticle)

	categories := api.Group("/categories")
	categories.Get("/", s.GetCategories)
	categories.Post("/", s.CreateCategory)
	categories.Get("/:categoryId", s.GetCategory)
	categories.Put("/:categoryId", s.UpdateCategory)
	categories.Delete("/:categoryId", s.DeleteCategory)

	api.Get("/search", middleware.RateLimit(s.redis, 30, time.Minute, "search"), s.Search)
	api.Get("/home", s.GetHome)

	user := api.Group("/user")
	user.Post("/", middleware.RateLimit(s.redis, 5, 10*time.Minute, "signup"), s.CreateUser)
	user.Post("/auth", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)

	api.Get("/ws", s.WebsocketUpgrade, s.WebsocketHandler())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports 503 while the database is unreachable. Redis is
// optional and only reported.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"websockets": s.hub.Count(),
		"time":       time.Now(),
	})
}

// Start wires realtime relaying and listens on the API port.
func (s *Server) Start() error {
	s.app = s.NewApp()

	if s.notifier.Enabled() {
		if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
			middleware.Logger.Error("failed to start event relay", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("API server starting", slog.String("port", s.config.APIPort))
	return s.app.Listen(":" + s.config.APIPort)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownFn()

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down websocket hub", slog.String("error", err.Error()))
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
