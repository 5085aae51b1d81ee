// Package site is the server-rendered reader and admin interface. It talks to
// the REST API only through apiclient.
package site

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"typoteka/internal/apiclient"
	"typoteka/internal/config"
	"typoteka/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	articlesPerPage     = 8
	maxElementsPerBlock = 4
	sessionTTL          = 24 * time.Hour
)

// Site holds the dependencies of the web interface.
type Site struct {
	config   *config.Config
	api      *apiclient.Client
	storage  fiber.Storage
	sessions *session.Store
	app      *fiber.App
}

// New creates the site. storage backs sessions and CSRF tokens; nil keeps
// them in process memory.
func New(cfg *config.Config, api *apiclient.Client, storage fiber.Storage) *Site {
	s := &Site{config: cfg, api: api, storage: storage}
	s.sessions = session.New(session.Config{
		Storage:        storage,
		Expiration:     sessionTTL,
		KeyLookup:      "cookie:typoteka_session",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   cfg.IsProduction(),
	})
	return s
}

// cookieKey derives the cookie encryption key from SESSION_SECRET.
func cookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// NewApp builds the Fiber application with middleware and routes.
func (s *Site) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Typoteka",
		Views:        NewViews(),
		ErrorHandler: s.errorHandler,
		BodyLimit:    (s.config.MaxUploadMB + 1) * 1024 * 1024,

		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          s.config.TrustedProxyList(),
		EnableIPValidation:      true,
	})

	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())
	app.Use(helmet.New(helmet.Config{CrossOriginEmbedderPolicy: "unsafe-none"}))
	app.Use(middleware.StructuredLogger())
	app.Use(recover.New())
	app.Use(encryptcookie.New(encryptcookie.Config{Key: cookieKey(s.config.SessionSecret)}))

	static, _ := fs.Sub(staticFS, "static")
	app.Use("/static", filesystem.New(filesystem.Config{Root: http.FS(static)}))
	app.Static("/img", s.config.UploadDir)

	app.Use(s.loadUser)
	s.SetupRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return s.renderStatus(c, fiber.StatusNotFound)
	})
	return app
}

// SetupRoutes registers every page.
func (s *Site) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Home)
	app.Get("/search", s.Search)
	app.Get("/register", s.RegisterForm)
	app.Post("/register", s.Register)
	app.Get("/login", s.LoginForm)
	app.Post("/login", s.Login)
	app.Get("/logout", s.Logout)

	my := app.Group("/my", s.requireOwner)
	my.Get("/", s.MyArticles)
	my.Get("/comments", s.MyComments)
	my.Post("/comments/:articleId/:commentId/delete", s.DeleteComment)

	articles := app.Group("/articles")
	articles.Get("/add", s.requireOwner, s.NewArticleForm)
	articles.Post("/add", s.requireOwner, s.CreateArticle)
	articles.Get("/edit/:id", s.requireOwner, s.EditArticleForm)
	articles.Post("/edit/:id", s.requireOwner, s.UpdateArticle)
	articles.Post("/delete/:id", s.requireOwner, s.DeleteArticle)
	articles.Get("/category/:id", s.ArticlesByCategory)
	articles.Get("/:id", s.Article)
	articles.Post("/:id/comments", requireUser, s.CreateComment)

	categories := app.Group("/categories", s.requireOwner, csrf.New(csrf.Config{
		KeyLookup:      "form:_csrf",
		CookieName:     "typoteka_csrf",
		CookieSameSite: "Lax",
		CookieHTTPOnly: true,
		Expiration:     time.Hour,
		Storage:        s.storage,
		ContextKey:     "csrf",
	}))
	categories.Get("/", s.Categories)
	categories.Post("/add", s.CreateCategory)
	categories.Post("/edit/:id", s.UpdateCategory)
	categories.Post("/delete/:id", s.DeleteCategory)
}

// render executes a page with the data every page needs.
func (s *Site) render(c *fiber.Ctx, page string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["User"] = currentUser(c)
	data["WSURL"] = s.config.PublicWSURL
	data["Page"] = page
	return c.Render(page, data)
}

func (s *Site) renderStatus(c *fiber.Ctx, status int) error {
	page := "500"
	switch status {
	case fiber.StatusNotFound:
		page = "404"
	case fiber.StatusForbidden:
		page = "403"
	}
	c.Status(status)
	return s.render(c, page, nil)
}

// errorHandler turns API 404s into the not-found page and logs everything else.
func (s *Site) errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	switch {
	case apiclient.IsStatus(err, fiber.StatusNotFound):
		return s.renderStatus(c, fiber.StatusNotFound)
	case apiclient.IsStatus(err, fiber.StatusForbidden):
		return s.renderStatus(c, fiber.StatusForbidden)
	case errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError:
		return c.Status(fiberErr.Code).SendString(fiberErr.Message)
	}
	if renderErr := s.renderStatus(c, fiber.StatusInternalServerError); renderErr != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}
	return nil
}

// Start creates the upload directory and listens on the site port.
func (s *Site) Start() error {
	if err := os.MkdirAll(s.config.UploadDir, 0o755); err != nil {
		return err
	}
	s.app = s.NewApp()
	middleware.Logger.Info("site starting", slog.String("port", s.config.SitePort))
	return s.app.Listen(":" + s.config.SitePort)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Site) Shutdown(ctx context.Context) error {
	if s.app == nil {
		return nil
	}
	return s.app.ShutdownWithContext(ctx)
}
