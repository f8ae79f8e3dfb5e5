package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/drowwn/weNote/internal/api/handler"
	"github.com/drowwn/weNote/internal/api/middleware"
	"github.com/drowwn/weNote/internal/core/ports"
	ophttp "github.com/drowwn/weNote/internal/infrastructure/http"
	"github.com/drowwn/weNote/internal/infrastructure/http/handlers"
	"github.com/drowwn/weNote/internal/pkg/config"
)

// Deps is everything NewRouter needs to build the HTTP surface.
type Deps struct {
	Config     *config.Config
	Log        zerolog.Logger
	Auth       ports.AuthService
	Users      ports.UserService
	Notes      ports.NoteService
	Categories ports.CategoryService
	// NoteCategories serves the note to category links under /notecat.
	NoteCategories ports.NoteCategoryService
	// Collab serves the WebSocket upgrade on GET /ws.
	Collab echo.HandlerFunc
	// Ready lists the dependencies checked by /health/ready.
	Ready map[string]handlers.Checker
	// Registerer receives the HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.Config.CORSOrigins,
		AllowCredentials: true,
	}))
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "wenote",
		Subsystem:  "http",
		Registerer: d.Registerer,
		Skipper:    skipOps,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth, handler.CookieConfig{
		Secure:      d.Config.IsProduction(),
		TokenTTL:    d.Config.TokenTTL,
		RememberTTL: d.Config.RememberTTL,
	})
	userHandler := handler.NewUserHandler(d.Users)
	noteHandler := handler.NewNoteHandler(d.Notes)
	categoryHandler := handler.NewCategoryHandler(d.Categories)
	noteCategoryHandler := handler.NewNoteCategoryHandler(d.NoteCategories)
	authMiddleware := middleware.Auth(d.Auth)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, authMiddleware)
	auth.POST("/refresh", authHandler.Refresh, authMiddleware)

	// --- Users ---
	users := e.Group("/users", authMiddleware)
	users.GET("/me", userHandler.Me)
	users.GET("/email/:email", userHandler.GetByEmail)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update, middleware.SelfOnly("id"))
	users.DELETE("/:id", userHandler.Delete, middleware.SelfOnly("id"))

	// --- Notes ---
	notes := e.Group("/notes", authMiddleware)
	notes.GET("", noteHandler.List)
	notes.POST("", noteHandler.Create)
	notes.GET("/:id", noteHandler.Get)
	notes.PUT("/:id", noteHandler.Update)
	notes.DELETE("/:id", noteHandler.Delete)
	notes.POST("/:id/share", noteHandler.Share)
	notes.GET("/:id/collaborators", noteHandler.Collaborators)

	// --- Categories ---
	categories := e.Group("/categories", authMiddleware)
	categories.GET("", categoryHandler.List)
	categories.POST("", categoryHandler.Create)
	categories.GET("/:id", categoryHandler.Get)
	categories.PUT("/:id", categoryHandler.Update)
	categories.DELETE("/:id", categoryHandler.Delete)

	// --- Note categories ---
	notecat := e.Group("/notecat", authMiddleware)
	notecat.POST("", noteCategoryHandler.Create)
	notecat.GET("/note/:noteId", noteCategoryHandler.ListByNote)
	notecat.GET("/note/:noteId/category/:categoryId", noteCategoryHandler.Get)
	notecat.GET("/category/:categoryId", noteCategoryHandler.ListByCategory)
	notecat.DELETE("/:id", noteCategoryHandler.Delete)

	// --- Real-time collaboration ---
	if d.Collab != nil {
		e.GET("/ws", d.Collab, authMiddleware)
	}

	// --- Health checks, metrics and docs (no auth required) ---
	ophttp.RegisterOps(e, d.Ready)

	return e
}

func skipOps(c echo.Context) bool {
	p := c.Path()
	return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper:      skipOps,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Error != nil:
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
