package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rainbowlistings/directory/internal/auth"
	"github.com/rainbowlistings/directory/internal/config"
	"github.com/rainbowlistings/directory/internal/handler"
	middlewarepkg "github.com/rainbowlistings/directory/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router. Auth and Users are nil
// when the store backend keeps no local accounts.
type Handlers struct {
	Home        *handler.HomeHandler
	Listings    *handler.ListingsHandler
	Categories  *handler.CategoriesHandler
	Events      *handler.EventsHandler
	Prompt      *handler.PromptSearchHandler
	Submission  *handler.SubmissionHandler
	Moderation  *handler.ModerationHandler
	AdminUpload *handler.AdminUploadHandler
	Auth        *handler.AuthHandler
	Users       *handler.UserAdminHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, verifier auth.Verifier, handlers Handlers) {
	e.GET("/healthz", handler.Health)
	e.GET("/home", handlers.Home.Home)

	e.GET("/categories", handlers.Categories.List)
	e.GET("/categories/:name", handlers.Categories.Detail)

	e.GET("/search", handlers.Listings.Search)
	e.POST("/search/prompt", handlers.Prompt.Search)

	e.GET("/businesses/featured", handlers.Listings.Featured)
	e.GET("/businesses/:id", handlers.Listings.Business)
	e.GET("/businesses/:id/:slug", handlers.Listings.Business)
	e.POST("/businesses", handlers.Submission.Submit,
		middlewarepkg.OptionalAuth(verifier),
		middlewarepkg.SubmitRateLimiter(cfg.RateLimitSubmit),
	)

	e.GET("/events", handlers.Events.List)
	e.GET("/events/upcoming", handlers.Events.Upcoming)
	e.GET("/events/:id", handlers.Events.Detail)

	e.GET("/auth/me", handler.Me, middlewarepkg.RequireAuth(verifier))
	if handlers.Auth != nil {
		e.POST("/auth/register", handlers.Auth.Register)
		e.POST("/auth/login", handlers.Auth.Login)
	}

	admin := e.Group("/admin", middlewarepkg.RequireAuth(verifier), middlewarepkg.RequireRole("admin"))
	admin.POST("/upload-csv", handlers.AdminUpload.UploadCSV)
	admin.GET("/submissions", handlers.Moderation.Pending)
	admin.POST("/submissions/:id/approve", handlers.Moderation.Approve)
	admin.POST("/submissions/:id/reject", handlers.Moderation.Reject)

	if handlers.Users != nil {
		admin.GET("/users", handlers.Users.List)
		admin.POST("/users", handlers.Users.Create)
		admin.PATCH("/users/:id", handlers.Users.Update)
		admin.DELETE("/users/:id", handlers.Users.Delete)
	}
}
