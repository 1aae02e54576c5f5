package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portal-service/internal/api/http/handlers"
	"github.com/spec-kit/portal-service/internal/auth"
	"github.com/spec-kit/portal-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Users    *handlers.UsersHandler
	News     *handlers.NewsHandler
	Events   *handlers.EventsHandler
	Polls    *handlers.PollsHandler
	Teams    *handlers.TeamsHandler
	Groups   *handlers.GroupsHandler
	Feedback *handlers.FeedbackHandler
	Jobs     *handlers.JobsHandler

	AuthMiddleware *auth.Middleware
	CronGuard      *auth.CronGuard
}

// RegisterRoutes wires HTTP routes. Allowed-role sets are spelled out per
// route on purpose: content moderation accepts admin and moderator, user
// management accepts admin alone, and the two are never derived from one
// another.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// Login is the only interactive endpoint reachable without credentials.
	app.Post("/auth/login", cfg.Auth.Login)
	app.Post("/auth/logout", cfg.Auth.Logout)

	// Scheduled jobs authenticate by shared secret, not principal.
	jobs := app.Group("/jobs", cfg.CronGuard.Handle)
	jobs.Post("/events/reminders", cfg.Jobs.EventReminders)
	jobs.Post("/polls/close-due", cfg.Jobs.ClosePolls)

	// Everything below resolves a principal first.
	api := app.Group("", cfg.AuthMiddleware.Authenticate, auth.RequireAuthenticated())

	api.Get("/auth/me", cfg.Auth.Me)

	api.Get("/news", cfg.News.List)
	api.Get("/news/:id", cfg.News.Get)
	moderation := auth.RequireRole(domain.RoleAdmin, domain.RoleModerator)
	api.Post("/news", moderation, cfg.News.Create)
	api.Put("/news/:id", moderation, cfg.News.Update)
	api.Delete("/news/:id", moderation, cfg.News.Delete)

	api.Get("/events", cfg.Events.List)
	api.Get("/events/:id", cfg.Events.Get)
	api.Put("/events/:id/rsvp", cfg.Events.RSVP)
	api.Post("/events", moderation, cfg.Events.Create)
	api.Put("/events/:id", moderation, cfg.Events.Update)
	api.Delete("/events/:id", moderation, cfg.Events.Delete)

	api.Get("/polls", cfg.Polls.List)
	api.Get("/polls/:id", cfg.Polls.Get)
	api.Put("/polls/:id/vote", cfg.Polls.Vote)
	api.Post("/polls", moderation, cfg.Polls.Create)
	api.Post("/polls/:id/close", moderation, cfg.Polls.Close)

	api.Get("/teams", cfg.Teams.List)
	api.Get("/teams/:id", cfg.Teams.Get)
	// Team structure is admin territory; teamleiter scope only widens reads
	// of member-owned resources, never roster changes.
	teamAdmin := auth.RequireRole(domain.RoleAdmin)
	api.Post("/teams", teamAdmin, cfg.Teams.Create)
	api.Put("/teams/:id", teamAdmin, cfg.Teams.Update)
	api.Put("/teams/:id/members", teamAdmin, cfg.Teams.SetMember)
	api.Delete("/teams/:id/members/:userId", teamAdmin, cfg.Teams.RemoveMember)

	api.Get("/groups", cfg.Groups.List)
	api.Post("/groups", cfg.Groups.Create)
	api.Delete("/groups/:id", auth.RequireRole(domain.RoleAdmin), cfg.Groups.Delete)
	api.Post("/groups/:id/join", cfg.Groups.Join)
	api.Post("/groups/:id/leave", cfg.Groups.Leave)
	api.Get("/groups/:id/members", cfg.Groups.Members)

	api.Post("/feedback/import", moderation, cfg.Feedback.Import)
	// Reads enforce owner-or-role inside the service.
	api.Get("/feedback/:id", cfg.Feedback.Get)
	api.Get("/feedback/user/:userId", cfg.Feedback.ListForOwner)

	// User management is admin-only; moderator does NOT imply access here.
	admin := api.Group("/admin", auth.RequireRole(domain.RoleAdmin))
	admin.Get("/users", cfg.Users.List)
	admin.Post("/users", cfg.Users.Create)
	admin.Get("/users/:id", cfg.Users.Get)
	admin.Put("/users/:id/role", cfg.Users.SetRole)
	admin.Put("/users/:id/active", cfg.Users.SetActive)
}
