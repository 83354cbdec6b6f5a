package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lead-service/internal/api/http/handlers"
	"github.com/spec-kit/lead-service/internal/auth"
	"github.com/spec-kit/lead-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Leads          *handlers.LeadsHandler
	Users          *handlers.UsersHandler
	Realtors       *handlers.RealtorsHandler
	Support        *handlers.SupportHandler
	Assignments    *handlers.AssignmentsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Every mutation sits behind an explicit
// role guard; only intake and login are public.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.ChangePassword)

	// Public intake form.
	app.Post("/leads", cfg.Leads.CreateLead)

	leads := app.Group("/leads", cfg.AuthMiddleware.Handle)
	leads.Get("", auth.RequireRole(domain.RoleQA, domain.RoleAdmin, domain.RoleSuperAdmin), cfg.Leads.ListLeads)
	leads.Get("/:id", auth.RequireRole(domain.RoleQA, domain.RoleAdmin, domain.RoleSuperAdmin), cfg.Leads.GetLead)
	leads.Patch("/:id/status", auth.RequireRole(domain.RoleQA, domain.RoleAdmin, domain.RoleSuperAdmin), cfg.Leads.UpdateStatus)
	leads.Patch("/:id/recording", auth.RequireRole(domain.RoleQA, domain.RoleAdmin, domain.RoleSuperAdmin), cfg.Leads.UpdateRecording)
	leads.Patch("/:id/review", auth.RequireRole(domain.RoleQA, domain.RoleAdmin, domain.RoleSuperAdmin), cfg.Leads.Review)
	leads.Put("/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin), cfg.Leads.UpdateLead)
	leads.Delete("/:id", auth.RequireRole(domain.RoleSuperAdmin), cfg.Leads.DeleteLead)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("", auth.RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin), cfg.Users.ListUsers)
	users.Post("", auth.RequireRole(domain.RoleSuperAdmin), cfg.Users.CreateUser)
	users.Patch("/:id/role", auth.RequireRole(domain.RoleSuperAdmin), cfg.Users.UpdateRole)
	users.Patch("/:id/status", auth.RequireRole(domain.RoleAdmin, domain.RoleSuperAdmin), cfg.Users.UpdateStatus)
	users.Delete("/:id", auth.RequireRole(domain.RoleSuperAdmin), cfg.Users.DeleteUser)

	app.Delete("/records/:type/:id", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleSuperAdmin), cfg.Users.DeleteRecord)

	realtors := app.Group("/realtors", cfg.AuthMiddleware.Handle)
	realtors.Post("", auth.RequireRole(domain.RoleSales, domain.RoleAdmin, domain.RoleSuperAdmin), cfg.Realtors.Register)
	realtors.Get("", auth.RequireRole(domain.RoleSales, domain.RoleAdmin, domain.RoleSuperAdmin), cfg.Realtors.List)
	realtors.Patch("/:id/active", auth.RequireRole(domain.RoleSupport, domain.RoleAdmin, domain.RoleSuperAdmin), cfg.Support.SetRealtorActive)

	support := app.Group("/support", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleSupport, domain.RoleAdmin, domain.RoleSuperAdmin))
	support.Get("/leads", cfg.Support.ListAcceptedLeads)
	support.Get("/realtors", cfg.Support.ListRealtors)

	assignments := app.Group("/assignments", cfg.AuthMiddleware.Handle)
	assignments.Post("", auth.RequireRole(domain.RoleSupport, domain.RoleAdmin, domain.RoleSuperAdmin), cfg.Support.AssignLead)
	assignments.Get("/mine", auth.RequireRole(domain.RoleRealtor), cfg.Assignments.ListMine)
	assignments.Patch("/:id", auth.RequireRole(domain.RoleRealtor), cfg.Assignments.Update)
}
