package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/specsinspector/webapp/internal/app/domain"
	"github.com/specsinspector/webapp/internal/app/domain/audit"
	"github.com/specsinspector/webapp/internal/app/domain/auth"
	"github.com/specsinspector/webapp/internal/app/domain/companies"
	"github.com/specsinspector/webapp/internal/app/domain/dashboard"
	"github.com/specsinspector/webapp/internal/app/domain/home"
	"github.com/specsinspector/webapp/internal/app/domain/subscriptions"
	"github.com/specsinspector/webapp/internal/app/domain/users"
	"github.com/specsinspector/webapp/internal/app/middleware"
)

type AppHandlers struct {
	Home          *home.HomeHandlers
	Auth          *auth.AuthHandlers
	Dashboard     *dashboard.DashboardHandlers
	Companies     *companies.CompanyHandlers
	Users         *users.UserHandlers
	Subscriptions *subscriptions.SubscriptionHandlers
	Audit         *audit.AuditHandlers
}

// Setup wires handlers and routes onto the engine. The session
// middleware is expected to be installed on the engine already.
func Setup(r *gin.Engine, log *zap.Logger) {
	handlers := setupDependencies(log)
	setupRouter(r, handlers, log)
}

func setupDependencies(log *zap.Logger) *AppHandlers {
	baseHandler := domain.NewBaseHandler(log)

	return &AppHandlers{
		Home:          home.NewHomeHandlers(baseHandler),
		Auth:          auth.NewAuthHandlers(baseHandler),
		Dashboard:     dashboard.NewDashboardHandlers(baseHandler),
		Companies:     companies.NewCompanyHandlers(baseHandler),
		Users:         users.NewUserHandlers(baseHandler),
		Subscriptions: subscriptions.NewSubscriptionHandlers(baseHandler),
		Audit:         audit.NewAuditHandlers(baseHandler),
	}
}

func setupRouter(r *gin.Engine, h *AppHandlers, log *zap.Logger) {
	// Public routes
	public := r.Group("/")
	{
		public.GET("/", h.Home.ShowLandingPage)
		public.GET("/login", h.Auth.ShowLogin)
		public.POST("/login", h.Auth.HandleLogin)
		public.GET("/register", h.Auth.ShowRegister)
		public.POST("/register", h.Auth.HandleRegister)
		public.POST("/logout", h.Auth.HandleLogout)
	}

	// Protected routes
	protected := r.Group("/")
	protected.Use(middleware.RequireAuth())
	{
		protected.GET("/dashboard", h.Dashboard.ShowDashboard)

		protected.GET("/companies", h.Companies.ListCompanies)
		protected.GET("/companies/new", h.Companies.ShowNewCompany)
		protected.POST("/companies", h.Companies.CreateCompany)
		protected.GET("/companies/:id/edit", h.Companies.ShowEditCompany)
		protected.POST("/companies/:id", h.Companies.UpdateCompany)
		protected.POST("/companies/:id/delete", h.Companies.DeleteCompany)

		protected.GET("/users", h.Users.ListUsers)
		protected.GET("/users/new", h.Users.ShowNewUser)
		protected.POST("/users", h.Users.CreateUser)
		protected.GET("/users/:id/edit", h.Users.ShowEditUser)
		protected.POST("/users/:id", h.Users.UpdateUser)
		protected.POST("/users/:id/delete", h.Users.DeleteUser)

		protected.GET("/subscriptions", h.Subscriptions.ListSubscriptions)
		protected.GET("/subscriptions/new", h.Subscriptions.ShowNewSubscription)
		protected.POST("/subscriptions", h.Subscriptions.CreateSubscription)
		protected.GET("/subscriptions/:id/edit", h.Subscriptions.ShowEditSubscription)
		protected.POST("/subscriptions/:id", h.Subscriptions.UpdateSubscription)
		protected.GET("/subscriptions/:id/cancel", h.Subscriptions.ShowCancelSubscription)
		protected.POST("/subscriptions/:id/cancel", h.Subscriptions.CancelSubscription)
		protected.POST("/subscriptions/:id/renew", h.Subscriptions.RenewSubscription)
		protected.POST("/subscriptions/:id/delete", h.Subscriptions.DeleteSubscription)

		protected.GET("/audit", h.Audit.ListAuditLogs)
		protected.GET("/audit/export", h.Audit.ExportAuditLogs)
		protected.GET("/audit/:id", h.Audit.ShowAuditLog)
	}

	// Unknown paths land on the dashboard; the auth guard bounces
	// signed-out visitors to the login screen from there.
	r.NoRoute(func(c *gin.Context) {
		log.Info("Unknown path, redirecting to dashboard",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.Redirect(http.StatusFound, "/dashboard")
	})
}
