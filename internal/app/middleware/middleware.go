package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/specsinspector/webapp/internal/app/gateway"
	"github.com/specsinspector/webapp/internal/app/models"
	"github.com/specsinspector/webapp/internal/app/session"
	"github.com/specsinspector/webapp/internal/observability/metrics"
)

// Typed context keys
type contextKey string

const (
	UserContextKey  contextKey = "user"
	storeContextKey contextKey = "sessionStore"
	apiContextKey   contextKey = "apiGateway"
	RequestIDKey    contextKey = "request_id"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

// SessionConfig carries the dependencies the Session middleware injects
// into every request.
type SessionConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// RequestIDMiddleware tags every request with a request id, echoed back
// in the X-Request-Id header and picked up by the ginzap context fields.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(string(RequestIDKey), id)
		c.Writer.Header().Set("X-Request-Id", id)
		c.Next()
	}
}

// CORSMiddleware handles CORS headers
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, HX-Request, HX-Target, HX-Current-URL")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SecurityMiddleware adds security headers
func SecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("X-XSS-Protection", "1; mode=block")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Content Security Policy for HTMX and external fonts
		csp := "default-src 'self'; " +
			"script-src 'self' 'unsafe-inline' https://unpkg.com https://cdn.jsdelivr.net; " +
			"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; " +
			"font-src 'self' https://fonts.gstatic.com; " +
			"img-src 'self' data:; " +
			"connect-src 'self'"
		c.Writer.Header().Set("Content-Security-Policy", csp)

		c.Next()
	}
}

// SessionMiddleware wires the per-request session machinery: cookie
// persistence, a gateway client sharing the process-wide http.Client,
// and a store restored from the persisted cookies. A 401 on any
// authenticated request through the gateway tears the session down and
// forces navigation to the login screen.
func SessionMiddleware(cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		kv := session.NewCookiePersistence(c)
		api := gateway.New(gateway.Config{
			BaseURL:    cfg.BaseURL,
			HTTPClient: cfg.HTTPClient,
			Logger:     cfg.Logger,
		})
		store := session.NewStore(kv, api, cfg.Logger)
		store.Restore()

		api.OnUnauthorized(func() {
			store.Logout()
			redirectToLogin(c)
		})

		c.Set(string(storeContextKey), store)
		c.Set(string(apiContextKey), api)
		c.Next()
	}
}

// RequireAuth guards the protected screens. Without a live session the
// request never reaches its handler.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		store := StoreFromContext(c)
		if store == nil {
			redirectToLogin(c)
			return
		}
		user := store.Current()
		if user == nil {
			redirectToLogin(c)
			return
		}
		c.Set(string(UserContextKey), user)
		c.Next()
	}
}

// redirectToLogin handles redirects for both regular and HTMX requests
func redirectToLogin(c *gin.Context) {
	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Redirect", LoginPath)
		c.AbortWithStatus(http.StatusUnauthorized)
	} else {
		c.Redirect(http.StatusFound, LoginPath)
		c.Abort()
	}
}

// StoreFromContext extracts the per-request session store.
func StoreFromContext(c *gin.Context) *session.Store {
	v, exists := c.Get(string(storeContextKey))
	if !exists {
		return nil
	}
	store, ok := v.(*session.Store)
	if !ok {
		return nil
	}
	return store
}

// GatewayFromContext extracts the per-request gateway client.
func GatewayFromContext(c *gin.Context) *gateway.Client {
	v, exists := c.Get(string(apiContextKey))
	if !exists {
		return nil
	}
	api, ok := v.(*gateway.Client)
	if !ok {
		return nil
	}
	return api
}

// GetUserFromContext extracts the authenticated user set by RequireAuth.
func GetUserFromContext(c *gin.Context) *models.User {
	v, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// MetricsMiddleware records request counts and latencies, with a
// dedicated counter for the authentication endpoints.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := strconv.Itoa(c.Writer.Status())

		m := metrics.Get()
		ctx := c.Request.Context()
		m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("path", path),
			attribute.String("status", status),
		))
		m.HTTPRequestDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("path", path),
		))

		if path == LoginPath || path == "/register" {
			m.AuthRequestsTotal.Add(ctx, 1, metric.WithAttributes(
				attribute.String("endpoint", path),
				attribute.String("status", status),
			))
		}
	}
}
