package domain

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/specsinspector/webapp/internal/app/gateway"
	"github.com/specsinspector/webapp/internal/app/middleware"
	"github.com/specsinspector/webapp/internal/app/models"
)

type BaseHandler struct {
	Logger *zap.Logger
}

func NewBaseHandler(logger *zap.Logger) *BaseHandler {
	return &BaseHandler{Logger: logger}
}

// NewPage assembles the layout data for a view, picking the signed-in
// user (if any) from the request context.
func (h *BaseHandler) NewPage(c *gin.Context, title, activeNav string) models.Page {
	user := middleware.GetUserFromContext(c)
	nav := models.OfflineNav
	if user != nil {
		nav = models.MainNav
	}
	return models.Page{
		Title:     title,
		User:      user,
		Nav:       nav,
		ActiveNav: activeNav,
	}
}

// Redirect navigates both HTMX and plain requests.
func (h *BaseHandler) Redirect(c *gin.Context, location string) {
	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Redirect", location)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusFound, location)
}

// RenderError shows the shared error page with a user-facing message.
// A no-op when a response was already written, e.g. when the gateway's
// unauthorized hook redirected mid-handler.
func (h *BaseHandler) RenderError(c *gin.Context, status int, message string) {
	if c.IsAborted() || c.Writer.Written() {
		return
	}
	page := h.NewPage(c, "Something went wrong", "")
	page.Error = message
	c.HTML(status, "error.html", page)
}

// RenderGatewayError translates a failed platform API call into the
// shared error page. Server-provided messages pass through; transport
// failures get a generic retry message.
func (h *BaseHandler) RenderGatewayError(c *gin.Context, err error) {
	if gateway.IsTimeout(err) {
		h.RenderError(c, http.StatusGatewayTimeout, "The server took too long to respond. Please try again.")
		return
	}
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.StatusCode
		if status < 400 || status >= 600 {
			status = http.StatusBadGateway
		}
		h.RenderError(c, status, apiErr.Message)
		return
	}
	h.Logger.Error("Platform API call failed", zap.Error(err))
	h.RenderError(c, http.StatusBadGateway, "Something went wrong. Please try again.")
}
