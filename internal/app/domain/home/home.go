package home

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/specsinspector/webapp/internal/app/domain"
	"github.com/specsinspector/webapp/internal/app/middleware"
	"github.com/specsinspector/webapp/internal/app/models"
)

type HomeHandlers struct {
	*domain.BaseHandler
}

func NewHomeHandlers(base *domain.BaseHandler) *HomeHandlers {
	return &HomeHandlers{BaseHandler: base}
}

type landingPage struct {
	models.Page
	Plans []models.PlanInfo
}

// ShowLandingPage renders the public marketing page. Visitors with a
// live session are sent straight to the dashboard.
func (h *HomeHandlers) ShowLandingPage(c *gin.Context) {
	if store := middleware.StoreFromContext(c); store != nil && store.Current() != nil {
		h.Redirect(c, "/dashboard")
		return
	}

	page := landingPage{
		Page:  h.NewPage(c, "Specs Inspector - AI-Powered Electrical Inspection Platform", "Home"),
		Plans: models.PlanCatalog,
	}
	c.HTML(http.StatusOK, "landing.html", page)
}
