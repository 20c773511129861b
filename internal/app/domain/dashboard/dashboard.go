package dashboard

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/specsinspector/webapp/internal/app/domain"
	"github.com/specsinspector/webapp/internal/app/gateway"
	"github.com/specsinspector/webapp/internal/app/middleware"
	"github.com/specsinspector/webapp/internal/app/models"
)

const (
	statsTTL        = time.Minute
	recentAuditRows = 5
)

type DashboardHandlers struct {
	*domain.BaseHandler
	stats *gocache.Cache
}

func NewDashboardHandlers(base *domain.BaseHandler) *DashboardHandlers {
	return &DashboardHandlers{
		BaseHandler: base,
		stats:       gocache.New(statsTTL, 5*time.Minute),
	}
}

type dashboardPage struct {
	models.Page
	Stats models.DashboardStats
}

// ShowDashboard renders the overview cards. The four backing collections
// are fetched concurrently and the aggregate is cached briefly per
// company so rapid navigation does not hammer the platform API.
func (h *DashboardHandlers) ShowDashboard(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	api := middleware.GatewayFromContext(c)

	page := dashboardPage{Page: h.NewPage(c, "Dashboard - Specs Inspector", "Dashboard")}

	if cached, found := h.stats.Get(user.CompanyID); found {
		page.Stats = cached.(models.DashboardStats)
		c.HTML(http.StatusOK, "dashboard.html", page)
		return
	}

	stats, err := h.fetchStats(c, api)
	if err != nil {
		h.Logger.Error("Failed to load dashboard stats", zap.Error(err))
		if gateway.IsTimeout(err) {
			h.RenderError(c, http.StatusGatewayTimeout, "The server took too long to respond. Please try again.")
			return
		}
		h.RenderError(c, http.StatusBadGateway, "Could not load the dashboard. Please try again.")
		return
	}

	h.stats.Set(user.CompanyID, stats, statsTTL)
	page.Stats = stats
	c.HTML(http.StatusOK, "dashboard.html", page)
}

func (h *DashboardHandlers) fetchStats(c *gin.Context, api *gateway.Client) (models.DashboardStats, error) {
	var stats models.DashboardStats

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		companies, err := api.ListCompanies(ctx)
		if err != nil {
			return err
		}
		stats.Companies = len(companies)
		return nil
	})
	g.Go(func() error {
		users, err := api.ListUsers(ctx)
		if err != nil {
			return err
		}
		stats.Users = len(users)
		return nil
	})
	g.Go(func() error {
		subs, err := api.ListSubscriptions(ctx)
		if err != nil {
			return err
		}
		stats.Subscriptions = len(subs)
		return nil
	})
	g.Go(func() error {
		logs, err := api.ListAuditLogs(ctx)
		if err != nil {
			return err
		}
		if len(logs) > recentAuditRows {
			logs = logs[:recentAuditRows]
		}
		stats.RecentAudit = logs
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, err
	}
	return stats, nil
}
