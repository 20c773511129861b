package audit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/specsinspector/webapp/internal/app/domain"
	"github.com/specsinspector/webapp/internal/app/middleware"
	"github.com/specsinspector/webapp/internal/app/models"
)

type AuditHandlers struct {
	*domain.BaseHandler
}

func NewAuditHandlers(base *domain.BaseHandler) *AuditHandlers {
	return &AuditHandlers{BaseHandler: base}
}

type listPage struct {
	models.Page
	Logs []models.AuditLog
}

type detailPage struct {
	models.Page
	Log models.AuditLog
}

func (h *AuditHandlers) ListAuditLogs(c *gin.Context) {
	api := middleware.GatewayFromContext(c)
	logs, err := api.ListAuditLogs(c.Request.Context())
	if err != nil {
		h.RenderGatewayError(c, err)
		return
	}

	page := listPage{
		Page: h.NewPage(c, "Audit Logs - Specs Inspector", "Audit Logs"),
		Logs: logs,
	}
	c.HTML(http.StatusOK, "audit_list.html", page)
}

func (h *AuditHandlers) ShowAuditLog(c *gin.Context) {
	api := middleware.GatewayFromContext(c)
	log, err := api.GetAuditLog(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RenderGatewayError(c, err)
		return
	}

	page := detailPage{
		Page: h.NewPage(c, "Audit Log - Specs Inspector", "Audit Logs"),
		Log:  *log,
	}
	c.HTML(http.StatusOK, "audit_detail.html", page)
}

// ExportAuditLogs streams the audit archive as a download, passing the
// backend's content type and filename through.
func (h *AuditHandlers) ExportAuditLogs(c *gin.Context) {
	api := middleware.GatewayFromContext(c)
	export, err := api.ExportAuditLogs(c.Request.Context())
	if err != nil {
		h.RenderGatewayError(c, err)
		return
	}

	h.Logger.Info("Audit export downloaded",
		zap.String("filename", export.Filename),
		zap.Int("bytes", len(export.Data)),
	)
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	c.Data(http.StatusOK, export.ContentType, export.Data)
}
