package subscriptions

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/specsinspector/webapp/internal/app/domain"
	"github.com/specsinspector/webapp/internal/app/middleware"
	"github.com/specsinspector/webapp/internal/app/models"
)

type SubscriptionHandlers struct {
	*domain.BaseHandler
}

func NewSubscriptionHandlers(base *domain.BaseHandler) *SubscriptionHandlers {
	return &SubscriptionHandlers{BaseHandler: base}
}

type listPage struct {
	models.Page
	Subscriptions []models.Subscription
}

type formPage struct {
	models.Page
	Subscription models.Subscription
	IsNew        bool
	Plans        []models.PlanInfo
}

type cancelPage struct {
	models.Page
	Subscription models.Subscription
}

func (h *SubscriptionHandlers) ListSubscriptions(c *gin.Context) {
	api := middleware.GatewayFromContext(c)
	subs, err := api.ListSubscriptions(c.Request.Context())
	if err != nil {
		h.RenderGatewayError(c, err)
		return
	}

	page := listPage{
		Page:          h.NewPage(c, "Subscriptions - Specs Inspector", "Subscriptions"),
		Subscriptions: subs,
	}
	c.HTML(http.StatusOK, "subscriptions_list.html", page)
}

func (h *SubscriptionHandlers) ShowNewSubscription(c *gin.Context) {
	sub := models.Subscription{Plan: string(models.DefaultPlan), Status: "active"}
	h.renderForm(c, http.StatusOK, sub, true, "")
}

func (h *SubscriptionHandlers) CreateSubscription(c *gin.Context) {
	sub := subscriptionFromForm(c)
	if sub.CompanyID == "" {
		h.renderForm(c, http.StatusBadRequest, sub, true, "Company is required")
		return
	}
	if !models.ValidPlan(models.Plan(sub.Plan)) {
		h.renderForm(c, http.StatusBadRequest, sub, true, "Please select a plan")
		return
	}

	api := middleware.GatewayFromContext(c)
	created, err := api.CreateSubscription(c.Request.Context(), sub)
	if err != nil {
		h.Logger.Warn("Subscription create rejected", zap.Error(err))
		h.RenderGatewayError(c, err)
		return
	}

	h.Logger.Info("Subscription created",
		zap.String("subscription_id", created.ID),
		zap.String("plan", created.Plan),
	)
	h.Redirect(c, "/subscriptions")
}

func (h *SubscriptionHandlers) ShowEditSubscription(c *gin.Context) {
	api := middleware.GatewayFromContext(c)
	sub, err := api.GetSubscription(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RenderGatewayError(c, err)
		return
	}

	h.renderForm(c, http.StatusOK, *sub, false, "")
}

func (h *SubscriptionHandlers) UpdateSubscription(c *gin.Context) {
	id := c.Param("id")
	sub := subscriptionFromForm(c)
	sub.ID = id
	if !models.ValidPlan(models.Plan(sub.Plan)) {
		h.renderForm(c, http.StatusBadRequest, sub, false, "Please select a plan")
		return
	}

	api := middleware.GatewayFromContext(c)
	if _, err := api.UpdateSubscription(c.Request.Context(), id, sub); err != nil {
		h.Logger.Warn("Subscription update rejected", zap.String("subscription_id", id), zap.Error(err))
		h.RenderGatewayError(c, err)
		return
	}

	h.Logger.Info("Subscription updated", zap.String("subscription_id", id))
	h.Redirect(c, "/subscriptions")
}

// ShowCancelSubscription asks for the cancellation reason before
// anything irreversible happens.
func (h *SubscriptionHandlers) ShowCancelSubscription(c *gin.Context) {
	api := middleware.GatewayFromContext(c)
	sub, err := api.GetSubscription(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RenderGatewayError(c, err)
		return
	}

	page := cancelPage{
		Page:         h.NewPage(c, "Cancel Subscription - Specs Inspector", "Subscriptions"),
		Subscription: *sub,
	}
	c.HTML(http.StatusOK, "subscriptions_cancel.html", page)
}

func (h *SubscriptionHandlers) CancelSubscription(c *gin.Context) {
	id := c.Param("id")
	reason := c.PostForm("reason")

	api := middleware.GatewayFromContext(c)
	if _, err := api.CancelSubscription(c.Request.Context(), id, reason); err != nil {
		h.Logger.Warn("Subscription cancel rejected", zap.String("subscription_id", id), zap.Error(err))
		h.RenderGatewayError(c, err)
		return
	}

	h.Logger.Info("Subscription cancelled",
		zap.String("subscription_id", id),
		zap.String("reason", reason),
	)
	h.Redirect(c, "/subscriptions")
}

func (h *SubscriptionHandlers) RenewSubscription(c *gin.Context) {
	id := c.Param("id")

	api := middleware.GatewayFromContext(c)
	if _, err := api.RenewSubscription(c.Request.Context(), id); err != nil {
		h.Logger.Warn("Subscription renew rejected", zap.String("subscription_id", id), zap.Error(err))
		h.RenderGatewayError(c, err)
		return
	}

	h.Logger.Info("Subscription renewed", zap.String("subscription_id", id))
	h.Redirect(c, "/subscriptions")
}

func (h *SubscriptionHandlers) DeleteSubscription(c *gin.Context) {
	id := c.Param("id")

	api := middleware.GatewayFromContext(c)
	if err := api.DeleteSubscription(c.Request.Context(), id); err != nil {
		h.RenderGatewayError(c, err)
		return
	}

	h.Logger.Info("Subscription deleted", zap.String("subscription_id", id))
	h.Redirect(c, "/subscriptions")
}

func (h *SubscriptionHandlers) renderForm(c *gin.Context, status int, sub models.Subscription, isNew bool, errMsg string) {
	title := "Edit Subscription - Specs Inspector"
	if isNew {
		title = "New Subscription - Specs Inspector"
	}
	page := formPage{
		Page:         h.NewPage(c, title, "Subscriptions"),
		Subscription: sub,
		IsNew:        isNew,
		Plans:        models.PlanCatalog,
	}
	page.Error = errMsg
	c.HTML(status, "subscriptions_form.html", page)
}

func subscriptionFromForm(c *gin.Context) models.Subscription {
	return models.Subscription{
		CompanyID: c.PostForm("company_id"),
		Plan:      c.PostForm("plan"),
		Status:    c.PostForm("status"),
	}
}
