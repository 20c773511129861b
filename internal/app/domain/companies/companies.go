package companies

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/specsinspector/webapp/internal/app/domain"
	"github.com/specsinspector/webapp/internal/app/middleware"
	"github.com/specsinspector/webapp/internal/app/models"
)

type CompanyHandlers struct {
	*domain.BaseHandler
}

func NewCompanyHandlers(base *domain.BaseHandler) *CompanyHandlers {
	return &CompanyHandlers{BaseHandler: base}
}

type listPage struct {
	models.Page
	Companies []models.Company
}

type formPage struct {
	models.Page
	Company models.Company
	IsNew   bool
	Plans   []models.PlanInfo
}

func (h *CompanyHandlers) ListCompanies(c *gin.Context) {
	api := middleware.GatewayFromContext(c)
	companies, err := api.ListCompanies(c.Request.Context())
	if err != nil {
		h.RenderGatewayError(c, err)
		return
	}

	page := listPage{
		Page:      h.NewPage(c, "Companies - Specs Inspector", "Companies"),
		Companies: companies,
	}
	c.HTML(http.StatusOK, "companies_list.html", page)
}

func (h *CompanyHandlers) ShowNewCompany(c *gin.Context) {
	page := formPage{
		Page:    h.NewPage(c, "New Company - Specs Inspector", "Companies"),
		Company: models.Company{Plan: string(models.DefaultPlan), Status: "active"},
		IsNew:   true,
		Plans:   models.PlanCatalog,
	}
	c.HTML(http.StatusOK, "companies_form.html", page)
}

func (h *CompanyHandlers) CreateCompany(c *gin.Context) {
	company := companyFromForm(c)
	if company.Name == "" {
		h.renderForm(c, http.StatusBadRequest, company, true, "Company name is required")
		return
	}

	api := middleware.GatewayFromContext(c)
	created, err := api.CreateCompany(c.Request.Context(), company)
	if err != nil {
		h.Logger.Warn("Company create rejected", zap.Error(err))
		h.RenderGatewayError(c, err)
		return
	}

	h.Logger.Info("Company created", zap.String("company_id", created.ID))
	h.Redirect(c, "/companies")
}

func (h *CompanyHandlers) ShowEditCompany(c *gin.Context) {
	api := middleware.GatewayFromContext(c)
	company, err := api.GetCompany(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RenderGatewayError(c, err)
		return
	}

	h.renderForm(c, http.StatusOK, *company, false, "")
}

func (h *CompanyHandlers) UpdateCompany(c *gin.Context) {
	id := c.Param("id")
	company := companyFromForm(c)
	company.ID = id
	if company.Name == "" {
		h.renderForm(c, http.StatusBadRequest, company, false, "Company name is required")
		return
	}

	api := middleware.GatewayFromContext(c)
	if _, err := api.UpdateCompany(c.Request.Context(), id, company); err != nil {
		h.Logger.Warn("Company update rejected", zap.String("company_id", id), zap.Error(err))
		h.RenderGatewayError(c, err)
		return
	}

	h.Logger.Info("Company updated", zap.String("company_id", id))
	h.Redirect(c, "/companies")
}

func (h *CompanyHandlers) DeleteCompany(c *gin.Context) {
	id := c.Param("id")
	api := middleware.GatewayFromContext(c)
	if err := api.DeleteCompany(c.Request.Context(), id); err != nil {
		h.RenderGatewayError(c, err)
		return
	}

	h.Logger.Info("Company deleted", zap.String("company_id", id))
	h.Redirect(c, "/companies")
}

func (h *CompanyHandlers) renderForm(c *gin.Context, status int, company models.Company, isNew bool, errMsg string) {
	title := "Edit Company - Specs Inspector"
	if isNew {
		title = "New Company - Specs Inspector"
	}
	page := formPage{
		Page:    h.NewPage(c, title, "Companies"),
		Company: company,
		IsNew:   isNew,
		Plans:   models.PlanCatalog,
	}
	page.Error = errMsg
	c.HTML(status, "companies_form.html", page)
}

func companyFromForm(c *gin.Context) models.Company {
	return models.Company{
		Name:         c.PostForm("name"),
		Plan:         c.PostForm("plan"),
		Status:       c.PostForm("status"),
		ContactEmail: c.PostForm("contact_email"),
	}
}
