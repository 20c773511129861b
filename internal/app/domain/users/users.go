package users

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/specsinspector/webapp/internal/app/domain"
	"github.com/specsinspector/webapp/internal/app/middleware"
	"github.com/specsinspector/webapp/internal/app/models"
)

// Roles accepted by the user form, in display order.
var roles = []string{"admin", "manager", "inspector", "viewer"}

type UserHandlers struct {
	*domain.BaseHandler
}

func NewUserHandlers(base *domain.BaseHandler) *UserHandlers {
	return &UserHandlers{BaseHandler: base}
}

type listPage struct {
	models.Page
	Users []models.User
}

type formPage struct {
	models.Page
	FormUser models.User
	IsNew    bool
	Roles    []string
}

func (h *UserHandlers) ListUsers(c *gin.Context) {
	api := middleware.GatewayFromContext(c)
	users, err := api.ListUsers(c.Request.Context())
	if err != nil {
		h.RenderGatewayError(c, err)
		return
	}

	page := listPage{
		Page:  h.NewPage(c, "Users - Specs Inspector", "Users"),
		Users: users,
	}
	c.HTML(http.StatusOK, "users_list.html", page)
}

func (h *UserHandlers) ShowNewUser(c *gin.Context) {
	h.renderForm(c, http.StatusOK, models.User{Role: "inspector"}, true, "")
}

func (h *UserHandlers) CreateUser(c *gin.Context) {
	user := userFromForm(c)
	if user.Email == "" || user.FirstName == "" || user.LastName == "" {
		h.renderForm(c, http.StatusBadRequest, user, true, "Please fill in all fields")
		return
	}

	api := middleware.GatewayFromContext(c)
	created, err := api.CreateUser(c.Request.Context(), user)
	if err != nil {
		h.Logger.Warn("User create rejected", zap.String("email", user.Email), zap.Error(err))
		h.RenderGatewayError(c, err)
		return
	}

	h.Logger.Info("User created", zap.String("user_id", created.ID))
	h.Redirect(c, "/users")
}

func (h *UserHandlers) ShowEditUser(c *gin.Context) {
	api := middleware.GatewayFromContext(c)
	user, err := api.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RenderGatewayError(c, err)
		return
	}

	h.renderForm(c, http.StatusOK, *user, false, "")
}

func (h *UserHandlers) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	user := userFromForm(c)
	user.ID = id
	if user.Email == "" || user.FirstName == "" || user.LastName == "" {
		h.renderForm(c, http.StatusBadRequest, user, false, "Please fill in all fields")
		return
	}

	api := middleware.GatewayFromContext(c)
	if _, err := api.UpdateUser(c.Request.Context(), id, user); err != nil {
		h.Logger.Warn("User update rejected", zap.String("user_id", id), zap.Error(err))
		h.RenderGatewayError(c, err)
		return
	}

	h.Logger.Info("User updated", zap.String("user_id", id))
	h.Redirect(c, "/users")
}

func (h *UserHandlers) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	// Deleting your own account would orphan the session mid-request.
	if current := middleware.GetUserFromContext(c); current != nil && current.ID == id {
		h.RenderError(c, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	api := middleware.GatewayFromContext(c)
	if err := api.DeleteUser(c.Request.Context(), id); err != nil {
		h.RenderGatewayError(c, err)
		return
	}

	h.Logger.Info("User deleted", zap.String("user_id", id))
	h.Redirect(c, "/users")
}

func (h *UserHandlers) renderForm(c *gin.Context, status int, user models.User, isNew bool, errMsg string) {
	title := "Edit User - Specs Inspector"
	if isNew {
		title = "New User - Specs Inspector"
	}
	page := formPage{
		Page:     h.NewPage(c, title, "Users"),
		FormUser: user,
		IsNew:    isNew,
		Roles:    roles,
	}
	page.Error = errMsg
	c.HTML(status, "users_form.html", page)
}

func userFromForm(c *gin.Context) models.User {
	return models.User{
		Email:     c.PostForm("email"),
		FirstName: c.PostForm("first_name"),
		LastName:  c.PostForm("last_name"),
		Role:      c.PostForm("role"),
		CompanyID: c.PostForm("company_id"),
	}
}
