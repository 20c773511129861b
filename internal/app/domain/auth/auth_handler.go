package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/specsinspector/webapp/internal/app/domain"
	"github.com/specsinspector/webapp/internal/app/gateway"
	"github.com/specsinspector/webapp/internal/app/middleware"
	"github.com/specsinspector/webapp/internal/app/models"
	"github.com/specsinspector/webapp/internal/app/session"
	"github.com/specsinspector/webapp/internal/app/wizard"
)

const timeoutMessage = "The server took too long to respond. Please try again."

type AuthHandlers struct {
	*domain.BaseHandler
}

func NewAuthHandlers(base *domain.BaseHandler) *AuthHandlers {
	return &AuthHandlers{BaseHandler: base}
}

type loginPage struct {
	models.Page
	Email string
}

// ShowLogin renders the sign-in screen. Already signed-in visitors go
// straight to the dashboard.
func (h *AuthHandlers) ShowLogin(c *gin.Context) {
	if store := middleware.StoreFromContext(c); store != nil && store.Current() != nil {
		h.Redirect(c, "/dashboard")
		return
	}
	page := loginPage{Page: h.NewPage(c, "Sign In - Specs Inspector", "Sign In")}
	c.HTML(http.StatusOK, "login.html", page)
}

func (h *AuthHandlers) HandleLogin(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	page := loginPage{
		Page:  h.NewPage(c, "Sign In - Specs Inspector", "Sign In"),
		Email: email,
	}

	if email == "" || password == "" {
		h.Logger.Warn("Missing email or password")
		page.Error = "Email and password are required"
		c.HTML(http.StatusBadRequest, "login.html", page)
		return
	}

	store := middleware.StoreFromContext(c)
	user, err := store.Login(c.Request.Context(), email, password)
	if err != nil {
		status, msg := presentAuthFailure(err)
		h.Logger.Warn("Login rejected", zap.String("email", email), zap.String("reason", msg))
		if c.IsAborted() || c.Writer.Written() {
			return
		}
		page.Error = msg
		c.HTML(status, "login.html", page)
		return
	}

	h.Logger.Info("Successful login",
		zap.String("user_id", user.ID),
		zap.String("email", email),
	)
	h.Redirect(c, "/dashboard")
}

type registerPage struct {
	models.Page
	Machine wizard.Machine
	Step    int
	Plans   []models.PlanInfo
}

// ShowRegister renders the first step of the registration wizard.
func (h *AuthHandlers) ShowRegister(c *gin.Context) {
	if store := middleware.StoreFromContext(c); store != nil && store.Current() != nil {
		h.Redirect(c, "/dashboard")
		return
	}
	h.renderWizard(c, http.StatusOK, wizard.New())
}

// HandleRegister advances the wizard by one event. The whole draft
// round-trips through hidden form fields so no server-side wizard
// state is kept between requests.
func (h *AuthHandlers) HandleRegister(c *gin.Context) {
	m := machineFromForm(c)

	var ev wizard.Event
	switch c.PostForm("action") {
	case "back":
		ev = wizard.EventBack{}
	case "submit":
		ev = wizard.EventSubmit{}
	default:
		ev = wizard.EventNext{}
	}

	m, effects := m.Apply(ev)

	for _, effect := range effects {
		submit, ok := effect.(wizard.EffectSubmitRegistration)
		if !ok {
			continue
		}
		store := middleware.StoreFromContext(c)
		user, err := store.Register(c.Request.Context(), submit.Request)
		if err != nil {
			status, msg := presentAuthFailure(err)
			m, _ = m.Apply(wizard.EventSubmitFailed{Message: msg})
			h.Logger.Warn("Registration rejected",
				zap.String("email", submit.Request.Email),
				zap.String("reason", msg),
			)
			h.renderWizard(c, status, m)
			return
		}

		m, _ = m.Apply(wizard.EventSubmitSucceeded{})
		h.Logger.Info("Registration succeeded",
			zap.String("user_id", user.ID),
			zap.String("company", submit.Request.CompanyName),
			zap.String("plan", submit.Request.Plan),
		)
		h.Redirect(c, "/dashboard")
		return
	}

	status := http.StatusOK
	if m.Error != "" {
		status = http.StatusBadRequest
	}
	h.renderWizard(c, status, m)
}

// HandleLogout drops the session and returns to the sign-in screen.
// Safe to call when already signed out.
func (h *AuthHandlers) HandleLogout(c *gin.Context) {
	if store := middleware.StoreFromContext(c); store != nil {
		store.Logout()
	}
	h.Redirect(c, middleware.LoginPath)
}

func (h *AuthHandlers) renderWizard(c *gin.Context, status int, m wizard.Machine) {
	if c.IsAborted() || c.Writer.Written() {
		return
	}
	page := registerPage{
		Page:    h.NewPage(c, "Create your account - Specs Inspector", "Get Started"),
		Machine: m,
		Step:    m.State.Step(),
		Plans:   models.PlanCatalog,
	}
	page.Error = m.Error
	c.HTML(status, "register.html", page)
}

func machineFromForm(c *gin.Context) wizard.Machine {
	draft := wizard.Draft{
		CompanyName:     c.PostForm("company_name"),
		Email:           c.PostForm("email"),
		Password:        c.PostForm("password"),
		ConfirmPassword: c.PostForm("confirm_password"),
		FirstName:       c.PostForm("first_name"),
		LastName:        c.PostForm("last_name"),
		Plan:            c.PostForm("plan"),
	}
	if draft.Plan == "" {
		draft.Plan = string(models.DefaultPlan)
	}
	return wizard.Machine{State: wizard.ParseState(c.PostForm("state")), Draft: draft}
}

// presentAuthFailure maps a session error to the status and message the
// screen should show. Transport errors surface a generic retry message
// so server internals never leak to the page.
func presentAuthFailure(err error) (int, string) {
	var authErr *session.AuthenticationError
	if errors.As(err, &authErr) {
		return http.StatusUnauthorized, authErr.Message
	}
	var valErr *session.ValidationError
	if errors.As(err, &valErr) {
		return http.StatusBadRequest, valErr.Message
	}
	if gateway.IsTimeout(err) {
		return http.StatusGatewayTimeout, timeoutMessage
	}
	return http.StatusBadGateway, "Something went wrong. Please try again."
}
