package gateway

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/specsinspector/webapp/internal/app/models"
)

// One operation per backend resource-action pair. Each is a thin
// pass-through: method, path, optional body, decoded response.

// Login exchanges credentials for a token and user record.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterAccount creates a company account plus its first user.
func (c *Client) RegisterAccount(ctx context.Context, req models.RegistrationRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Companies

func (c *Client) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var out []models.Company
	if err := c.do(ctx, http.MethodGet, "/companies", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	var out models.Company
	if err := c.do(ctx, http.MethodGet, "/companies/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCompany(ctx context.Context, company models.Company) (*models.Company, error) {
	var out models.Company
	if err := c.do(ctx, http.MethodPost, "/companies", company, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCompany(ctx context.Context, id string, company models.Company) (*models.Company, error) {
	var out models.Company
	if err := c.do(ctx, http.MethodPut, "/companies/"+url.PathEscape(id), company, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCompany(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/companies/"+url.PathEscape(id), nil, nil)
}

// Users

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPost, "/users", user, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, user models.User) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), user, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}

// Subscriptions

func (c *Client) ListSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	var out []models.Subscription
	if err := c.do(ctx, http.MethodGet, "/subscriptions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	var out models.Subscription
	if err := c.do(ctx, http.MethodGet, "/subscriptions/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	var out models.Subscription
	if err := c.do(ctx, http.MethodPost, "/subscriptions", sub, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSubscription(ctx context.Context, id string, sub models.Subscription) (*models.Subscription, error) {
	var out models.Subscription
	if err := c.do(ctx, http.MethodPut, "/subscriptions/"+url.PathEscape(id), sub, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSubscription(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/subscriptions/"+url.PathEscape(id), nil, nil)
}

func (c *Client) CancelSubscription(ctx context.Context, id, reason string) (*models.Subscription, error) {
	body := map[string]string{"reason": reason}
	var out models.Subscription
	if err := c.do(ctx, http.MethodPost, "/subscriptions/"+url.PathEscape(id)+"/cancel", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RenewSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	var out models.Subscription
	if err := c.do(ctx, http.MethodPost, "/subscriptions/"+url.PathEscape(id)+"/renew", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Audit logs

func (c *Client) ListAuditLogs(ctx context.Context) ([]models.AuditLog, error) {
	var out []models.AuditLog
	if err := c.do(ctx, http.MethodGet, "/audit", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetAuditLog(ctx context.Context, id string) (*models.AuditLog, error) {
	var out models.AuditLog
	if err := c.do(ctx, http.MethodGet, "/audit/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Export is a downloaded audit archive.
type Export struct {
	Data        []byte
	ContentType string
	Filename    string
}

// ExportAuditLogs fetches the audit trail as a file. Unlike the JSON
// operations the response body is passed through untouched.
func (c *Client) ExportAuditLogs(ctx context.Context) (*Export, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/audit/export", nil)
	if err != nil {
		return nil, errors.Wrap(err, "gateway: build request")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if IsTimeout(err) {
			return nil, &TimeoutError{Op: "GET /audit/export", Err: err}
		}
		return nil, errors.Wrap(err, "gateway: GET /audit/export")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "gateway: read export")
	}
	if resp.StatusCode == http.StatusUnauthorized && c.Token() != "" {
		c.fireUnauthorized()
	}
	if resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp.StatusCode, raw)
	}

	export := &Export{
		Data:        raw,
		ContentType: resp.Header.Get("Content-Type"),
		Filename:    exportFilename(resp.Header.Get("Content-Disposition")),
	}
	if export.ContentType == "" {
		export.ContentType = "application/octet-stream"
	}
	if export.Filename == "" {
		export.Filename = "audit-export-" + time.Now().UTC().Format("20060102") + ".csv"
	}
	return export, nil
}

func exportFilename(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
