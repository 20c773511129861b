package models

import "time"

// User is the identity record returned by the platform API.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CompanyID string    `json:"companyId"`
	Role      string    `json:"role"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// FullName joins the name fields for display.
func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Session pairs the bearer token with the user it authenticates.
// Token and User are always both set or both absent; partial state is
// never persisted.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// AuthResponse is the body returned by the login and register endpoints.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegistrationRequest is the payload sent to POST /auth/register.
type RegistrationRequest struct {
	CompanyName string `json:"companyName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Plan        string `json:"plan"`
}

// Company is an inspection company account.
type Company struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Plan         string    `json:"plan"`
	Status       string    `json:"status"`
	ContactEmail string    `json:"contactEmail,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

// Subscription is a company's billing subscription.
type Subscription struct {
	ID               string     `json:"id"`
	CompanyID        string     `json:"companyId"`
	Plan             string     `json:"plan"`
	Status           string     `json:"status"`
	StartedAt        time.Time  `json:"startedAt,omitempty"`
	CurrentPeriodEnd *time.Time `json:"currentPeriodEnd,omitempty"`
	CancelReason     string     `json:"cancelReason,omitempty"`
}

// AuditLog is a single entry from the platform audit trail.
type AuditLog struct {
	ID         string         `json:"id"`
	ActorID    string         `json:"actorId"`
	ActorEmail string         `json:"actorEmail,omitempty"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	ResourceID string         `json:"resourceId,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	Details    map[string]any `json:"details,omitempty"`
}

// DashboardStats aggregates the counts shown on the dashboard cards.
type DashboardStats struct {
	Companies     int
	Users         int
	Subscriptions int
	RecentAudit   []AuditLog
}
