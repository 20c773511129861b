package session

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/specsinspector/webapp/internal/app/gateway"
	"github.com/specsinspector/webapp/internal/app/models"
	"github.com/specsinspector/webapp/internal/observability/metrics"
)

// Gateway is what the store needs from the HTTP gateway: the two auth
// endpoints plus control over the default bearer credential.
type Gateway interface {
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	RegisterAccount(ctx context.Context, req models.RegistrationRequest) (*models.AuthResponse, error)
	SetToken(tok string)
	ClearToken()
}

// Store is the single source of truth for "who is logged in". Token and
// user are adopted and dropped together; mutations update the gateway's
// default header synchronously in the same call, so no outgoing request
// is ever dispatched with a header older than the latest mutation.
type Store struct {
	mu      sync.Mutex
	kv      Persistence
	api     Gateway
	logger  *zap.Logger
	current *models.Session
}

// NewStore builds a store over the given persistence and gateway.
// Call Restore before first use.
func NewStore(kv Persistence, api Gateway, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, api: api, logger: logger}
}

// Restore runs once at startup: it reads the persisted token and user
// and adopts them as the live session when both are present and
// structurally valid. A missing half, unparseable user JSON or an
// already-expired token wipes the persisted remnants so no
// half-authenticated state is ever exposed.
func (s *Store) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, haveToken := s.kv.Get(TokenKey)
	rawUser, haveUser := s.kv.Get(UserKey)
	if !haveToken && !haveUser {
		s.current = nil
		s.api.ClearToken()
		return
	}
	if !haveToken || !haveUser || token == "" {
		s.wipeLocked()
		return
	}

	var user models.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil || user.ID == "" || user.Email == "" {
		s.logger.Warn("Corrupt persisted session, resetting to logged out")
		s.wipeLocked()
		return
	}
	if tokenExpired(token) {
		s.logger.Info("Persisted token expired, resetting to logged out",
			zap.String("user_id", user.ID))
		s.wipeLocked()
		return
	}

	s.current = &models.Session{Token: token, User: user}
	s.api.SetToken(token)
	metrics.Get().SessionRestoresTotal.Add(context.Background(), 1)
}

// Current is a synchronous read of the in-memory state; it never blocks
// and never touches the network. Returns nil when logged out.
func (s *Store) Current() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	user := s.current.User
	return &user
}

// Token returns the live bearer credential, or "".
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Login authenticates against the platform API. On success the token and
// user are adopted and persisted atomically and the gateway header is
// updated before Login returns. On failure any prior session is left
// untouched.
func (s *Store) Login(ctx context.Context, email, password string) (*models.User, error) {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, asAuthError(err, "Invalid email or password")
	}
	if resp.Token == "" || resp.User.ID == "" {
		return nil, &AuthenticationError{Message: "Login failed. Please try again."}
	}

	s.adopt(resp.Token, resp.User)
	s.logger.Info("Login successful", zap.String("user_id", resp.User.ID))
	user := resp.User
	return &user, nil
}

// Register submits the full registration payload. Field-level server
// rejections surface as *ValidationError, anything else as
// *AuthenticationError; the success path is identical to Login.
func (s *Store) Register(ctx context.Context, req models.RegistrationRequest) (*models.User, error) {
	resp, err := s.api.RegisterAccount(ctx, req)
	if err != nil {
		return nil, asRegistrationError(err)
	}
	if resp.Token == "" || resp.User.ID == "" {
		return nil, &AuthenticationError{Message: "Registration failed. Please try again."}
	}

	s.adopt(resp.Token, resp.User)
	s.logger.Info("Registration successful",
		zap.String("user_id", resp.User.ID),
		zap.String("plan", req.Plan))
	user := resp.User
	return &user, nil
}

// Logout clears the live session, both persisted entries and the gateway
// header. Idempotent, no network side effect.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wipeLocked()
}

func (s *Store) adopt(token string, user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(user)
	if err != nil {
		// User records are plain data; this cannot realistically fail.
		s.logger.Error("Failed to serialize user", zap.Error(err))
		s.wipeLocked()
		return
	}
	s.current = &models.Session{Token: token, User: user}
	s.kv.Set(TokenKey, token)
	s.kv.Set(UserKey, string(raw))
	s.api.SetToken(token)
}

func (s *Store) wipeLocked() {
	s.current = nil
	s.kv.Remove(TokenKey)
	s.kv.Remove(UserKey)
	s.api.ClearToken()
}

// tokenExpired peeks at the token's exp claim without verifying the
// signature (the signing key lives on the backend). Opaque non-JWT
// tokens pass through; the server remains the authority via 401.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

func asAuthError(err error, fallback string) error {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		// A message equal to the bare status text means the server sent no
		// body worth showing.
		if msg == "" || msg == http.StatusText(apiErr.StatusCode) || apiErr.StatusCode >= 500 {
			msg = fallback
		}
		return &AuthenticationError{Message: msg}
	}
	// Timeouts and transport failures propagate unchanged; the caller
	// decides how to present them.
	return err
}

func asRegistrationError(err error) error {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		if len(apiErr.Details) > 0 ||
			apiErr.StatusCode == http.StatusBadRequest ||
			apiErr.StatusCode == http.StatusUnprocessableEntity {
			msg := apiErr.Message
			if msg == "" {
				msg = "Please correct the highlighted fields"
			}
			return &ValidationError{Message: msg, Fields: apiErr.Details}
		}
		return asAuthError(err, "Registration failed. Please try again.")
	}
	return err
}
