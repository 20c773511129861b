package session

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/specsinspector/webapp/internal/app/gateway"
	"github.com/specsinspector/webapp/internal/app/models"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockGateway) RegisterAccount(ctx context.Context, req models.RegistrationRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockGateway) SetToken(tok string) {
	m.Called(tok)
}

func (m *MockGateway) ClearToken() {
	m.Called()
}

func testUser() models.User {
	return models.User{ID: "u1", Email: "owner@volt.example", FirstName: "Dana", LastName: "Reyes"}
}

func persist(t *testing.T, kv Persistence, token string, user models.User) {
	t.Helper()
	raw, err := json.Marshal(user)
	require.NoError(t, err)
	kv.Set(TokenKey, token)
	kv.Set(UserKey, string(raw))
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func TestRestoreAdoptsPersistedSession(t *testing.T) {
	kv := NewMemoryPersistence()
	persist(t, kv, "t1", testUser())

	api := new(MockGateway)
	api.On("SetToken", "t1").Once()

	store := NewStore(kv, api, nil)
	store.Restore()

	current := store.Current()
	require.NotNil(t, current)
	assert.Equal(t, "u1", current.ID)
	assert.Equal(t, "t1", store.Token())
	api.AssertExpectations(t)
}

func TestRestoreWipesPartialState(t *testing.T) {
	tests := []struct {
		name  string
		setup func(kv Persistence)
	}{
		{
			name:  "token without user",
			setup: func(kv Persistence) { kv.Set(TokenKey, "t1") },
		},
		{
			name: "user without token",
			setup: func(kv Persistence) {
				raw, _ := json.Marshal(testUser())
				kv.Set(UserKey, string(raw))
			},
		},
		{
			name: "corrupt user payload",
			setup: func(kv Persistence) {
				kv.Set(TokenKey, "t1")
				kv.Set(UserKey, "{not json")
			},
		},
		{
			name: "user missing identity fields",
			setup: func(kv Persistence) {
				kv.Set(TokenKey, "t1")
				kv.Set(UserKey, `{"firstName":"Dana"}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := NewMemoryPersistence()
			tt.setup(kv)

			api := new(MockGateway)
			api.On("ClearToken").Return()

			store := NewStore(kv, api, nil)
			store.Restore()

			assert.Nil(t, store.Current())
			_, hasToken := kv.Get(TokenKey)
			_, hasUser := kv.Get(UserKey)
			assert.False(t, hasToken)
			assert.False(t, hasUser)
			api.AssertCalled(t, "ClearToken")
		})
	}
}

func TestRestoreWipesExpiredToken(t *testing.T) {
	kv := NewMemoryPersistence()
	persist(t, kv, signedToken(t, time.Now().Add(-time.Hour)), testUser())

	api := new(MockGateway)
	api.On("ClearToken").Return()

	store := NewStore(kv, api, nil)
	store.Restore()

	assert.Nil(t, store.Current())
	_, hasToken := kv.Get(TokenKey)
	assert.False(t, hasToken)
}

func TestRestoreAcceptsUnexpiredJWT(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	kv := NewMemoryPersistence()
	persist(t, kv, token, testUser())

	api := new(MockGateway)
	api.On("SetToken", token).Once()

	store := NewStore(kv, api, nil)
	store.Restore()

	require.NotNil(t, store.Current())
	api.AssertExpectations(t)
}

func TestRestoreAcceptsOpaqueToken(t *testing.T) {
	// Non-JWT tokens carry no readable expiry; the backend stays the
	// authority and rejects them with 401 if stale.
	kv := NewMemoryPersistence()
	persist(t, kv, "opaque-session-token", testUser())

	api := new(MockGateway)
	api.On("SetToken", "opaque-session-token").Once()

	store := NewStore(kv, api, nil)
	store.Restore()

	require.NotNil(t, store.Current())
	api.AssertExpectations(t)
}

func TestLoginSuccessAdoptsAndPersists(t *testing.T) {
	kv := NewMemoryPersistence()
	api := new(MockGateway)
	api.On("Login", mock.Anything, "owner@volt.example", "supersafe1").
		Return(&models.AuthResponse{Token: "t1", User: testUser()}, nil)
	api.On("SetToken", "t1").Once()

	store := NewStore(kv, api, nil)
	user, err := store.Login(context.Background(), "owner@volt.example", "supersafe1")

	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "u1", store.Current().ID)

	token, ok := kv.Get(TokenKey)
	require.True(t, ok)
	assert.Equal(t, "t1", token)
	rawUser, ok := kv.Get(UserKey)
	require.True(t, ok)
	var persisted models.User
	require.NoError(t, json.Unmarshal([]byte(rawUser), &persisted))
	assert.Equal(t, "u1", persisted.ID)
	api.AssertExpectations(t)
}

func TestLoginRejectionMapsToAuthenticationError(t *testing.T) {
	kv := NewMemoryPersistence()
	api := new(MockGateway)
	api.On("Login", mock.Anything, "owner@volt.example", "wrong").
		Return(nil, &gateway.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid email or password"})

	store := NewStore(kv, api, nil)
	user, err := store.Login(context.Background(), "owner@volt.example", "wrong")

	assert.Nil(t, user)
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid email or password", authErr.Message)
	assert.Nil(t, store.Current())
}

func TestLoginServerErrorUsesFallbackMessage(t *testing.T) {
	api := new(MockGateway)
	api.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &gateway.APIError{StatusCode: http.StatusInternalServerError, Message: "pq: connection refused"})

	store := NewStore(NewMemoryPersistence(), api, nil)
	_, err := store.Login(context.Background(), "a@b.c", "supersafe1")

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid email or password", authErr.Message)
}

func TestLoginTimeoutPropagatesUnchanged(t *testing.T) {
	timeout := &gateway.TimeoutError{Op: "POST /auth/login"}
	api := new(MockGateway)
	api.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(nil, timeout)

	store := NewStore(NewMemoryPersistence(), api, nil)
	_, err := store.Login(context.Background(), "a@b.c", "supersafe1")

	var timeoutErr *gateway.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
}

func TestLoginFailureLeavesExistingSessionIntact(t *testing.T) {
	kv := NewMemoryPersistence()
	persist(t, kv, "t1", testUser())

	api := new(MockGateway)
	api.On("SetToken", "t1").Once()
	api.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &gateway.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid email or password"})

	store := NewStore(kv, api, nil)
	store.Restore()

	_, err := store.Login(context.Background(), "other@volt.example", "wrong")
	require.Error(t, err)

	require.NotNil(t, store.Current())
	assert.Equal(t, "u1", store.Current().ID)
	token, _ := kv.Get(TokenKey)
	assert.Equal(t, "t1", token)
}

func TestRegisterValidationError(t *testing.T) {
	api := new(MockGateway)
	api.On("RegisterAccount", mock.Anything, mock.Anything).
		Return(nil, &gateway.APIError{
			StatusCode: http.StatusUnprocessableEntity,
			Message:    "Email already registered",
			Details:    map[string]string{"email": "already taken"},
		})

	store := NewStore(NewMemoryPersistence(), api, nil)
	_, err := store.Register(context.Background(), models.RegistrationRequest{Email: "a@b.c"})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "Email already registered", valErr.Message)
	assert.Equal(t, "already taken", valErr.Fields["email"])
}

func TestRegisterSuccessSignsIn(t *testing.T) {
	req := models.RegistrationRequest{
		CompanyName: "Volt Inspections LLC",
		Email:       "owner@volt.example",
		Password:    "supersafe1",
		FirstName:   "Dana",
		LastName:    "Reyes",
		Plan:        string(models.PlanProfessional),
	}

	kv := NewMemoryPersistence()
	api := new(MockGateway)
	api.On("RegisterAccount", mock.Anything, req).
		Return(&models.AuthResponse{Token: "t1", User: testUser()}, nil)
	api.On("SetToken", "t1").Once()

	store := NewStore(kv, api, nil)
	user, err := store.Register(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "u1", store.Current().ID)
	assert.Equal(t, "t1", store.Token())
	api.AssertExpectations(t)
}

func TestLogoutIsIdempotent(t *testing.T) {
	kv := NewMemoryPersistence()
	persist(t, kv, "t1", testUser())

	api := new(MockGateway)
	api.On("SetToken", "t1").Once()
	api.On("ClearToken").Return()

	store := NewStore(kv, api, nil)
	store.Restore()
	require.NotNil(t, store.Current())

	store.Logout()
	store.Logout()

	assert.Nil(t, store.Current())
	assert.Equal(t, "", store.Token())
	_, hasToken := kv.Get(TokenKey)
	_, hasUser := kv.Get(UserKey)
	assert.False(t, hasToken)
	assert.False(t, hasUser)
}
