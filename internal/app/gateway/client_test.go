package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specsinspector/webapp/internal/app/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL})
}

func TestBearerHeaderLifecycle(t *testing.T) {
	var lastAuth atomic.Value
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		lastAuth.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	_, err := client.ListCompanies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", lastAuth.Load())

	client.SetToken("t1")
	_, err = client.ListCompanies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer t1", lastAuth.Load())

	client.ClearToken()
	_, err = client.ListCompanies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", lastAuth.Load())
}

func TestLoginDecodesAuthResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"t1","user":{"id":"u1","email":"a@b.c","firstName":"Dana","lastName":"Reyes"}}`))
	})

	resp, err := client.Login(context.Background(), "a@b.c", "supersafe1")
	require.NoError(t, err)
	assert.Equal(t, "t1", resp.Token)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, "Dana Reyes", resp.User.FullName())
}

func TestUnauthorizedHookFiresOncePerEpisode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	})
	client.SetToken("stale")

	var fired int32
	client.OnUnauthorized(func() { atomic.AddInt32(&fired, 1) })

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.ListUsers(context.Background())
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&fired))
	for _, err := range errs {
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Equal(t, "token expired", apiErr.Message)
	}
}

func TestUnauthorizedWithoutTokenDoesNotFireHook(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid email or password"}`))
	})

	var fired int32
	client.OnUnauthorized(func() { atomic.AddInt32(&fired, 1) })

	_, err := client.Login(context.Background(), "a@b.c", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Zero(t, atomic.LoadInt32(&fired))
}

func TestTimeoutBecomesTimeoutError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	client := New(Config{
		BaseURL:    srv.URL,
		HTTPClient: &http.Client{Timeout: 20 * time.Millisecond},
	})

	_, err := client.ListCompanies(context.Background())
	require.Error(t, err)
	var timeoutErr *TimeoutError
	assert.True(t, errors.As(err, &timeoutErr))
	assert.True(t, IsTimeout(err))
}

func TestValidationErrorDecoding(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Email already registered","errors":{"email":"already taken"}}`))
	})

	_, err := client.RegisterAccount(context.Background(), models.RegistrationRequest{Email: "a@b.c"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "Email already registered", apiErr.Message)
	assert.Equal(t, "already taken", apiErr.Details["email"])
}

func TestAPIErrorFallsBackToStatusText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`not json`))
	})

	_, err := client.ListAuditLogs(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "Internal Server Error", apiErr.Message)
}

func TestExportAuditLogs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audit/export", r.URL.Path)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="audit.csv"`)
		w.Write([]byte("id,action\n1,login\n"))
	})
	client.SetToken("t1")

	export, err := client.ExportAuditLogs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "text/csv", export.ContentType)
	assert.Equal(t, "audit.csv", export.Filename)
	assert.Equal(t, "id,action\n1,login\n", string(export.Data))
}

func TestExportAuditLogsFallbackFilename(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("raw"))
	})

	export, err := client.ExportAuditLogs(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, export.ContentType)
	assert.Contains(t, export.Filename, "audit-export-")
}
