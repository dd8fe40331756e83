package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/eaglezone/eaglezone-bot/internal/api"
	"github.com/eaglezone/eaglezone-bot/internal/api/apierr"
	"github.com/eaglezone/eaglezone-bot/internal/api/response"
	"github.com/eaglezone/eaglezone-bot/internal/factory"
	"github.com/eaglezone/eaglezone-bot/internal/model"
	"github.com/eaglezone/eaglezone-bot/internal/testutil"
)

const adminToken = "s3cret-admin"

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T, withAdmin bool) *testServer {
	t.Helper()

	app := factory.NewTestApp()

	var hash string
	if withAdmin {
		b, err := bcrypt.GenerateFromPassword([]byte(adminToken), bcrypt.MinCost)
		require.NoError(t, err)
		hash = string(b)
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:            testutil.NopLogger(),
		Storage:           app.Storage,
		OnboardingService: app.OnboardingService,
		AdminTokenHash:    hash,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp.Error
}

func TestLiveness(t *testing.T) {
	ts := newTestServer(t, false)

	rr := ts.request(http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, api.LivenessText, rr.Body.String())
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t, false)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.Health
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestAdminRoutesAbsentWithoutHash(t *testing.T) {
	ts := newTestServer(t, false)

	rr := ts.request(http.MethodGet, "/api/v1/players/1", nil, adminToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.request(http.MethodGet, "/api/v1/players/1", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeUnauthorized, decodeError(t, rr).Code)

	rr = ts.request(http.MethodGet, "/api/v1/players/1", nil, "wrong")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetPlayerNotFound(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.request(http.MethodGet, "/api/v1/players/404", nil, adminToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodePlayerNotFound, decodeError(t, rr).Code)
}

func TestGetPlayerInvalidID(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.request(http.MethodGet, "/api/v1/players/bad!id", nil, adminToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidPlayer, decodeError(t, rr).Code)
}

func TestStartCreatesAndCreditsReferrer(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.request(http.MethodPost, "/api/v1/players/100/start", map[string]string{"first_name": "Ann"}, adminToken)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/players/200/start", map[string]string{
		"first_name":     "Bob",
		"referral_token": "ref_100",
	}, adminToken)
	require.Equal(t, http.StatusCreated, rr.Code)

	var start response.StartResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&start))
	assert.True(t, start.Created)
	assert.Equal(t, "100", start.Player.ReferredBy)
	require.NotNil(t, start.Credit)
	assert.Equal(t, int64(500), start.Credit.Amount)

	rr = ts.request(http.MethodGet, "/api/v1/players/100", nil, adminToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var referrer response.Player
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&referrer))
	assert.Equal(t, int64(500), referrer.TokenBalance)
	assert.Equal(t, 1, referrer.TotalReferrals)
	assert.Equal(t, []string{"200"}, referrer.Friends)

	assert.Len(t, ts.app.MockMessenger.SentTo("100"), 2)
}

func TestStartReturningPlayer(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.request(http.MethodPost, "/api/v1/players/100/start", nil, adminToken)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/players/100/start", nil, adminToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var start response.StartResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&start))
	assert.False(t, start.Created)
	assert.Nil(t, start.Credit)
}

func TestStartRejectsMalformedBody(t *testing.T) {
	ts := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/players/100/start", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)

	_, err := ts.app.Storage.GetPlayer(t.Context(), "100")
	assert.ErrorIs(t, err, model.ErrPlayerNotFound)
}

func TestServerRunStopsOnCancel(t *testing.T) {
	cfg := api.DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	server := api.NewServer(http.NotFoundHandler(), cfg, testutil.NopLogger())

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
