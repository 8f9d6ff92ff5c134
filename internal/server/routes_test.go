package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"smarthire/internal/config"
	"smarthire/internal/middlewares"
	"smarthire/internal/models"
	"smarthire/internal/services"
	"smarthire/internal/utils"
)

type mockDBService struct {
	status string
}

func (m *mockDBService) Health() map[string]string {
	return map[string]string{"status": m.status, "message": "mock"}
}

func (m *mockDBService) Client() *mongo.Client       { return nil }
func (m *mockDBService) Database() *mongo.Database   { return nil }
func (m *mockDBService) Close(context.Context) error { return nil }

// stubAuthService answers Login and Me; the other flows are covered by the
// handler and service tests.
type stubAuthService struct {
	services.AuthService
	jwt  *utils.JWTManager
	user *models.User
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (string, error) {
	if email != s.user.Email || password != "secret123" {
		return "", services.ErrInvalidCredentials
	}
	return s.jwt.Generate(s.user.ID.Hex())
}

func (s *stubAuthService) Me(_ context.Context, userID string) (*models.User, error) {
	if userID != s.user.ID.Hex() {
		return nil, services.ErrUserNotFound
	}
	return s.user, nil
}

func newTestServer(t *testing.T, dbStatus string) *Server {
	t.Helper()
	jwt, err := utils.NewJWTManager("test-secret", "HS256", time.Hour)
	require.NoError(t, err)

	cfg := &config.Config{
		AllowedOrigins: []string{"http://localhost:5173"},
		MaxUploadBytes: 1 << 20,
		LogLevel:       "info",
	}
	user := &models.User{ID: primitive.NewObjectID(), Name: "Asha", Email: "asha@example.com", IsEmailVerified: true}

	return &Server{
		cfg:             cfg,
		db:              &mockDBService{status: dbStatus},
		jwt:             jwt,
		rateLimiter:     middlewares.NewRateLimiter(1000, 1000),
		authService:     &stubAuthService{jwt: jwt, user: user},
		matchService:    services.NewMatchService(),
		questionService: services.NewQuestionService(nil, ""),
	}
}

func do(t *testing.T, h http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHelloAndHealth(t *testing.T) {
	h := newTestServer(t, "up").RegisterRoutes()

	rr := do(t, h, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "SmartHire")

	rr = do(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	down := newTestServer(t, "down").RegisterRoutes()
	rr = do(t, down, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, "up").RegisterRoutes()
	do(t, h, http.MethodGet, "/", "", nil)

	rr := do(t, h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "http_requests_total")
}

func TestLoginThenMe(t *testing.T) {
	h := newTestServer(t, "up").RegisterRoutes()

	rr := do(t, h, http.MethodPost, "/auth/login", `{"email":"asha@example.com","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, h, http.MethodPost, "/auth/login", `{"email":"asha@example.com","password":"secret123"}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var tok models.TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tok))
	assert.Equal(t, "bearer", tok.TokenType)

	rr = do(t, h, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, h, http.MethodGet, "/auth/me", "", map[string]string{"Authorization": "Bearer " + tok.AccessToken})
	require.Equal(t, http.StatusOK, rr.Code)

	var user map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	assert.Equal(t, "asha@example.com", user["email"])
	assert.NotContains(t, user, "password_hash")
}

func TestMatchJobRoute(t *testing.T) {
	h := newTestServer(t, "up").RegisterRoutes()

	rr := do(t, h, http.MethodPost, "/ai/match-job",
		`{"resume_text":"python django go","job_description":"python django java"}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var res models.MatchResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, models.TierModerate, res.Tier)
	assert.Equal(t, []string{"java"}, res.MissingKeywords)
}

func TestInterviewQuestionsWithoutProvider(t *testing.T) {
	h := newTestServer(t, "up").RegisterRoutes()

	rr := do(t, h, http.MethodPost, "/ai/interview-questions",
		`{"resume_text":"go developer","job_description":"backend engineer"}`, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), `"detail"`)
}

func TestCorsPreflight(t *testing.T) {
	h := newTestServer(t, "up").RegisterRoutes()

	rr := do(t, h, http.MethodOptions, "/auth/login", "", map[string]string{
		"Origin":                        "http://localhost:5173",
		"Access-Control-Request-Method": "POST",
	})
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRouteStillPassesMiddlewares(t *testing.T) {
	h := newTestServer(t, "up").RegisterRoutes()

	rr := do(t, h, http.MethodGet, "/bookmarks", "", map[string]string{"Origin": "http://localhost:5173"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
}

func forwardedStatuses(h http.Handler, n int) []int {
	statuses := make([]int, 0, n)
	for i := 0; i < n; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.7:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i+1))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		statuses = append(statuses, rr.Code)
	}
	return statuses
}

func TestRateLimitIgnoresForwardedForByDefault(t *testing.T) {
	s := newTestServer(t, "up")
	s.rateLimiter = middlewares.NewRateLimiter(1, 2)

	statuses := forwardedStatuses(s.RegisterRoutes(), 5)
	assert.Equal(t, []int{200, 200, 429, 429, 429}, statuses)
}

func TestRateLimitUsesForwardedForBehindTrustedProxy(t *testing.T) {
	s := newTestServer(t, "up")
	s.cfg.TrustProxyHeaders = true
	s.rateLimiter = middlewares.NewRateLimiter(1, 2)

	statuses := forwardedStatuses(s.RegisterRoutes(), 5)
	assert.Equal(t, []int{200, 200, 200, 200, 200}, statuses)
}

func TestUnknownRouteIsRateLimited(t *testing.T) {
	s := newTestServer(t, "up")
	s.rateLimiter = middlewares.NewRateLimiter(1, 1)
	h := s.RegisterRoutes()

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/nope", "", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodGet, "/nope", "", nil).Code)
}
