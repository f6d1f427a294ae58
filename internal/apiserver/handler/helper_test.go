package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/amoylab/assocmanager/internal/apiserver/database"
	"github.com/amoylab/assocmanager/internal/apiserver/provision"
	"github.com/amoylab/assocmanager/internal/auth/jwt"
	"github.com/amoylab/assocmanager/internal/auth/password"
	"github.com/amoylab/assocmanager/internal/common/cnst"
	"github.com/amoylab/assocmanager/internal/common/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "this-is-a-very-long-secret-key-for-testing"

func init() {
	password.Cost = bcrypt.MinCost
}

type testServer struct {
	router   *gin.Engine
	registry *database.Registry
	platform *database.PlatformStore
	def      *database.TenantStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	ctx := context.Background()

	def, err := database.CreateTenant(filepath.Join(dir, "assocmanager.db"))
	require.NoError(t, err)
	_, err = provision.InitTenant(ctx, def)
	require.NoError(t, err)
	registry := database.NewRegistry(dir, "assocmanager.db", def)

	platform, err := database.NewPlatformStore(&config.DatabaseConfig{Type: "sqlite", DBName: filepath.Join(dir, "platform.db")})
	require.NoError(t, err)
	_, err = provision.InitPlatform(ctx, platform, "assocmanager.db")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = registry.Close()
		_ = platform.Close()
	})

	svc, err := jwt.NewService(jwt.Config{SecretKey: testSecret, TenantDuration: time.Hour, PlatformDuration: time.Hour})
	require.NoError(t, err)

	logger := zap.NewNop()
	h := New(platform, registry, svc, provision.New(platform, registry, logger), nil, logger)
	router := NewRouter(h, RouterConfig{AllowOrigins: []string{"*"}})
	return &testServer{router: router, registry: registry, platform: platform, def: def}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	return s.serve(t, newRequest(t, method, path, body, token))
}

func (s *testServer) doLang(t *testing.T, method, path string, body any, lang string) *httptest.ResponseRecorder {
	t.Helper()
	req := newRequest(t, method, path, body, "")
	req.Header.Set(cnst.XLang, lang)
	return s.serve(t, req)
}

func (s *testServer) serve(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func newRequest(t *testing.T, method, path string, body any, token string) *http.Request {
	t.Helper()
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// login authenticates on the default tenant and returns the token
func (s *testServer) login(t *testing.T, identifier, pass string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/login", gin.H{"identifier": identifier, "password": pass}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[map[string]any](t, w)["token"].(string)
}

func (s *testServer) adminToken(t *testing.T) string {
	return s.login(t, provision.DefaultAdminEmail, provision.DefaultAdminPassword)
}

// createMember creates a member through the API and returns the response body
func (s *testServer) createMember(t *testing.T, token, name, phone string) map[string]any {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/members", gin.H{"name": name, "customFieldValue": "A1", "phone": phone}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[map[string]any](t, w)
}

// createYear opens a year through the API and returns its id
func (s *testServer) createYear(t *testing.T, token string, year int, amount float64, active bool) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/years", gin.H{"year": year, "monthlyAmount": amount, "active": active}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[map[string]any](t, w)["id"].(string)
}
