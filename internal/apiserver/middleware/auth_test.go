package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/amoylab/assocmanager/internal/apiserver/database"
	"github.com/amoylab/assocmanager/internal/auth/jwt"
	"github.com/amoylab/assocmanager/internal/common/cnst"
	"github.com/amoylab/assocmanager/internal/common/config"
	"github.com/amoylab/assocmanager/internal/i18n"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "this-is-a-very-long-secret-key-for-testing"

type env struct {
	jwt      *jwt.Service
	registry *database.Registry
	platform *database.PlatformStore
	tenant   *database.TenantStore
	router   *gin.Engine
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	svc, err := jwt.NewService(jwt.Config{SecretKey: testSecret, TenantDuration: time.Hour, PlatformDuration: time.Hour})
	require.NoError(t, err)

	def, err := database.CreateTenant(filepath.Join(dir, "default.db"))
	require.NoError(t, err)
	registry := database.NewRegistry(dir, "default.db", def)

	tenant, err := database.CreateTenant(filepath.Join(dir, "assoc_a.db"))
	require.NoError(t, err)
	require.NoError(t, tenant.Close())

	platform, err := database.NewPlatformStore(&config.DatabaseConfig{Type: "sqlite", DBName: filepath.Join(dir, "platform.db")})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = registry.Close()
		_ = platform.Close()
	})

	store, err := registry.Resolve("assoc_a.db")
	require.NoError(t, err)

	r := gin.New()
	r.Use(i18n.Middleware())
	tenantGroup := r.Group("/t", TenantResolver(svc, platform, registry, zap.NewNop()))
	tenantGroup.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUser(c).ID, "tenant": TenantID(c), "association": AssociationID(c)})
	})
	tenantGroup.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/p/me", PlatformResolver(svc, platform, zap.NewNop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": SuperAdmin(c).ID})
	})

	return &env{jwt: svc, registry: registry, platform: platform, tenant: store, router: r}
}

func (e *env) do(t *testing.T, path, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func createUser(t *testing.T, s *database.TenantStore, email string, role cnst.Role, active bool) *database.User {
	t.Helper()
	u := &database.User{Email: email, PasswordHash: "x", Role: role, Active: active}
	require.NoError(t, s.Users().Create(context.Background(), u))
	return u
}

func TestTenantResolver_MissingToken(t *testing.T) {
	e := newEnv(t)
	w, body := e.do(t, "/t/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token manquant", body["error"])
}

func TestTenantResolver_InvalidToken(t *testing.T) {
	e := newEnv(t)
	w, body := e.do(t, "/t/me", "garbage")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Token invalide", body["error"])

	req := httptest.NewRequest(http.MethodGet, "/t/me", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTenantResolver_RejectsPlatformToken(t *testing.T) {
	e := newEnv(t)
	tok, err := e.jwt.GeneratePlatformToken("sa", "sa@platform.local")
	require.NoError(t, err)

	w, _ := e.do(t, "/t/me", tok)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTenantResolver_UnknownTenant(t *testing.T) {
	e := newEnv(t)
	tok, err := e.jwt.GenerateTenantToken("u1", "a1", "assoc_missing.db")
	require.NoError(t, err)

	w, body := e.do(t, "/t/me", tok)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Association introuvable", body["error"])
	assert.False(t, e.registry.Cached("assoc_missing.db"))

	tok, err = e.jwt.GenerateTenantToken("u1", "a1", "../platform.db")
	require.NoError(t, err)
	w, _ = e.do(t, "/t/me", tok)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTenantResolver_InactiveOrUnknownUser(t *testing.T) {
	e := newEnv(t)
	u := createUser(t, e.tenant, "off@a.sn", cnst.RoleMember, false)

	for _, id := range []string{u.ID, "missing"} {
		tok, err := e.jwt.GenerateTenantToken(id, "", "assoc_a.db")
		require.NoError(t, err)
		w, body := e.do(t, "/t/me", tok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Utilisateur inactif ou introuvable", body["error"])
	}
}

func (e *env) createAssociation(t *testing.T, code string) *database.Association {
	t.Helper()
	a := &database.Association{Name: code, Type: "Association", Code: code, DBName: "assoc_a.db", Active: true, AdminEmail: "a@a.sn"}
	require.NoError(t, e.platform.CreateAssociation(context.Background(), a))
	return a
}

func TestTenantResolver_Success(t *testing.T) {
	e := newEnv(t)
	a := e.createAssociation(t, "A")
	u := createUser(t, e.tenant, "on@a.sn", cnst.RoleMember, true)
	tok, err := e.jwt.GenerateTenantToken(u.ID, a.ID, "assoc_a.db")
	require.NoError(t, err)

	w, body := e.do(t, "/t/me", tok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, u.ID, body["id"])
	assert.Equal(t, "assoc_a.db", body["tenant"])
	assert.Equal(t, a.ID, body["association"])
}

func TestTenantResolver_RemovedOrInactiveAssociation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.createAssociation(t, "A")
	u := createUser(t, e.tenant, "on@a.sn", cnst.RoleAdmin, true)
	tok, err := e.jwt.GenerateTenantToken(u.ID, a.ID, "assoc_a.db")
	require.NoError(t, err)

	inactive := false
	_, err = e.platform.UpdateAssociation(ctx, a.ID, database.AssociationChanges{Active: &inactive})
	require.NoError(t, err)
	w, body := e.do(t, "/t/me", tok)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Association désactivée", body["error"])

	// the handle stays cached, the token must still be refused
	require.True(t, e.registry.Cached("assoc_a.db"))
	require.NoError(t, e.platform.DeleteAssociation(ctx, a.ID))
	w, body = e.do(t, "/t/me", tok)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Association introuvable", body["error"])
}

func TestTenantResolver_IsolatesTenants(t *testing.T) {
	e := newEnv(t)
	u := createUser(t, e.tenant, "only-in-a@a.sn", cnst.RoleMember, true)

	// same user id, routed to the default tenant where it does not exist
	tok, err := e.jwt.GenerateTenantToken(u.ID, "", "")
	require.NoError(t, err)
	w, _ := e.do(t, "/t/me", tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	e := newEnv(t)
	member := createUser(t, e.tenant, "m@a.sn", cnst.RoleMember, true)
	admin := createUser(t, e.tenant, "a@a.sn", cnst.RoleAdmin, true)

	tok, _ := e.jwt.GenerateTenantToken(member.ID, "", "assoc_a.db")
	w, body := e.do(t, "/t/admin", tok)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Accès réservé aux administrateurs", body["error"])

	tok, _ = e.jwt.GenerateTenantToken(admin.ID, "", "assoc_a.db")
	w, _ = e.do(t, "/t/admin", tok)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestPlatformResolver(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	active := &database.SuperAdmin{Email: "sa@platform.local", PasswordHash: "x", Name: "SA", Active: true}
	inactive := &database.SuperAdmin{Email: "old@platform.local", PasswordHash: "x", Name: "Old", Active: false}
	require.NoError(t, e.platform.CreateSuperAdmin(ctx, active))
	require.NoError(t, e.platform.CreateSuperAdmin(ctx, inactive))

	w, _ := e.do(t, "/p/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	tenantTok, _ := e.jwt.GenerateTenantToken(active.ID, "", "")
	w, _ = e.do(t, "/p/me", tenantTok)
	assert.Equal(t, http.StatusForbidden, w.Code)

	tok, _ := e.jwt.GeneratePlatformToken(inactive.ID, inactive.Email)
	w, body := e.do(t, "/p/me", tok)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Compte SUPER_ADMIN invalide ou désactivé", body["error"])

	tok, _ = e.jwt.GeneratePlatformToken(active.ID, active.Email)
	w, body = e.do(t, "/p/me", tok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, active.ID, body["id"])
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
