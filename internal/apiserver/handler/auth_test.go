package handler

import (
	"net/http"
	"testing"

	"github.com/amoylab/assocmanager/internal/apiserver/provision"
	"github.com/amoylab/assocmanager/internal/common/cnst"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIStatus(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"AssocManager API","status":"OK"}`, w.Body.String())
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	t.Run("wrong password", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/auth/login", gin.H{"identifier": provision.DefaultAdminEmail, "password": "nope"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Identifiants invalides", decode[map[string]any](t, w)["error"])
	})

	t.Run("unknown identifier", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/auth/login", gin.H{"identifier": "ghost@x.sn", "password": "admin"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing credentials", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/auth/login", gin.H{"identifier": provision.DefaultAdminEmail}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Identifiant et mot de passe requis", decode[map[string]any](t, w)["error"])
	})

	t.Run("malformed body", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/auth/login", "not an object", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("english messages", func(t *testing.T) {
		req := gin.H{"identifier": provision.DefaultAdminEmail, "password": "nope"}
		w := s.doLang(t, http.MethodPost, "/api/auth/login", req, "en")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotEqual(t, "Identifiants invalides", decode[map[string]any](t, w)["error"])
	})

	t.Run("admin", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/auth/login", gin.H{"identifier": provision.DefaultAdminEmail, "password": provision.DefaultAdminPassword}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decode[map[string]any](t, w)
		assert.NotEmpty(t, body["token"])
		user := body["user"].(map[string]any)
		assert.Equal(t, string(cnst.RoleAdmin), user["role"])
		assert.Nil(t, user["member"])
		assert.Nil(t, body["association"])
	})
}

func TestLogin_MemberByPhoneAndAccessToken(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	w := s.do(t, http.MethodPost, "/api/members", gin.H{
		"name": "Awa Diop", "customFieldValue": "B12", "phone": "770000001", "password": "secret",
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]any](t, w)
	assert.Equal(t, "secret", created["password"])
	assert.Contains(t, created["email"], "@temp.local")

	w = s.do(t, http.MethodPost, "/api/auth/login", gin.H{"phone": "770000001", "password": "secret"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode[map[string]any](t, w)
	user := body["user"].(map[string]any)
	assert.Equal(t, created["id"], user["id"])
	assert.Equal(t, string(cnst.RoleMember), user["role"])
	assert.Equal(t, "Awa Diop", user["member"].(map[string]any)["name"])

	token := body["token"].(string)
	w = s.do(t, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created["id"], decode[map[string]any](t, w)["id"])

	w = s.do(t, http.MethodPost, "/api/auth/login", gin.H{"accessToken": created["token"]}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, created["id"], decode[map[string]any](t, w)["user"].(map[string]any)["id"])

	w = s.do(t, http.MethodPost, "/api/auth/login", gin.H{"accessToken": "unknown"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token d'accès invalide", decode[map[string]any](t, w)["error"])

	// members cannot reach admin routes
	w = s.do(t, http.MethodPost, "/api/years", gin.H{"year": 2025, "monthlyAmount": 1000}, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLogin_AssociationCode(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/auth/login", gin.H{
		"associationCode": "NOPE", "identifier": provision.DefaultAdminEmail, "password": provision.DefaultAdminPassword,
	}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Association introuvable", decode[map[string]any](t, w)["error"])

	w = s.do(t, http.MethodPost, "/api/auth/login", gin.H{
		"associationCode": cnst.DefaultAssociationCode, "identifier": provision.DefaultAdminEmail, "password": provision.DefaultAdminPassword,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode[map[string]any](t, w)
	assoc := body["association"].(map[string]any)
	assert.Equal(t, cnst.DefaultAssociationCode, assoc["code"])

	w = s.do(t, http.MethodGet, "/api/auth/me", nil, body["token"].(string))
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[map[string]any](t, w)
	assert.Equal(t, provision.DefaultAdminEmail, me["email"])
	assert.Equal(t, cnst.DefaultAssociationCode, me["association"].(map[string]any)["code"])
}

func TestConfig(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	w := s.do(t, http.MethodGet, "/api/config", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Villa", decode[map[string]any](t, w)["memberFieldLabel"])

	w = s.do(t, http.MethodPost, "/api/config", gin.H{"name": "Dahira"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/config", gin.H{"name": "Dahira", "type": "dahira", "memberFieldLabel": "Quartier"}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/config", nil, admin)
	cfg := decode[map[string]any](t, w)
	assert.Equal(t, "Dahira", cfg["name"])
	assert.Equal(t, "Quartier", cfg["memberFieldLabel"])
}

func TestAdmins(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	w := s.do(t, http.MethodPost, "/api/admin/create", gin.H{"email": "second@x.sn", "password": "pass"}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	second := decode[map[string]any](t, w)
	assert.Equal(t, string(cnst.RoleAdmin), second["role"])

	w = s.do(t, http.MethodPost, "/api/admin/create", gin.H{"email": "second@x.sn", "password": "pass"}, admin)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Cet email est déjà utilisé", decode[map[string]any](t, w)["error"])

	w = s.do(t, http.MethodGet, "/api/admin/list", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 2)

	me := decode[map[string]any](t, s.do(t, http.MethodGet, "/api/auth/me", nil, admin))
	w = s.do(t, http.MethodPut, "/api/admin/"+me["id"].(string)+"/deactivate", nil, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	id := second["id"].(string)
	w = s.do(t, http.MethodPost, "/api/admin/"+id+"/reset-password", gin.H{"newPassword": "abc"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPost, "/api/admin/"+id+"/reset-password", gin.H{"newPassword": "fresh"}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	secondToken := s.login(t, "second@x.sn", "fresh")

	w = s.do(t, http.MethodPut, "/api/admin/"+id+"/deactivate", nil, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, false, decode[map[string]any](t, w)["admin"].(map[string]any)["active"])

	// the issued token stops working once the account is inactive
	w = s.do(t, http.MethodGet, "/api/auth/me", nil, secondToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPut, "/api/admin/"+id+"/activate", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/auth/me", nil, secondToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPut, "/api/admin/unknown/activate", nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
