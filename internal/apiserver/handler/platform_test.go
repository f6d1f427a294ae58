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

func (s *testServer) superToken(t *testing.T) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/platform/login", gin.H{
		"email": provision.DefaultSuperAdminEmail, "password": provision.DefaultSuperAdminPassword,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[map[string]any](t, w)["token"].(string)
}

func TestPlatformLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/platform/login", gin.H{"email": provision.DefaultSuperAdminEmail}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email et mot de passe requis", decode[map[string]any](t, w)["error"])

	w = s.do(t, http.MethodPost, "/api/platform/login", gin.H{"email": provision.DefaultSuperAdminEmail, "password": "bad"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(t, http.MethodPost, "/api/platform/login", gin.H{"email": "ghost@platform.local", "password": "bad"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := s.superToken(t)
	w = s.do(t, http.MethodGet, "/api/platform/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[map[string]any](t, w)
	assert.Equal(t, provision.DefaultSuperAdminEmail, me["email"])
	assert.Equal(t, string(cnst.RoleSuperAdmin), me["role"])

	// the two token spaces do not overlap
	w = s.do(t, http.MethodGet, "/api/platform/me", nil, s.adminToken(t))
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(t, http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPlatformAssociations(t *testing.T) {
	s := newTestServer(t)
	super := s.superToken(t)

	w := s.do(t, http.MethodPost, "/api/platform/associations", gin.H{"name": "Dahira"}, super)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Nom, code, email admin et mot de passe admin requis", decode[map[string]any](t, w)["error"])

	req := gin.H{"name": "Dahira Touba", "type": "dahira", "code": "DT-01", "adminEmail": "admin@dt.sn", "adminPassword": "dtpass"}
	w = s.do(t, http.MethodPost, "/api/platform/associations", req, super)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]any](t, w)
	assert.Equal(t, "Association créée avec succès", created["message"])
	assoc := created["association"].(map[string]any)
	assert.Regexp(t, `^assoc_dt_01_\d+\.db$`, assoc["dbName"])
	assert.Equal(t, map[string]any{"email": "admin@dt.sn", "password": "dtpass"}, created["credentials"])
	id := assoc["id"].(string)

	w = s.do(t, http.MethodPost, "/api/platform/associations", req, super)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Ce code existe déjà", decode[map[string]any](t, w)["error"])

	// the new tenant is isolated from the default one
	w = s.do(t, http.MethodPost, "/api/auth/login", gin.H{"associationCode": "DT-01", "identifier": "admin@dt.sn", "password": "dtpass"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tenantToken := decode[map[string]any](t, w)["token"].(string)
	s.createMember(t, tenantToken, "Cheikh", "780000001")

	w = s.do(t, http.MethodGet, "/api/config", nil, tenantToken)
	assert.Equal(t, "Dahira Touba", decode[map[string]any](t, w)["name"])
	w = s.do(t, http.MethodGet, "/api/members", nil, tenantToken)
	assert.Len(t, decode[[]map[string]any](t, w), 1)
	w = s.do(t, http.MethodGet, "/api/members", nil, s.adminToken(t))
	assert.Empty(t, decode[[]map[string]any](t, w))

	w = s.do(t, http.MethodGet, "/api/platform/associations", nil, super)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 2)

	w = s.do(t, http.MethodPut, "/api/platform/associations/"+id, gin.H{"name": "Dahira de Touba"}, super)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Dahira de Touba", decode[map[string]any](t, w)["name"])

	w = s.do(t, http.MethodPut, "/api/platform/associations/"+id+"/toggle", nil, super)
	require.Equal(t, http.StatusOK, w.Code)
	toggled := decode[map[string]any](t, w)
	assert.Equal(t, "Association désactivée", toggled["message"])
	assert.Equal(t, false, toggled["association"].(map[string]any)["active"])

	w = s.do(t, http.MethodPost, "/api/auth/login", gin.H{"associationCode": "DT-01", "identifier": "admin@dt.sn", "password": "dtpass"}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Association désactivée", decode[map[string]any](t, w)["error"])
	// tokens issued before the deactivation are refused too
	w = s.do(t, http.MethodGet, "/api/members", nil, tenantToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/platform/stats", nil, super)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[map[string]any](t, w)
	assert.EqualValues(t, 2, stats["totalAssociations"])
	assert.EqualValues(t, 1, stats["activeAssociations"])
	assert.EqualValues(t, 1, stats["inactiveAssociations"])
	assert.EqualValues(t, 1, stats["openTenants"])

	def, err := s.platform.GetAssociationByCode(t.Context(), cnst.DefaultAssociationCode)
	require.NoError(t, err)
	w = s.do(t, http.MethodDelete, "/api/platform/associations/"+def.ID, nil, super)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Impossible de supprimer l'association par défaut", decode[map[string]any](t, w)["error"])

	w = s.do(t, http.MethodDelete, "/api/platform/associations/"+id, nil, super)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(t, http.MethodGet, "/api/platform/associations/"+id, nil, super)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Association introuvable", decode[map[string]any](t, w)["error"])

	// the tenant handle is still cached, but its tokens no longer resolve
	w = s.do(t, http.MethodGet, "/api/auth/me", nil, tenantToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Association introuvable", decode[map[string]any](t, w)["error"])
}
