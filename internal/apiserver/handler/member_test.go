package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembers_CreateValidation(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	w := s.do(t, http.MethodPost, "/api/members", gin.H{"name": "Awa"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Nom et champ personnalisé requis", decode[map[string]any](t, w)["error"])

	w = s.do(t, http.MethodPost, "/api/members", gin.H{"name": "Awa", "customFieldValue": "A1"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email ou téléphone requis", decode[map[string]any](t, w)["error"])

	created := s.createMember(t, admin, "Awa", "770000001")
	assert.Len(t, created["password"], generatedPasswordLength)
	assert.NotEmpty(t, created["token"])
	assert.NotEmpty(t, created["memberId"])

	w = s.do(t, http.MethodPost, "/api/members", gin.H{"name": "Fatou", "customFieldValue": "A2", "phone": "770000001"}, admin)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Ce numéro de téléphone est déjà utilisé", decode[map[string]any](t, w)["error"])
}

func TestMembers_ListAndGet(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	awa := s.createMember(t, admin, "Awa Diop", "770000001")
	s.createMember(t, admin, "Moussa Fall", "770000002")

	w := s.do(t, http.MethodGet, "/api/members", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]map[string]any](t, w)
	require.Len(t, list, 2)
	assert.NotEmpty(t, list[0]["token"])

	w = s.do(t, http.MethodGet, "/api/members?search=diop", nil, admin)
	list = decode[[]map[string]any](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Awa Diop", list[0]["name"])

	// members do not see access tokens
	w = s.do(t, http.MethodPost, "/api/members/"+awa["id"].(string)+"/reset-password", gin.H{"newPassword": "secret"}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "secret", decode[map[string]any](t, w)["newPassword"])
	member := s.login(t, "770000001", "secret")

	w = s.do(t, http.MethodGet, "/api/members/"+awa["id"].(string), nil, member)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[map[string]any](t, w)
	assert.Equal(t, "Awa Diop", got["name"])
	assert.NotContains(t, got, "token")

	w = s.do(t, http.MethodGet, "/api/members/unknown", nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Membre introuvable", decode[map[string]any](t, w)["error"])
}

func TestMembers_Update(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	awa := s.createMember(t, admin, "Awa", "770000001")
	s.createMember(t, admin, "Moussa", "770000002")
	path := "/api/members/" + awa["id"].(string)

	w := s.do(t, http.MethodPut, path, gin.H{"name": "Awa Diop", "email": "awa@x.sn"}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[map[string]any](t, w)
	assert.Equal(t, "Awa Diop", got["name"])
	assert.Equal(t, "A1", got["customFieldValue"])
	assert.Equal(t, "awa@x.sn", got["email"])
	assert.Equal(t, "770000001", got["phone"])

	// a conflicting phone rolls back the whole update
	w = s.do(t, http.MethodPut, path, gin.H{"name": "Changed", "phone": "770000002"}, admin)
	assert.Equal(t, http.StatusConflict, w.Code)
	w = s.do(t, http.MethodGet, path, nil, admin)
	assert.Equal(t, "Awa Diop", decode[map[string]any](t, w)["name"])

	w = s.do(t, http.MethodPut, "/api/members/unknown", gin.H{"name": "X"}, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMembers_RejectsImportSeparator(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	const msg = "Le nom, le champ personnalisé et le téléphone ne peuvent pas contenir de point-virgule"

	w := s.do(t, http.MethodPost, "/api/members", gin.H{"name": "Diallo; Awa", "customFieldValue": "Villa 3", "phone": "655000001"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msg, decode[map[string]any](t, w)["error"])

	awa := s.createMember(t, admin, "Diallo, Awa", "655000001")
	path := "/api/members/" + awa["id"].(string)
	w = s.do(t, http.MethodPut, path, gin.H{"customFieldValue": "Villa;3"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msg, decode[map[string]any](t, w)["error"])

	// the export of stored members converts back to the same import lines
	w = s.do(t, http.MethodGet, "/api/export/members", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPost, "/api/import/members/preview", gin.H{"content": w.Body.String()}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	preview := decode[map[string]any](t, w)
	dups := preview["duplicates"].([]any)
	require.Len(t, dups, 1)
	assert.Equal(t, "Diallo, Awa", dups[0].(map[string]any)["name"])
	assert.Equal(t, "655000001", dups[0].(map[string]any)["phone"])
	assert.Empty(t, preview["errors"])
}

func TestMembers_ActivationAndToken(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	awa := s.createMember(t, admin, "Awa", "770000001")
	id := awa["id"].(string)

	w := s.do(t, http.MethodPut, "/api/members/"+id+"/deactivate", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Membre désactivé avec succès", decode[map[string]any](t, w)["message"])

	u, err := s.def.Users().GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, u.Active)
	assert.False(t, u.Member.Active)

	w = s.do(t, http.MethodGet, "/api/members?active=true", nil, admin)
	assert.Empty(t, decode[[]map[string]any](t, w))

	w = s.do(t, http.MethodPost, "/api/auth/login", gin.H{"accessToken": awa["token"]}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPut, "/api/members/"+id+"/activate", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/members/"+id+"/regenerate-token", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[map[string]any](t, w)["token"]
	assert.NotEqual(t, awa["token"], token)

	w = s.do(t, http.MethodPost, "/api/auth/login", gin.H{"accessToken": awa["token"]}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(t, http.MethodPost, "/api/auth/login", gin.H{"accessToken": token}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPut, "/api/members/unknown/deactivate", nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMembers_Delete(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	awa := s.createMember(t, admin, "Awa", "770000001")
	yearID := s.createYear(t, admin, 2025, 1000, true)

	w := s.do(t, http.MethodPost, "/api/payments", gin.H{"memberId": awa["memberId"], "yearId": yearID, "month": 1, "amountPaid": 1000}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodDelete, "/api/members/"+awa["id"].(string), nil, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	n, err := s.def.Payments().CountForYear(context.Background(), yearID)
	require.NoError(t, err)
	assert.Zero(t, n)

	w = s.do(t, http.MethodGet, "/api/members/"+awa["id"].(string), nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// the year can go once its payments are gone
	w = s.do(t, http.MethodDelete, "/api/years/"+yearID, nil, admin)
	assert.Equal(t, http.StatusOK, w.Code)
}
