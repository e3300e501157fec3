package guests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roemah-nenek/undangan/internal/models"
)

func newTestRouter(t *testing.T) (*gin.Engine, *memStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := newMemStore()
	h := NewHandler(NewService(store, nil, zap.NewNop()), zap.NewNop())
	r := gin.New()
	r.POST("/api/guests", h.Submit)
	r.GET("/api/guests", h.List)
	r.DELETE("/api/guests/:id", h.Delete)
	return r, store
}

func send(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlerSubmit(t *testing.T) {
	r, store := newTestRouter(t)
	inv := store.addInvitation("jasmine-dan-bayu", "Bayu", "Jasmine")

	w := send(r, http.MethodPost, "/api/guests", map[string]interface{}{
		"name": "Sari", "message": "Selamat!", "invitationId": inv.String(),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var body struct {
		Data models.GuestResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Data.IsAttending)
	require.NotNil(t, body.Data.InvitationID)
	assert.Equal(t, inv, *body.Data.InvitationID)

	w = send(r, http.MethodPost, "/api/guests", map[string]interface{}{"name": "", "message": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodPost, "/api/guests", map[string]interface{}{"name": "A", "invitationId": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(r, http.MethodPost, "/api/guests", map[string]interface{}{"name": "A", "invitationId": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodPost, "/api/guests", map[string]interface{}{"name": "A", "invitationId": ""})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestHandlerListFilter(t *testing.T) {
	r, store := newTestRouter(t)
	inv := store.addInvitation("a", "A", "B")
	send(r, http.MethodPost, "/api/guests", map[string]interface{}{"name": "linked", "invitationId": inv.String()})
	send(r, http.MethodPost, "/api/guests", map[string]interface{}{"name": "unlinked"})

	var all struct {
		Data []models.GuestResponseWithInvitation `json:"data"`
	}
	w := send(r, http.MethodGet, "/api/guests", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all.Data, 2)

	var filtered struct {
		Data []models.GuestResponse `json:"data"`
	}
	w = send(r, http.MethodGet, "/api/guests?invitationId="+inv.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &filtered))
	require.Len(t, filtered.Data, 1)
	assert.Equal(t, "linked", filtered.Data[0].Name)
}

func TestHandlerDeleteMissing(t *testing.T) {
	r, _ := newTestRouter(t)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodDelete, "/api/guests/"+uuid.NewString(), nil).Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodDelete, "/api/guests/garbage", nil).Code)
}
