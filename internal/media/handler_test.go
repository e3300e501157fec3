package media

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roemah-nenek/undangan/internal/auth"
	"github.com/roemah-nenek/undangan/internal/invitations"
	"github.com/roemah-nenek/undangan/internal/models"
)

type fakeStorage struct {
	uploaded map[string][]byte
	types    map[string]string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploaded: map[string][]byte{}, types: map[string]string{}}
}

func (s *fakeStorage) PresignUpload(_ context.Context, key, _ string) (string, error) {
	return "https://s3.example/" + key + "?X-Amz-Signature=sig", nil
}

func (s *fakeStorage) Upload(_ context.Context, key, contentType string, body io.Reader, _ int64) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.uploaded[key] = b
	s.types[key] = contentType
	return s.PublicURL(key), nil
}

func (s *fakeStorage) PublicURL(key string) string { return "https://cdn.example/" + key }

type fakeLookup struct {
	owner uuid.UUID
	inv   models.Invitation
}

func (l fakeLookup) GetByID(_ context.Context, accountID, id uuid.UUID) (*models.Invitation, error) {
	if accountID != l.owner || id != l.inv.ID {
		return nil, invitations.ErrNotFound
	}
	inv := l.inv
	return &inv, nil
}

func newRouter(store Storage, lookup InvitationLookup, caller uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/invitations", func(c *gin.Context) {
		c.Set(auth.ContextAccountID, caller)
		c.Next()
	})
	NewHandler(store, lookup, zap.NewNop()).Register(g)
	return r
}

func multipartBody(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadURL(t *testing.T) {
	owner := uuid.New()
	inv := models.Invitation{ID: uuid.New(), OwnerAccountID: owner}
	r := newRouter(newFakeStorage(), fakeLookup{owner: owner, inv: inv}, owner)

	body, _ := json.Marshal(UploadURLRequest{Filename: "prewed.jpg", ContentType: "image/jpeg"})
	req := httptest.NewRequest(http.MethodPost, "/api/invitations/"+inv.ID.String()+"/media/upload-url", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data UploadURLResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Data.Key, "media/"+inv.ID.String()+"/"))
	assert.True(t, strings.HasSuffix(resp.Data.Key, ".jpg"))
	assert.Equal(t, "https://cdn.example/"+resp.Data.Key, resp.Data.PublicURL)
	assert.Contains(t, resp.Data.UploadURL, "X-Amz-Signature")
}

func TestUploadURLRejectsUnsupportedType(t *testing.T) {
	owner := uuid.New()
	inv := models.Invitation{ID: uuid.New(), OwnerAccountID: owner}
	r := newRouter(newFakeStorage(), fakeLookup{owner: owner, inv: inv}, owner)

	body, _ := json.Marshal(UploadURLRequest{Filename: "clip.mp4", ContentType: "video/mp4"})
	req := httptest.NewRequest(http.MethodPost, "/api/invitations/"+inv.ID.String()+"/media/upload-url", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadURLRequiresFilenameOrType(t *testing.T) {
	owner := uuid.New()
	inv := models.Invitation{ID: uuid.New(), OwnerAccountID: owner}
	r := newRouter(newFakeStorage(), fakeLookup{owner: owner, inv: inv}, owner)

	req := httptest.NewRequest(http.MethodPost, "/api/invitations/"+inv.ID.String()+"/media/upload-url", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadMultipart(t *testing.T) {
	owner := uuid.New()
	inv := models.Invitation{ID: uuid.New(), OwnerAccountID: owner}
	store := newFakeStorage()
	r := newRouter(store, fakeLookup{owner: owner, inv: inv}, owner)

	body, ct := multipartBody(t, "lagu.mp3", "audio/mpeg", []byte("ID3-fake-audio"))
	req := httptest.NewRequest(http.MethodPost, "/api/invitations/"+inv.ID.String()+"/media", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.Len(t, store.uploaded, 1)
	for key, data := range store.uploaded {
		assert.True(t, strings.HasSuffix(key, ".mp3"))
		assert.Equal(t, "ID3-fake-audio", string(data))
		assert.Equal(t, "audio/mpeg", store.types[key])
	}
}

func TestMediaScopedToOwner(t *testing.T) {
	owner := uuid.New()
	inv := models.Invitation{ID: uuid.New(), OwnerAccountID: owner}
	r := newRouter(newFakeStorage(), fakeLookup{owner: owner, inv: inv}, uuid.New())

	body, _ := json.Marshal(UploadURLRequest{Filename: "a.png", ContentType: "image/png"})
	req := httptest.NewRequest(http.MethodPost, "/api/invitations/"+inv.ID.String()+"/media/upload-url", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMediaDisabledWithoutStorage(t *testing.T) {
	owner := uuid.New()
	inv := models.Invitation{ID: uuid.New(), OwnerAccountID: owner}
	r := newRouter(nil, fakeLookup{owner: owner, inv: inv}, owner)

	req := httptest.NewRequest(http.MethodPost, "/api/invitations/"+inv.ID.String()+"/media/upload-url", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
