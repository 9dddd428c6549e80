package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()

	gin.SetMode(gin.TestMode)

	viper.Set("database.driver", "sqlite")
	viper.Set("database.path", filepath.Join(t.TempDir(), "test.db"))
	viper.Set("storage.path", t.TempDir())
	viper.Set("jwt.secret", "test-secret")
	viper.Set("upload.max_size", int64(10<<20))
	viper.Set("host.cors_origin", "http://localhost:3000")

	a, err := NewRouter()
	require.NoError(t, err)

	return a
}

// do runs a JSON request against the router and decodes the response body.
func do(t *testing.T, a *API, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		json.Unmarshal(w.Body.Bytes(), &out)
	}

	return w.Code, out
}

// doRaw runs a request without JSON decoding, for blob endpoints.
func doRaw(t *testing.T, a *API, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	return w
}

// registerUser creates an account and returns its auth token.
func registerUser(t *testing.T, a *API, username string) string {
	t.Helper()

	code, body := do(t, a, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, code, "register %s: %v", username, body)

	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	return token
}

// promoteAdmin flips a user's role directly in the database.
func promoteAdmin(t *testing.T, a *API, username string) {
	t.Helper()

	err := a.DB.
		Model(model.User{}).
		Where("username = ?", username).
		Update("role", model.RoleAdmin).
		Error
	require.NoError(t, err)
}

// uploadFile pushes a multipart upload and returns the created file's ID.
func uploadFile(t *testing.T, a *API, token, name, content string, extra map[string]string) uint {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, name))
	hdr.Set("Content-Type", contentType)

	fw, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)

	for k, v := range extra {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, "upload %s: %s", name, w.Body.String())

	var body struct {
		File struct {
			ID uint `json:"id"`
		} `json:"file"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotZero(t, body.File.ID)

	return body.File.ID
}

// jsonID digs a numeric id out of a decoded response like body["folder"]["id"].
func jsonID(t *testing.T, body map[string]any, key string) uint {
	t.Helper()

	obj, ok := body[key].(map[string]any)
	require.True(t, ok, "missing %q in %v", key, body)

	id, ok := obj["id"].(float64)
	require.True(t, ok, "missing id in %v", obj)

	return uint(id)
}

func uitoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func filePath(t *testing.T, a *API, fileID uint) string {
	t.Helper()

	var file model.File
	require.NoError(t, a.DB.Where("id = ?", fileID).First(&file).Error)

	return file.Path
}
