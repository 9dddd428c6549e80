package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bulkUpload(t *testing.T, a *API, token string, names map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for name, content := range names {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload-multiple", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	return w
}

func TestBulkUpload(t *testing.T) {
	a := newTestAPI(t)
	token := registerUser(t, a, "alice")

	w := bulkUpload(t, a, token, map[string]string{
		"one.txt": "1",
		"two.txt": "2",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	code, resp := do(t, a, http.MethodGet, "/api/files", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["files"].([]any), 2)
}

func TestBulkUploadPartialFailure(t *testing.T) {
	a := newTestAPI(t)
	token := registerUser(t, a, "alice")

	w := bulkUpload(t, a, token, map[string]string{
		"good.txt":                        "fine",
		strings.Repeat("x", 300) + ".txt": "name too long",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "failed")

	code, resp := do(t, a, http.MethodGet, "/api/files", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["files"].([]any), 1)
}

func TestBulkUploadLimits(t *testing.T) {
	a := newTestAPI(t)
	token := registerUser(t, a, "alice")

	tooMany := map[string]string{}
	for i := 0; i < 11; i++ {
		tooMany[fmt.Sprintf("file-%d.txt", i)] = "x"
	}

	w := bulkUpload(t, a, token, tooMany)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = bulkUpload(t, a, token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
