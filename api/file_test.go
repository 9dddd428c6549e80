package api

import (
	"net/http"
	"os"
	"testing"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileUploadAndFetch(t *testing.T) {
	a := newTestAPI(t)
	token := registerUser(t, a, "alice")

	fileID := uploadFile(t, a, token, "report.txt", "quarterly numbers", map[string]string{
		"metadata": `{"topic":"finance"}`,
	})

	code, resp := do(t, a, http.MethodGet, "/api/files/"+uitoa(fileID), token, nil)
	require.Equal(t, http.StatusOK, code)

	file := resp["file"].(map[string]any)
	assert.Equal(t, "report.txt", file["original_name"])
	assert.Equal(t, false, file["is_public"])
	assert.NotEqual(t, "report.txt", file["filename"], "on-disk name must be generated")

	// The blob is on disk under the generated name
	assert.FileExists(t, filePath(t, a, fileID))

	w := doRaw(t, a, http.MethodGet, "/api/files/"+uitoa(fileID)+"/download", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "quarterly numbers", w.Body.String())
}

func TestFileUploadIntoFolder(t *testing.T) {
	a := newTestAPI(t)
	token := registerUser(t, a, "alice")

	folder := createFolder(t, a, token, "docs", nil)
	uploadFile(t, a, token, "a.txt", "x", map[string]string{"folder_id": uitoa(folder)})

	code, resp := do(t, a, http.MethodGet, "/api/files?folder_id="+uitoa(folder), token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["files"].([]any), 1)

	code, resp = do(t, a, http.MethodGet, "/api/files?folder_id=root", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, resp["files"])
}

func TestFileTrashLifecycle(t *testing.T) {
	a := newTestAPI(t)
	token := registerUser(t, a, "alice")

	fileID := uploadFile(t, a, token, "doomed.txt", "bye", nil)
	blobPath := filePath(t, a, fileID)

	// Soft delete hides the file from the active listing
	code, _ := do(t, a, http.MethodDelete, "/api/files/"+uitoa(fileID), token, nil)
	require.Equal(t, http.StatusOK, code)

	code, resp := do(t, a, http.MethodGet, "/api/files", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, resp["files"])

	code, resp = do(t, a, http.MethodGet, "/api/files/trash/list", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["files"].([]any), 1)

	// The blob survives a soft delete
	assert.FileExists(t, blobPath)

	// Restore brings it back
	code, _ = do(t, a, http.MethodPost, "/api/files/"+uitoa(fileID)+"/restore", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, resp = do(t, a, http.MethodGet, "/api/files", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["files"].([]any), 1)

	// Purge requires the file to be trashed first
	code, _ = do(t, a, http.MethodDelete, "/api/files/"+uitoa(fileID)+"/permanent", token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, a, http.MethodDelete, "/api/files/"+uitoa(fileID), token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = do(t, a, http.MethodDelete, "/api/files/"+uitoa(fileID)+"/permanent", token, nil)
	require.Equal(t, http.StatusOK, code)

	assert.NoFileExists(t, blobPath)

	var count int64
	require.NoError(t, a.DB.Model(model.File{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFilePurgeToleratesMissingBlob(t *testing.T) {
	a := newTestAPI(t)
	token := registerUser(t, a, "alice")

	fileID := uploadFile(t, a, token, "gone.txt", "x", nil)
	require.NoError(t, os.Remove(filePath(t, a, fileID)))

	code, _ := do(t, a, http.MethodDelete, "/api/files/"+uitoa(fileID), token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = do(t, a, http.MethodDelete, "/api/files/"+uitoa(fileID)+"/permanent", token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestFilePurgeRemovesDependentRows(t *testing.T) {
	a := newTestAPI(t)
	admin := registerUser(t, a, "admin")
	promoteAdmin(t, a, "admin")

	code, body := do(t, a, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, code)
	bobID := userID(t, body)

	fileID := uploadFile(t, a, admin, "doc.txt", "v1", nil)

	w := uploadVersion(t, a, admin, fileID, "doc.txt", "v2", "")
	require.Equal(t, http.StatusCreated, w.Code)

	code, _ = do(t, a, http.MethodPost, "/api/files/"+uitoa(fileID)+"/comments", admin,
		gin.H{"content": "first"})
	require.Equal(t, http.StatusCreated, code)

	code, _ = do(t, a, http.MethodPost, "/api/files/"+uitoa(fileID)+"/permissions", admin,
		gin.H{"user_id": bobID, "permission": "view"})
	require.Equal(t, http.StatusCreated, code)

	code, resp := do(t, a, http.MethodPost, "/api/tags", admin, gin.H{"name": "draft"})
	require.Equal(t, http.StatusCreated, code)
	tagID := jsonID(t, resp, "tag")

	code, _ = do(t, a, http.MethodPost, "/api/tags/file/"+uitoa(fileID), admin,
		gin.H{"tag_ids": []uint{tagID}})
	require.Equal(t, http.StatusOK, code)

	code, _ = do(t, a, http.MethodDelete, "/api/files/"+uitoa(fileID), admin, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = do(t, a, http.MethodDelete, "/api/files/"+uitoa(fileID)+"/permanent", admin, nil)
	require.Equal(t, http.StatusOK, code)

	// SQLite ignores the declared cascades, so the purge has to delete
	// these itself
	var count int64
	require.NoError(t, a.DB.Model(model.FileVersion{}).Where("file_id = ?", fileID).Count(&count).Error)
	assert.Zero(t, count, "version rows survived the purge")

	require.NoError(t, a.DB.Model(model.Comment{}).Where("file_id = ?", fileID).Count(&count).Error)
	assert.Zero(t, count, "comment rows survived the purge")

	require.NoError(t, a.DB.Model(model.FilePermission{}).Where("file_id = ?", fileID).Count(&count).Error)
	assert.Zero(t, count, "grant rows survived the purge")

	require.NoError(t, a.DB.Table("file_tags").Where("file_id = ?", fileID).Count(&count).Error)
	assert.Zero(t, count, "tag links survived the purge")
}

func TestFileTrashEmpty(t *testing.T) {
	a := newTestAPI(t)
	token := registerUser(t, a, "alice")

	keep := uploadFile(t, a, token, "keep.txt", "x", nil)
	trash1 := uploadFile(t, a, token, "t1.txt", "y", nil)
	trash2 := uploadFile(t, a, token, "t2.txt", "z", nil)

	for _, id := range []uint{trash1, trash2} {
		code, _ := do(t, a, http.MethodDelete, "/api/files/"+uitoa(id), token, nil)
		require.Equal(t, http.StatusOK, code)
	}

	code, resp := do(t, a, http.MethodDelete, "/api/files/trash/empty", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), resp["purged"])

	var remaining []model.File
	require.NoError(t, a.DB.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, keep, remaining[0].ID)
}

func TestFileMove(t *testing.T) {
	a := newTestAPI(t)
	token := registerUser(t, a, "alice")

	folder := createFolder(t, a, token, "dest", nil)
	fileID := uploadFile(t, a, token, "wander.txt", "x", nil)

	code, _ := do(t, a, http.MethodPut, "/api/files/"+uitoa(fileID)+"/move", token, gin.H{"folder_id": folder})
	require.Equal(t, http.StatusOK, code)

	var file model.File
	require.NoError(t, a.DB.Where("id = ?", fileID).First(&file).Error)
	require.NotNil(t, file.FolderID)
	assert.Equal(t, folder, *file.FolderID)

	// Back to the top level
	code, _ = do(t, a, http.MethodPut, "/api/files/"+uitoa(fileID)+"/move", token, gin.H{"folder_id": nil})
	require.Equal(t, http.StatusOK, code)

	require.NoError(t, a.DB.Where("id = ?", fileID).First(&file).Error)
	assert.Nil(t, file.FolderID)

	// Unowned destination reads as missing
	bob := registerUser(t, a, "bob")
	bobFolder := createFolder(t, a, bob, "bobs", nil)

	code, _ = do(t, a, http.MethodPut, "/api/files/"+uitoa(fileID)+"/move", token, gin.H{"folder_id": bobFolder})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestFileMetadataUpdate(t *testing.T) {
	a := newTestAPI(t)
	token := registerUser(t, a, "alice")

	fileID := uploadFile(t, a, token, "tagged.txt", "x", nil)

	code, resp := do(t, a, http.MethodPut, "/api/files/"+uitoa(fileID)+"/metadata", token, gin.H{
		"metadata": gin.H{"project": "apollo", "reviewed": true},
	})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, resp["file"].(map[string]any)["metadata"], "apollo")
}

func TestFileVisibilityTokenLifecycle(t *testing.T) {
	a := newTestAPI(t)
	token := registerUser(t, a, "alice")

	fileID := uploadFile(t, a, token, "shared.txt", "public content", nil)

	publicID := func() *string {
		var file model.File
		require.NoError(t, a.DB.Where("id = ?", fileID).First(&file).Error)
		return file.PublicID
	}

	require.Nil(t, publicID())

	// Turning sharing on mints a token
	code, _ := do(t, a, http.MethodPut, "/api/files/"+uitoa(fileID)+"/visibility", token, gin.H{"is_public": true})
	require.Equal(t, http.StatusOK, code)

	first := publicID()
	require.NotNil(t, first)
	assert.Len(t, *first, 32)

	// The public surface works without auth
	w := doRaw(t, a, http.MethodGet, "/api/public/files/"+*first+"/download", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public content", w.Body.String())

	code, resp := do(t, a, http.MethodGet, "/api/public/files/"+*first+"/info", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "shared.txt", resp["file"].(map[string]any)["original_name"])

	// Turning sharing off clears the token and kills the link
	code, _ = do(t, a, http.MethodPut, "/api/files/"+uitoa(fileID)+"/visibility", token, gin.H{"is_public": false})
	require.Equal(t, http.StatusOK, code)
	require.Nil(t, publicID())

	w = doRaw(t, a, http.MethodGet, "/api/public/files/"+*first, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Sharing again mints a different token, the old one stays dead
	code, _ = do(t, a, http.MethodPut, "/api/files/"+uitoa(fileID)+"/visibility", token, gin.H{"is_public": true})
	require.Equal(t, http.StatusOK, code)

	second := publicID()
	require.NotNil(t, second)
	assert.NotEqual(t, *first, *second)

	w = doRaw(t, a, http.MethodGet, "/api/public/files/"+*first, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFileSearch(t *testing.T) {
	a := newTestAPI(t)
	token := registerUser(t, a, "alice")

	folder := createFolder(t, a, token, "projects", nil)
	uploadFile(t, a, token, "apollo-plan.txt", "x", map[string]string{"folder_id": uitoa(folder)})
	uploadFile(t, a, token, "gemini-notes.txt", "y", map[string]string{
		"metadata": `{"mission":"apollo"}`,
	})
	trashed := uploadFile(t, a, token, "apollo-old.txt", "z", nil)

	code, _ := do(t, a, http.MethodDelete, "/api/files/"+uitoa(trashed), token, nil)
	require.Equal(t, http.StatusOK, code)

	names := func(resp map[string]any) []string {
		out := []string{}
		for _, f := range resp["files"].([]any) {
			out = append(out, f.(map[string]any)["original_name"].(string))
		}
		return out
	}

	// Substring match covers name and metadata, trashed files never appear
	code, resp := do(t, a, http.MethodGet, "/api/files/search?query=apollo", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.ElementsMatch(t, []string{"apollo-plan.txt", "gemini-notes.txt"}, names(resp))

	// Filters are conjunctive
	code, resp = do(t, a, http.MethodGet, "/api/files/search?query=apollo&folder_id="+uitoa(folder), token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"apollo-plan.txt"}, names(resp))

	code, resp = do(t, a, http.MethodGet, "/api/files/search?query=apollo&type=image", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, names(resp))

	// Another user sees nothing
	bob := registerUser(t, a, "bob")
	code, resp = do(t, a, http.MethodGet, "/api/files/search?query=apollo", bob, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, names(resp))
}

func TestFilePreview(t *testing.T) {
	a := newTestAPI(t)
	token := registerUser(t, a, "alice")

	textID := uploadFile(t, a, token, "readme.txt", "short text", nil)

	code, resp := do(t, a, http.MethodGet, "/api/files/"+uitoa(textID)+"/preview", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "short text", resp["content"])
	assert.Equal(t, false, resp["truncated"])

	// Binary types without a preview path are refused
	binID := uploadFile(t, a, token, "blob.bin", string([]byte{0x00, 0x01, 0x02}), nil)

	var file model.File
	require.NoError(t, a.DB.Where("id = ?", binID).First(&file).Error)
	require.NoError(t, a.DB.Model(&file).Update("mimetype", "application/zip").Error)

	w := doRaw(t, a, http.MethodGet, "/api/files/"+uitoa(binID)+"/preview", token)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}
