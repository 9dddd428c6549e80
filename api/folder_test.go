package api

import (
	"net/http"
	"testing"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createFolder(t *testing.T, a *API, token, name string, parentID *uint) uint {
	t.Helper()

	body := gin.H{"name": name}
	if parentID != nil {
		body["parent_id"] = *parentID
	}

	code, resp := do(t, a, http.MethodPost, "/api/folders", token, body)
	require.Equal(t, http.StatusCreated, code, "create folder %s: %v", name, resp)

	return jsonID(t, resp, "folder")
}

func TestFolderCreateAndFetch(t *testing.T) {
	a := newTestAPI(t)
	token := registerUser(t, a, "alice")

	docs := createFolder(t, a, token, "docs", nil)
	work := createFolder(t, a, token, "work", &docs)

	// Duplicate sibling name
	code, _ := do(t, a, http.MethodPost, "/api/folders", token, gin.H{"name": "docs"})
	assert.Equal(t, http.StatusConflict, code)

	// Same name under a different parent is fine
	code, _ = do(t, a, http.MethodPost, "/api/folders", token, gin.H{"name": "docs", "parent_id": docs})
	assert.Equal(t, http.StatusCreated, code)

	// Breadcrumbs walk root-first
	code, resp := do(t, a, http.MethodGet, "/api/folders/"+uitoa(work), token, nil)
	require.Equal(t, http.StatusOK, code)

	crumbs := resp["breadcrumbs"].([]any)
	require.Len(t, crumbs, 2)
	assert.Equal(t, "docs", crumbs[0].(map[string]any)["name"])
	assert.Equal(t, "work", crumbs[1].(map[string]any)["name"])

	// The root sentinel lists top-level folders with empty breadcrumbs
	code, resp = do(t, a, http.MethodGet, "/api/folders/root", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, resp["folder"])
	assert.Empty(t, resp["breadcrumbs"])
	assert.Len(t, resp["subfolders"].([]any), 1)
}

func TestFolderOwnershipIsolation(t *testing.T) {
	a := newTestAPI(t)
	alice := registerUser(t, a, "alice")
	bob := registerUser(t, a, "bob")

	folder := createFolder(t, a, alice, "private", nil)

	// Another user can't see or modify the folder; existence doesn't leak
	code, _ := do(t, a, http.MethodGet, "/api/folders/"+uitoa(folder), bob, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, a, http.MethodPut, "/api/folders/"+uitoa(folder), bob, gin.H{"name": "hijacked"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, a, http.MethodPost, "/api/folders", bob, gin.H{"name": "inside", "parent_id": folder})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestFolderMoveRejectsCycles(t *testing.T) {
	a := newTestAPI(t)
	token := registerUser(t, a, "alice")

	top := createFolder(t, a, token, "a", nil)
	mid := createFolder(t, a, token, "b", &top)
	leaf := createFolder(t, a, token, "c", &mid)

	// Into itself
	code, _ := do(t, a, http.MethodPut, "/api/folders/"+uitoa(top)+"/move", token, gin.H{"parent_id": top})
	assert.Equal(t, http.StatusBadRequest, code)

	// Into a transitive descendant
	code, resp := do(t, a, http.MethodPut, "/api/folders/"+uitoa(top)+"/move", token, gin.H{"parent_id": leaf})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Cannot move folder into its own subfolder", resp["error"])

	// A legal reparent still works
	code, _ = do(t, a, http.MethodPut, "/api/folders/"+uitoa(leaf)+"/move", token, gin.H{"parent_id": top})
	assert.Equal(t, http.StatusOK, code)

	// And to the top level
	code, _ = do(t, a, http.MethodPut, "/api/folders/"+uitoa(mid)+"/move", token, gin.H{"parent_id": nil})
	assert.Equal(t, http.StatusOK, code)
}

func TestFolderRename(t *testing.T) {
	a := newTestAPI(t)
	token := registerUser(t, a, "alice")

	folder := createFolder(t, a, token, "old", nil)
	createFolder(t, a, token, "taken", nil)

	code, _ := do(t, a, http.MethodPut, "/api/folders/"+uitoa(folder), token, gin.H{"name": "taken"})
	assert.Equal(t, http.StatusConflict, code)

	code, resp := do(t, a, http.MethodPut, "/api/folders/"+uitoa(folder), token, gin.H{"name": "new"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "new", resp["folder"].(map[string]any)["name"])
}

func TestFolderDeleteDetachesFiles(t *testing.T) {
	a := newTestAPI(t)
	token := registerUser(t, a, "alice")

	parent := createFolder(t, a, token, "parent", nil)
	child := createFolder(t, a, token, "child", &parent)

	fileID := uploadFile(t, a, token, "kept.txt", "still here", map[string]string{
		"folder_id": uitoa(child),
	})

	code, _ := do(t, a, http.MethodDelete, "/api/folders/"+uitoa(parent), token, nil)
	require.Equal(t, http.StatusOK, code)

	// Both folders are gone
	var folders int64
	require.NoError(t, a.DB.Model(model.Folder{}).Count(&folders).Error)
	assert.Zero(t, folders)

	// The file survived, detached to the top level
	var file model.File
	require.NoError(t, a.DB.Where("id = ?", fileID).First(&file).Error)
	assert.Nil(t, file.FolderID)
	assert.Nil(t, file.DeletedAt)
}
