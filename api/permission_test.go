package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userID(t *testing.T, body map[string]any) uint {
	t.Helper()
	return jsonID(t, body, "user")
}

func TestFileGrantAllowsAccess(t *testing.T) {
	a := newTestAPI(t)
	alice := registerUser(t, a, "alice")

	code, body := do(t, a, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, code)
	bobID := userID(t, body)
	bob := body["token"].(string)

	fileID := uploadFile(t, a, alice, "plans.txt", "secret plans", nil)

	// No grant yet
	code, _ = do(t, a, http.MethodGet, "/api/files/"+uitoa(fileID), bob, nil)
	assert.Equal(t, http.StatusForbidden, code)

	// Alice grants view
	code, _ = do(t, a, http.MethodPost, "/api/files/"+uitoa(fileID)+"/permissions", alice, gin.H{
		"user_id":    bobID,
		"permission": "view",
	})
	require.Equal(t, http.StatusCreated, code)

	code, _ = do(t, a, http.MethodGet, "/api/files/"+uitoa(fileID), bob, nil)
	assert.Equal(t, http.StatusOK, code)

	w := doRaw(t, a, http.MethodGet, "/api/files/"+uitoa(fileID)+"/download", bob)
	assert.Equal(t, http.StatusOK, w.Code)

	// View doesn't imply edit
	code, _ = do(t, a, http.MethodPut, "/api/files/"+uitoa(fileID)+"/metadata", bob, gin.H{
		"metadata": gin.H{"defaced": true},
	})
	assert.Equal(t, http.StatusForbidden, code)

	// Revoking closes the door again
	code, _ = do(t, a, http.MethodDelete,
		"/api/files/"+uitoa(fileID)+"/permissions/"+uitoa(bobID)+"/view", alice, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = do(t, a, http.MethodGet, "/api/files/"+uitoa(fileID), bob, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestFileGrantRules(t *testing.T) {
	a := newTestAPI(t)
	alice := registerUser(t, a, "alice")

	code, body := do(t, a, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, code)
	bobID := userID(t, body)
	bob := body["token"].(string)

	fileID := uploadFile(t, a, alice, "guarded.txt", "x", nil)

	// Strangers can't grant themselves anything
	code, _ = do(t, a, http.MethodPost, "/api/files/"+uitoa(fileID)+"/permissions", bob, gin.H{
		"user_id":    bobID,
		"permission": "view",
	})
	assert.Equal(t, http.StatusForbidden, code)

	// Unknown permission names are rejected
	code, _ = do(t, a, http.MethodPost, "/api/files/"+uitoa(fileID)+"/permissions", alice, gin.H{
		"user_id":    bobID,
		"permission": "own",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	// Granting to the owner is pointless
	code, body = do(t, a, http.MethodGet, "/api/auth/me", alice, nil)
	require.Equal(t, http.StatusOK, code)
	aliceID := userID(t, body)

	code, _ = do(t, a, http.MethodPost, "/api/files/"+uitoa(fileID)+"/permissions", alice, gin.H{
		"user_id":    aliceID,
		"permission": "view",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	// A share grant lets the grantee pass the file on
	code, _ = do(t, a, http.MethodPost, "/api/files/"+uitoa(fileID)+"/permissions", alice, gin.H{
		"user_id":    bobID,
		"permission": "share",
	})
	require.Equal(t, http.StatusCreated, code)

	code, body = do(t, a, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "carol",
		"email":    "carol@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, code)
	carolID := userID(t, body)
	carol := body["token"].(string)

	code, _ = do(t, a, http.MethodPost, "/api/files/"+uitoa(fileID)+"/permissions", bob, gin.H{
		"user_id":    carolID,
		"permission": "view",
	})
	require.Equal(t, http.StatusCreated, code)

	code, _ = do(t, a, http.MethodGet, "/api/files/"+uitoa(fileID), carol, nil)
	assert.Equal(t, http.StatusOK, code)

	// But only the owner (or an admin) may inspect or revoke grants
	code, _ = do(t, a, http.MethodGet, "/api/files/"+uitoa(fileID)+"/permissions", bob, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp := do(t, a, http.MethodGet, "/api/files/"+uitoa(fileID)+"/permissions", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["permissions"].([]any), 2)
}

func TestAdminBypassesGrants(t *testing.T) {
	a := newTestAPI(t)
	alice := registerUser(t, a, "alice")
	admin := registerUser(t, a, "root")
	promoteAdmin(t, a, "root")

	fileID := uploadFile(t, a, alice, "anyfile.txt", "x", nil)

	code, _ := do(t, a, http.MethodGet, "/api/files/"+uitoa(fileID), admin, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestPublicVisibilityGrantsViewOnly(t *testing.T) {
	a := newTestAPI(t)
	alice := registerUser(t, a, "alice")
	bob := registerUser(t, a, "bob")

	fileID := uploadFile(t, a, alice, "open.txt", "x", nil)

	code, _ := do(t, a, http.MethodPut, "/api/files/"+uitoa(fileID)+"/visibility", alice, gin.H{"is_public": true})
	require.Equal(t, http.StatusOK, code)

	// Public implies view for authenticated users too
	code, _ = do(t, a, http.MethodGet, "/api/files/"+uitoa(fileID), bob, nil)
	assert.Equal(t, http.StatusOK, code)

	// But not delete
	code, _ = do(t, a, http.MethodDelete, "/api/files/"+uitoa(fileID), bob, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRolePermissionManagement(t *testing.T) {
	a := newTestAPI(t)
	admin := registerUser(t, a, "root")
	promoteAdmin(t, a, "root")
	user := registerUser(t, a, "plain")

	// The catalog is admin-only
	code, _ := do(t, a, http.MethodGet, "/api/permissions", user, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp := do(t, a, http.MethodGet, "/api/permissions", admin, nil)
	require.Equal(t, http.StatusOK, code)

	catalog := resp["permissions"].([]any)
	require.Len(t, catalog, 10)

	var manageTagsID uint
	for _, p := range catalog {
		perm := p.(map[string]any)
		if perm["name"] == "manage_tags" {
			manageTagsID = uint(perm["id"].(float64))
		}
	}
	require.NotZero(t, manageTagsID)

	// The user role starts with its two seeded capabilities
	code, resp = do(t, a, http.MethodGet, "/api/roles/user/permissions", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["permissions"].([]any), 2)

	// Granting manage_tags to the user role opens tag creation up
	code, _ = do(t, a, http.MethodPost, "/api/tags", user, gin.H{"name": "early"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = do(t, a, http.MethodPost, "/api/roles/user/permissions", admin, gin.H{
		"permission_id": manageTagsID,
	})
	require.Equal(t, http.StatusCreated, code)

	code, _ = do(t, a, http.MethodPost, "/api/tags", user, gin.H{"name": "allowed-now"})
	assert.Equal(t, http.StatusCreated, code)

	// And revoking closes it again
	code, _ = do(t, a, http.MethodDelete,
		"/api/roles/user/permissions/"+uitoa(manageTagsID), admin, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = do(t, a, http.MethodPost, "/api/tags", user, gin.H{"name": "blocked-again"})
	assert.Equal(t, http.StatusForbidden, code)

	// Unknown roles are rejected
	code, _ = do(t, a, http.MethodGet, "/api/roles/superuser/permissions", admin, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUserRoleChange(t *testing.T) {
	a := newTestAPI(t)
	admin := registerUser(t, a, "root")
	promoteAdmin(t, a, "root")

	code, body := do(t, a, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "target",
		"email":    "target@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, code)
	targetID := userID(t, body)
	target := body["token"].(string)

	// Only manage_roles holders may change roles
	code, _ = do(t, a, http.MethodPut, "/api/users/"+uitoa(targetID)+"/role", target, gin.H{"role": "admin"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = do(t, a, http.MethodPut, "/api/users/"+uitoa(targetID)+"/role", admin, gin.H{"role": "admin"})
	require.Equal(t, http.StatusOK, code)

	// The promoted user now passes admin-only endpoints
	code, _ = do(t, a, http.MethodGet, "/api/admin/users", target, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, a, http.MethodPut, "/api/users/"+uitoa(targetID)+"/role", admin, gin.H{"role": "bogus"})
	assert.Equal(t, http.StatusBadRequest, code)
}
