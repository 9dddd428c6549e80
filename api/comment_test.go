package api

import (
	"net/http"
	"testing"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentThread(t *testing.T) {
	a := newTestAPI(t)
	token := registerUser(t, a, "alice")

	fileID := uploadFile(t, a, token, "discussed.txt", "x", nil)

	code, resp := do(t, a, http.MethodPost, "/api/files/"+uitoa(fileID)+"/comments", token, gin.H{
		"content": "First!",
	})
	require.Equal(t, http.StatusCreated, code)
	parentID := jsonID(t, resp, "comment")

	code, _ = do(t, a, http.MethodPost, "/api/files/"+uitoa(fileID)+"/comments", token, gin.H{
		"content":   "Replying to myself",
		"parent_id": parentID,
	})
	require.Equal(t, http.StatusCreated, code)

	code, resp = do(t, a, http.MethodGet, "/api/files/"+uitoa(fileID)+"/comments", token, nil)
	require.Equal(t, http.StatusOK, code)

	comments := resp["comments"].([]any)
	require.Len(t, comments, 1)

	top := comments[0].(map[string]any)
	assert.Equal(t, "First!", top["content"])
	assert.Equal(t, "alice", top["username"])

	replies := top["replies"].([]any)
	require.Len(t, replies, 1)
	assert.Equal(t, "Replying to myself", replies[0].(map[string]any)["content"])
}

func TestCommentParentMustMatchFile(t *testing.T) {
	a := newTestAPI(t)
	token := registerUser(t, a, "alice")

	fileA := uploadFile(t, a, token, "a.txt", "x", nil)
	fileB := uploadFile(t, a, token, "b.txt", "y", nil)

	code, resp := do(t, a, http.MethodPost, "/api/files/"+uitoa(fileA)+"/comments", token, gin.H{
		"content": "On file A",
	})
	require.Equal(t, http.StatusCreated, code)
	parentID := jsonID(t, resp, "comment")

	code, _ = do(t, a, http.MethodPost, "/api/files/"+uitoa(fileB)+"/comments", token, gin.H{
		"content":   "Cross-file reply",
		"parent_id": parentID,
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCommentEditAndDeleteOwnOnly(t *testing.T) {
	a := newTestAPI(t)
	alice := registerUser(t, a, "alice")
	bob := registerUser(t, a, "bob")

	fileID := uploadFile(t, a, alice, "shared.txt", "x", nil)

	// Share the file so bob can comment at all
	code, _ := do(t, a, http.MethodPut, "/api/files/"+uitoa(fileID)+"/visibility", alice, gin.H{"is_public": true})
	require.Equal(t, http.StatusOK, code)

	code, resp := do(t, a, http.MethodPost, "/api/files/"+uitoa(fileID)+"/comments", bob, gin.H{
		"content": "Bob was here",
	})
	require.Equal(t, http.StatusCreated, code)
	commentID := jsonID(t, resp, "comment")

	// Alice can't edit or delete bob's comment even on her own file
	code, _ = do(t, a, http.MethodPut, "/api/comments/"+uitoa(commentID), alice, gin.H{"content": "rewritten"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, a, http.MethodDelete, "/api/comments/"+uitoa(commentID), alice, nil)
	assert.Equal(t, http.StatusNotFound, code)

	// Bob can
	code, resp = do(t, a, http.MethodPut, "/api/comments/"+uitoa(commentID), bob, gin.H{"content": "edited"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "edited", resp["comment"].(map[string]any)["content"])

	code, _ = do(t, a, http.MethodDelete, "/api/comments/"+uitoa(commentID), bob, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestCommentDeleteRemovesReplies(t *testing.T) {
	a := newTestAPI(t)
	token := registerUser(t, a, "alice")

	fileID := uploadFile(t, a, token, "threaded.txt", "x", nil)

	code, resp := do(t, a, http.MethodPost, "/api/files/"+uitoa(fileID)+"/comments", token, gin.H{
		"content": "root",
	})
	require.Equal(t, http.StatusCreated, code)
	parentID := jsonID(t, resp, "comment")

	for _, text := range []string{"reply one", "reply two"} {
		code, _ := do(t, a, http.MethodPost, "/api/files/"+uitoa(fileID)+"/comments", token, gin.H{
			"content":   text,
			"parent_id": parentID,
		})
		require.Equal(t, http.StatusCreated, code)
	}

	code, _ = do(t, a, http.MethodDelete, "/api/comments/"+uitoa(parentID), token, nil)
	require.Equal(t, http.StatusOK, code)

	var count int64
	require.NoError(t, a.DB.Model(model.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCommentsRequireFileAccess(t *testing.T) {
	a := newTestAPI(t)
	alice := registerUser(t, a, "alice")
	bob := registerUser(t, a, "bob")

	fileID := uploadFile(t, a, alice, "private.txt", "x", nil)

	code, _ := do(t, a, http.MethodGet, "/api/files/"+uitoa(fileID)+"/comments", bob, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = do(t, a, http.MethodPost, "/api/files/"+uitoa(fileID)+"/comments", bob, gin.H{
		"content": "sneaky",
	})
	assert.Equal(t, http.StatusForbidden, code)
}
