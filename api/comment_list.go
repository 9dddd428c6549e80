package api

import (
	"net/http"

	"github.com/you-sk/web-storage-service/internal/access"
	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CommentList returns a file's comments threaded one level deep, newest
// thread first. Anyone who may view the file may read its comments.
func (a *API) CommentList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	fileID, ok := pathID(c, "id")
	if !ok {
		return
	}

	allowed, err := a.Checker.CanAccessFile(fileID, userID, model.FilePermView)
	if err != nil {
		if err == access.ErrNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "File not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check file access", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !allowed {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "You don't have access to this file",
			"requestID": requestID,
		})
		return
	}

	comments, err := a.fileCommentTree(fileID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list comments", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
	})
}

// fileCommentTree loads every comment on a file with usernames attached and
// nests replies under their parents.
func (a *API) fileCommentTree(fileID uint) ([]model.Comment, error) {
	var flat []model.Comment
	err := a.DB.
		Model(model.Comment{}).
		Select("comments.*, users.username").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.file_id = ?", fileID).
		Order("comments.created_at desc").
		Scan(&flat).
		Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*model.Comment, len(flat))
	for i := range flat {
		byID[flat[i].ID] = &flat[i]
	}

	roots := []model.Comment{}
	for i := range flat {
		cm := &flat[i]
		if cm.ParentID == nil {
			continue
		}

		if parent, ok := byID[*cm.ParentID]; ok {
			parent.Replies = append(parent.Replies, *cm)
		}
	}

	// Replies arrive newest-first from the query; threads read better
	// oldest-first
	for i := range flat {
		cm := &flat[i]
		for l, r := 0, len(cm.Replies)-1; l < r; l, r = l+1, r-1 {
			cm.Replies[l], cm.Replies[r] = cm.Replies[r], cm.Replies[l]
		}
	}

	for i := range flat {
		if flat[i].ParentID == nil {
			roots = append(roots, flat[i])
		}
	}

	return roots, nil
}
