package api

import (
	"net/http"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FileTrashEmpty purges every trashed file of the user. Files are purged
// one by one so a single bad row doesn't leave the whole trash stuck.
func (a *API) FileTrashEmpty(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	var files []model.File
	err := a.DB.
		Where("user_id = ? AND deleted_at IS NOT NULL", userID).
		Find(&files).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list trash", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	purged := 0
	for i := range files {
		if err := a.purgeFile(&files[i]); err != nil {
			zap.L().Error("Failed to purge trashed file",
				zap.Uint("fileID", files[i].ID),
				zap.Error(err),
				zap.String("requestID", requestID))
			continue
		}

		purged++
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Trash emptied",
		"purged":  purged,
	})
}
