package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FileRestore brings a trashed file back by clearing deleted_at.
func (a *API) FileRestore(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	fileID, ok := pathID(c, "id")
	if !ok {
		return
	}

	file, err := a.ownedFile(userID, fileID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if file == nil || file.DeletedAt == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "File not found in trash",
			"requestID": requestID,
		})
		return
	}

	err = a.DB.
		Model(file).
		Update("deleted_at", nil).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to restore file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	file.DeletedAt = nil

	c.JSON(http.StatusOK, gin.H{
		"message": "File restored successfully",
		"file":    file,
	})
}
