package api

import (
	"net/http"
	"time"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileDelete moves a file into the trash by stamping deleted_at. The blob
// stays on disk so the file can be restored.
func (a *API) FileDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	fileID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var file model.File
	err := a.DB.
		Where("id = ? AND deleted_at IS NULL", fileID).
		First(&file).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
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

		zap.L().Error("Failed to fetch file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	now := time.Now()

	err = a.DB.
		Model(&file).
		Update("deleted_at", now).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to trash file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File moved to trash",
	})
}
