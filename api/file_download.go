package api

import (
	"net/http"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileDownload streams the blob as an attachment under its original name.
func (a *API) FileDownload(c *gin.Context) {
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

	if !a.Store.Exists(file.Path) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "File not found on disk",
			"requestID": requestID,
		})
		return
	}

	c.FileAttachment(file.Path, file.OriginalName)
}
