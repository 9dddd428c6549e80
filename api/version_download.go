package api

import (
	"net/http"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VersionDownload streams a historical snapshot's blob as an attachment.
func (a *API) VersionDownload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	fileID, ok := pathID(c, "id")
	if !ok {
		return
	}

	versionID, ok := pathID(c, "versionID")
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

	if file == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "File not found",
			"requestID": requestID,
		})
		return
	}

	var version model.FileVersion
	err = a.DB.
		Where("id = ? AND file_id = ?", versionID, fileID).
		First(&version).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Version not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch version", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !a.Store.Exists(version.Path) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "Version file not found on disk",
			"requestID": requestID,
		})
		return
	}

	c.FileAttachment(version.Path, version.OriginalName)
}
