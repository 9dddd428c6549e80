package api

import (
	"net/http"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VersionDelete drops a single snapshot from the history. The blob is only
// removed when no other row points at it; the newest snapshot shares its
// blob with the live file.
func (a *API) VersionDelete(c *gin.Context) {
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

	if version.Path != file.Path {
		var sharing int64
		err = a.DB.
			Model(model.FileVersion{}).
			Where("path = ? AND id != ?", version.Path, version.ID).
			Count(&sharing).
			Error
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check blob references", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if sharing == 0 {
			if err := a.Store.Remove(version.Path); err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":     "Internal server error",
					"requestID": requestID,
				})

				zap.L().Error("Failed to remove version blob", zap.Error(err), zap.String("requestID", requestID))
				return
			}
		}
	}

	if err := a.DB.Delete(&version).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete version", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Version deleted successfully",
	})
}
