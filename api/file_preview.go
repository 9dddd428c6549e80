package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxTextPreview = 10_000

// FilePreview serves the blob inline for previewable types. Images and PDFs
// stream as-is, text is truncated, everything else is refused.
func (a *API) FilePreview(c *gin.Context) {
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

	switch {
	case strings.HasPrefix(file.Mimetype, "image/"), file.Mimetype == "application/pdf":
		c.Header("Content-Disposition", `inline; filename="`+file.OriginalName+`"`)
		c.File(file.Path)
	case strings.HasPrefix(file.Mimetype, "text/"), file.Mimetype == "application/json":
		data, err := os.ReadFile(file.Path)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to read blob for preview", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		truncated := false
		if len(data) > maxTextPreview {
			data = data[:maxTextPreview]
			truncated = true
		}

		c.JSON(http.StatusOK, gin.H{
			"content":   string(data),
			"truncated": truncated,
		})
	default:
		c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
			"error":     "Preview is not available for this file type",
			"requestID": requestID,
		})
	}
}
