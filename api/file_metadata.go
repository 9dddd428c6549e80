package api

import (
	"encoding/json"
	"net/http"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fileMetadataBody struct {
	Metadata json.RawMessage `json:"metadata"`
}

// FileMetadataEdit replaces the file's metadata document. The document is
// stored as text and never interpreted, only its JSON shape is checked.
func (a *API) FileMetadataEdit(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	fileID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var data fileMetadataBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})
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

	metadata := ""
	if len(data.Metadata) > 0 {
		metadata = string(data.Metadata)
	}

	err = a.DB.
		Model(&file).
		Update("metadata", metadata).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update metadata", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	file.Metadata = metadata

	c.JSON(http.StatusOK, gin.H{
		"message": "Metadata updated successfully",
		"file":    file,
	})
}
