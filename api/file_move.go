package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type fileMoveBody struct {
	FolderID *uint `json:"folder_id"`
}

// FileMove places a file into another folder, or at the top level when
// folder_id is null.
func (a *API) FileMove(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	fileID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var data fileMoveBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})
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

	if file == nil || file.DeletedAt != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "File not found",
			"requestID": requestID,
		})
		return
	}

	if data.FolderID != nil {
		owned, err := a.folderOwned(userID, *data.FolderID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check target folder", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if !owned {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Folder not found",
				"requestID": requestID,
			})
			return
		}
	}

	err = a.DB.
		Model(file).
		Update("folder_id", data.FolderID).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to move file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	file.FolderID = data.FolderID

	c.JSON(http.StatusOK, gin.H{
		"message": "File moved successfully",
		"file":    file,
	})
}
