package api

import (
	"net/http"
	"strings"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type folderRenameBody struct {
	Name string `json:"name"`
}

func (a *API) FolderRename(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	folderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var data folderRenameBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})
		return
	}

	data.Name = strings.TrimSpace(data.Name)
	if data.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Folder name is required",
			"requestID": requestID,
		})
		return
	}

	var folder model.Folder
	err := a.DB.
		Where("id = ? AND user_id = ?", folderID, userID).
		First(&folder).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Folder not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch folder", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	dup, err := a.siblingNameTaken(userID, folder.ParentID, data.Name, folder.ID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check for duplicate folder name", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if dup {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":     "A folder with this name already exists in this location",
			"requestID": requestID,
		})
		return
	}

	err = a.DB.
		Model(&folder).
		Update("name", data.Name).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to rename folder", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Folder renamed successfully",
		"folder":  folder,
	})
}
