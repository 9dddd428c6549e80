package api

import (
	"net/http"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type folderMoveBody struct {
	ParentID *uint `json:"parent_id"`
}

// FolderMove reparents a folder. The new parent's ancestor chain is walked
// looking for the folder itself; moving a folder into its own subtree would
// orphan the whole branch, so that move is rejected.
func (a *API) FolderMove(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	folderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var data folderMoveBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
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

	if data.ParentID != nil {
		owned, err := a.folderOwned(userID, *data.ParentID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check parent folder", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if !owned {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Parent folder not found",
				"requestID": requestID,
			})
			return
		}

		// Walk up from the destination. Hitting the folder being moved
		// means the destination sits inside its subtree.
		current := data.ParentID
		for current != nil {
			if *current == folderID {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"error":     "Cannot move folder into its own subfolder",
					"requestID": requestID,
				})
				return
			}

			var parent model.Folder
			err := a.DB.
				Select("parent_id").
				Where("id = ? AND user_id = ?", *current, userID).
				First(&parent).
				Error
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					break
				}

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":     "Internal server error",
					"requestID": requestID,
				})

				zap.L().Error("Failed to walk ancestor chain", zap.Error(err), zap.String("requestID", requestID))
				return
			}

			current = parent.ParentID
		}
	}

	dup, err := a.siblingNameTaken(userID, data.ParentID, folder.Name, folder.ID)
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
			"error":     "A folder with this name already exists in the destination",
			"requestID": requestID,
		})
		return
	}

	err = a.DB.
		Model(&folder).
		Update("parent_id", data.ParentID).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to move folder", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Folder moved successfully",
	})
}
