package api

import (
	"net/http"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FolderDelete removes a folder and its entire subtree. Contained files are
// detached to the top level rather than deleted.
func (a *API) FolderDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	folderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	owned, err := a.folderOwned(userID, folderID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch folder", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !owned {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "Folder not found",
			"requestID": requestID,
		})
		return
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		ids, err := descendantFolderIDs(tx, userID, folderID)
		if err != nil {
			return err
		}

		if err := tx.
			Model(model.File{}).
			Where("folder_id IN ?", ids).
			Update("folder_id", nil).
			Error; err != nil {
			return err
		}

		return tx.
			Where("id IN ?", ids).
			Delete(model.Folder{}).
			Error
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete folder", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Folder deleted successfully",
	})
}

// descendantFolderIDs collects the folder and every folder below it with a
// breadth-first walk over parent_id.
func descendantFolderIDs(tx *gorm.DB, userID, folderID uint) ([]uint, error) {
	all := []uint{folderID}
	frontier := []uint{folderID}

	for len(frontier) > 0 {
		var next []uint
		err := tx.
			Model(model.Folder{}).
			Where("user_id = ? AND parent_id IN ?", userID, frontier).
			Pluck("id", &next).
			Error
		if err != nil {
			return nil, err
		}

		all = append(all, next...)
		frontier = next
	}

	return all, nil
}
