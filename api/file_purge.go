package api

import (
	"net/http"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FilePurge permanently deletes a trashed file. The blob is removed first;
// a blob already missing on disk is tolerated so the row can always go.
// Versions, comments, grants and tag links are deleted alongside the row.
func (a *API) FilePurge(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	fileID, ok := pathID(c, "id")
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

	if file == nil || file.DeletedAt == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "File not found in trash",
			"requestID": requestID,
		})
		return
	}

	if err := a.purgeFile(file); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to purge file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File permanently deleted",
	})
}

// purgeFile removes a file's blobs and then everything that hangs off the
// row. SQLite doesn't enforce the declared cascades, so version rows,
// comments, grants and tag links are deleted explicitly, in one
// transaction with the file itself.
func (a *API) purgeFile(file *model.File) error {
	if err := a.Store.Remove(file.Path); err != nil {
		return err
	}

	var versionPaths []string
	err := a.DB.
		Model(model.FileVersion{}).
		Where("file_id = ?", file.ID).
		Pluck("path", &versionPaths).
		Error
	if err != nil {
		return err
	}

	for _, p := range versionPaths {
		if err := a.Store.Remove(p); err != nil {
			return err
		}
	}

	return a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM file_tags WHERE file_id = ?", file.ID).Error; err != nil {
			return err
		}

		if err := tx.Where("file_id = ?", file.ID).Delete(&model.FilePermission{}).Error; err != nil {
			return err
		}

		if err := tx.Where("file_id = ?", file.ID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("file_id = ?", file.ID).Delete(&model.FileVersion{}).Error; err != nil {
			return err
		}

		return tx.Delete(file).Error
	})
}
