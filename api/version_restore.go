package api

import (
	"fmt"
	"net/http"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VersionRestore rolls a file back to a historical snapshot. The current
// live state is snapshotted first, then the historical blob is copied into
// the main root under a fresh name. The historical blob itself is never
// moved, so the version stays restorable again later.
func (a *API) VersionRestore(c *gin.Context) {
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

	if file == nil || file.DeletedAt != nil {
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

	filename, fullPath, err := a.Store.CopyToRoot(version.Path, version.OriginalName)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to copy version blob", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		next, err := nextVersionNumber(tx, file.ID)
		if err != nil {
			return err
		}

		snapshot := model.FileVersion{
			FileID:            file.ID,
			VersionNumber:     next,
			Filename:          file.Filename,
			OriginalName:      file.OriginalName,
			Mimetype:          file.Mimetype,
			Size:              file.Size,
			Path:              file.Path,
			Metadata:          file.Metadata,
			ChangeDescription: fmt.Sprintf("Before restoring to version %d", version.VersionNumber),
			CreatedBy:         userID,
		}

		if err := tx.Create(&snapshot).Error; err != nil {
			return err
		}

		return tx.
			Model(file).
			Updates(map[string]any{
				"filename":      filename,
				"original_name": version.OriginalName,
				"mimetype":      version.Mimetype,
				"size":          version.Size,
				"path":          fullPath,
				"metadata":      version.Metadata,
			}).
			Error
	})
	if err != nil {
		a.Store.Remove(fullPath)

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to restore version", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	file.Filename = filename
	file.OriginalName = version.OriginalName
	file.Mimetype = version.Mimetype
	file.Size = version.Size
	file.Path = fullPath
	file.Metadata = version.Metadata

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("File restored to version %d", version.VersionNumber),
		"file":    file,
	})
}
