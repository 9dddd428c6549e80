package api

import (
	"net/http"

	"github.com/you-sk/web-storage-service/model"
	"github.com/you-sk/web-storage-service/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VersionUpload overwrites a file's content with a new upload. The previous
// live state is snapshotted first so it stays restorable, then the live row
// takes on the new blob. Both writes happen in one transaction; the unique
// (file_id, version_number) index turns a numbering race into a retryable
// failure instead of a duplicate.
func (a *API) VersionUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	fileID, ok := pathID(c, "id")
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	status, mimeType, err := validators.FileValidator(fh)
	if err != nil {
		c.AbortWithStatusJSON(status, gin.H{
			"error":     err.Error(),
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

	// New-version blobs live under the versions subtree; the old blob
	// stays put, referenced by its snapshot row.
	filename, fullPath, err := a.Store.SaveVersionUpload(fh)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store new version blob", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	changeDescription := c.PostForm("change_description")
	if changeDescription == "" {
		changeDescription = "Updated file"
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
			ChangeDescription: "Previous version before update",
			CreatedBy:         userID,
		}

		if err := tx.Create(&snapshot).Error; err != nil {
			return err
		}

		updated := model.FileVersion{
			FileID:            file.ID,
			VersionNumber:     next + 1,
			Filename:          filename,
			OriginalName:      fh.Filename,
			Mimetype:          mimeType,
			Size:              fh.Size,
			Path:              fullPath,
			Metadata:          file.Metadata,
			ChangeDescription: changeDescription,
			CreatedBy:         userID,
		}

		if err := tx.Create(&updated).Error; err != nil {
			return err
		}

		return tx.
			Model(file).
			Updates(map[string]any{
				"filename":      filename,
				"original_name": fh.Filename,
				"mimetype":      mimeType,
				"size":          fh.Size,
				"path":          fullPath,
			}).
			Error
	})
	if err != nil {
		a.Store.Remove(fullPath)

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to record new version", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	file.Filename = filename
	file.OriginalName = fh.Filename
	file.Mimetype = mimeType
	file.Size = fh.Size
	file.Path = fullPath

	c.JSON(http.StatusCreated, gin.H{
		"message": "New version uploaded successfully",
		"file":    file,
	})
}

// nextVersionNumber returns max(version_number)+1 for the file, 1 when no
// versions exist yet.
func nextVersionNumber(tx *gorm.DB, fileID uint) (int, error) {
	var max int
	err := tx.
		Model(model.FileVersion{}).
		Where("file_id = ?", fileID).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&max).
		Error
	if err != nil {
		return 0, err
	}

	return max + 1, nil
}
