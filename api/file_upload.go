package api

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/you-sk/web-storage-service/model"
	"github.com/you-sk/web-storage-service/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) FileUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	fh, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	var folderID *uint
	if raw := c.PostForm("folder_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid folder ID provided",
				"requestID": requestID,
			})
			return
		}

		v := uint(id)
		folderID = &v

		owned, err := a.folderOwned(userID, v)
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

	file, status, err := a.saveOneUpload(userID, fh, folderID, c.PostForm("metadata"))
	if err != nil {
		c.AbortWithStatusJSON(status, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})

		if status == http.StatusInternalServerError {
			zap.L().Error("Failed to store upload", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded successfully",
		"file":    file,
	})
}

// saveOneUpload validates the upload, writes the blob and inserts the file
// row. The blob is removed again if the insert fails.
func (a *API) saveOneUpload(userID uint, fh *multipart.FileHeader, folderID *uint, metadata string) (*model.File, int, error) {
	status, mimeType, err := validators.FileValidator(fh)
	if err != nil {
		return nil, status, err
	}

	filename, fullPath, err := a.Store.SaveUpload(fh)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	file := model.File{
		UserID:       userID,
		Filename:     filename,
		OriginalName: fh.Filename,
		Mimetype:     mimeType,
		Size:         fh.Size,
		Path:         fullPath,
		Metadata:     metadata,
		FolderID:     folderID,
	}

	if err := a.DB.Create(&file).Error; err != nil {
		a.Store.Remove(fullPath)
		return nil, http.StatusInternalServerError, err
	}

	return &file, 0, nil
}
