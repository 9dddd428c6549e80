package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxBulkFiles = 10

// FileUploadBulk accepts up to 10 files in one request. Each file succeeds
// or fails on its own; failures are itemized in the response.
func (a *API) FileUploadBulk(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	form, err := c.MultipartForm()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed multipart request",
			"requestID": requestID,
		})
		return
	}

	uploads := form.File["files"]
	if len(uploads) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No files provided",
			"requestID": requestID,
		})
		return
	}

	if len(uploads) > maxBulkFiles {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Too many files, at most 10 are allowed per request",
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

	uploaded := make([]any, 0, len(uploads))
	failed := []gin.H{}

	for _, fh := range uploads {
		file, _, err := a.saveOneUpload(userID, fh, folderID, "")
		if err != nil {
			failed = append(failed, gin.H{
				"filename": fh.Filename,
				"error":    err.Error(),
			})

			zap.L().Warn("Bulk upload item failed",
				zap.String("filename", fh.Filename),
				zap.Error(err),
				zap.String("requestID", requestID))
			continue
		}

		uploaded = append(uploaded, file)
	}

	if len(uploaded) == 0 {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "All uploads failed",
			"failed":    failed,
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Upload finished",
		"files":   uploaded,
		"failed":  failed,
	})
}
