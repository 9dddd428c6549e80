package api

import (
	"net/http"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// publicFile resolves a capability token to a shared file. Trashed files
// and revoked tokens both look like a plain miss.
func (a *API) publicFile(c *gin.Context) (*model.File, bool) {
	requestID := c.MustGet("requestID").(string)

	var file model.File
	err := a.DB.
		Where("public_id = ? AND is_public = ? AND deleted_at IS NULL", c.Param("publicID"), true).
		First(&file).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "File not found",
				"requestID": requestID,
			})
			return nil, false
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to resolve public file", zap.Error(err), zap.String("requestID", requestID))
		return nil, false
	}

	if !a.Store.Exists(file.Path) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "File not found on disk",
			"requestID": requestID,
		})
		return nil, false
	}

	return &file, true
}

// GET /api/public/files/:publicID -> streams the shared blob inline
func (a *API) PublicFileServe(c *gin.Context) {
	file, ok := a.publicFile(c)
	if !ok {
		return
	}

	c.Header("Content-Type", file.Mimetype)
	c.Header("Content-Disposition", `inline; filename="`+file.OriginalName+`"`)
	c.File(file.Path)
}

// GET /api/public/files/:publicID/info -> shared file metadata, no blob
func (a *API) PublicFileInfo(c *gin.Context) {
	file, ok := a.publicFile(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"file": gin.H{
			"original_name": file.OriginalName,
			"mimetype":      file.Mimetype,
			"size":          file.Size,
			"created_at":    file.CreatedAt,
		},
	})
}

// GET /api/public/files/:publicID/download -> attachment download
func (a *API) PublicFileDownload(c *gin.Context) {
	file, ok := a.publicFile(c)
	if !ok {
		return
	}

	c.FileAttachment(file.Path, file.OriginalName)
}
