package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FileSearch filters the user's active files. All supplied filters apply
// together: query substring-matches the display name and metadata, type
// substring-matches the MIME type, tags matches files carrying any of the
// listed tags, folder_id scopes to one folder.
func (a *API) FileSearch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	q := a.DB.
		Model(model.File{}).
		Where("files.user_id = ? AND files.deleted_at IS NULL", userID)

	if query := strings.TrimSpace(c.Query("query")); query != "" {
		like := "%" + query + "%"
		q = q.Where("files.original_name LIKE ? OR files.metadata LIKE ?", like, like)
	}

	if mime := strings.TrimSpace(c.Query("type")); mime != "" {
		q = q.Where("files.mimetype LIKE ?", "%"+mime+"%")
	}

	if raw := c.Query("folder_id"); raw != "" {
		if raw == "root" {
			q = q.Where("files.folder_id IS NULL")
		} else {
			id, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"error":     "Invalid folder ID provided",
					"requestID": requestID,
				})
				return
			}

			q = q.Where("files.folder_id = ?", uint(id))
		}
	}

	if raw := c.Query("tags"); raw != "" {
		tagIDs := []uint{}
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"error":     "Invalid tag ID provided",
					"requestID": requestID,
				})
				return
			}

			tagIDs = append(tagIDs, uint(id))
		}

		// Any of the requested tags matches; grouping dedupes files
		// that carry several of them
		q = q.
			Joins("JOIN file_tags ON file_tags.file_id = files.id").
			Where("file_tags.tag_id IN ?", tagIDs).
			Group("files.id")
	}

	var files []model.File
	if err := q.Order("files.created_at desc").Find(&files).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to search files", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"files": files,
	})
}
