package api

import (
	"net/http"
	"strconv"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FileList returns the user's active files. The folder_id query parameter
// narrows the listing: a numeric ID scopes to that folder, "root" to files
// outside any folder, absent means everything.
func (a *API) FileList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	q := a.DB.
		Where("user_id = ? AND deleted_at IS NULL", userID)

	switch raw := c.Query("folder_id"); raw {
	case "":
	case "root":
		q = q.Where("folder_id IS NULL")
	default:
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid folder ID provided",
				"requestID": requestID,
			})
			return
		}

		q = q.Where("folder_id = ?", uint(id))
	}

	var files []model.File
	if err := q.Order("created_at desc").Find(&files).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list files", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"files": files,
	})
}
