package api

import (
	"net/http"

	"github.com/you-sk/web-storage-service/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type fileVisibilityBody struct {
	IsPublic *bool `json:"is_public"`
}

// FileVisibilityEdit toggles public sharing. Turning sharing on mints a
// fresh capability token, so a link invalidated by turning sharing off
// never comes back to life.
func (a *API) FileVisibilityEdit(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	fileID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var data fileVisibilityBody
	if err := c.ShouldBind(&data); err != nil || data.IsPublic == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "is_public is required",
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

	if file == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "File not found",
			"requestID": requestID,
		})
		return
	}

	updates := map[string]any{"is_public": *data.IsPublic}

	switch {
	case *data.IsPublic && !file.IsPublic:
		token, err := util.GenerateToken(16)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to generate public ID", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		updates["public_id"] = token
		file.PublicID = &token
	case !*data.IsPublic:
		updates["public_id"] = nil
		file.PublicID = nil
	}

	if err := a.DB.Model(file).Updates(updates).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update visibility", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	file.IsPublic = *data.IsPublic

	c.JSON(http.StatusOK, gin.H{
		"message": "Visibility updated successfully",
		"file":    file,
	})
}
