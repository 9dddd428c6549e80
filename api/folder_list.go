package api

import (
	"net/http"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FolderList returns every folder of the user, parents first so clients
// can rebuild the tree in one pass
func (a *API) FolderList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	var folders []model.Folder

	err := a.DB.
		Where("user_id = ?", userID).
		Order("parent_id asc, name asc").
		Find(&folders).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list folders", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"folders": folders,
	})
}
