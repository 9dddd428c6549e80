package api

import (
	"net/http"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PermissionList returns the capability catalog.
func (a *API) PermissionList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var permissions []model.Permission
	err := a.DB.
		Order("name asc").
		Find(&permissions).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list permissions", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"permissions": permissions,
	})
}
