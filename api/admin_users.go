package api

import (
	"net/http"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminUserList returns every user with their role. Guarded by manage_users.
func (a *API) AdminUserList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var users []model.User

	err := a.DB.
		Order("created_at desc").
		Find(&users).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list users", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
	})
}
