package api

import (
	"net/http"
	"slices"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var validRoles = []string{model.RoleAdmin, model.RoleUser, model.RoleGuest}

type roleEditBody struct {
	Role string `json:"role"`
}

// UserRoleEdit changes another user's role. Guarded by manage_roles.
func (a *API) UserRoleEdit(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var data roleEditBody
	if err := c.ShouldBind(&data); err != nil || !slices.Contains(validRoles, data.Role) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Valid role is required (admin, user, or guest)",
			"requestID": requestID,
		})
		return
	}

	res := a.DB.
		Model(model.User{}).
		Where("id = ?", targetID).
		Update("role", data.Role)
	if res.Error != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update user role", zap.Error(res.Error), zap.String("requestID", requestID))
		return
	}

	if res.RowsAffected == 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "User not found",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User role updated successfully",
	})
}
