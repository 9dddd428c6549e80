package api

import (
	"net/http"
	"slices"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RolePermissionList returns the capabilities granted to a role.
func (a *API) RolePermissionList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	role := c.Param("role")
	if !slices.Contains(validRoles, role) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid role provided",
			"requestID": requestID,
		})
		return
	}

	var permissions []model.Permission
	err := a.DB.
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role = ?", role).
		Order("permissions.name asc").
		Find(&permissions).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list role permissions", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"role":        role,
		"permissions": permissions,
	})
}

type rolePermissionBody struct {
	PermissionID uint `json:"permission_id"`
}

// RolePermissionAssign grants a catalog capability to a role.
func (a *API) RolePermissionAssign(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	role := c.Param("role")
	if !slices.Contains(validRoles, role) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid role provided",
			"requestID": requestID,
		})
		return
	}

	var data rolePermissionBody
	if err := c.ShouldBind(&data); err != nil || data.PermissionID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "permission_id is required",
			"requestID": requestID,
		})
		return
	}

	var permission model.Permission
	err := a.DB.
		Where("id = ?", data.PermissionID).
		First(&permission).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Permission not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch permission", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	grant := model.RolePermission{
		Role:         role,
		PermissionID: data.PermissionID,
	}

	err = a.DB.
		Where(&grant).
		FirstOrCreate(&grant).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to assign role permission", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Permission assigned to role",
		"role":       role,
		"permission": permission,
	})
}

// RolePermissionRemove revokes a catalog capability from a role.
func (a *API) RolePermissionRemove(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	role := c.Param("role")
	if !slices.Contains(validRoles, role) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid role provided",
			"requestID": requestID,
		})
		return
	}

	permissionID, ok := pathID(c, "permissionID")
	if !ok {
		return
	}

	res := a.DB.
		Where("role = ? AND permission_id = ?", role, permissionID).
		Delete(model.RolePermission{})
	if res.Error != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to remove role permission", zap.Error(res.Error), zap.String("requestID", requestID))
		return
	}

	if res.RowsAffected == 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "Role permission not found",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Permission removed from role",
	})
}
