package api

import (
	"net/http"
	"slices"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var validFilePerms = []string{
	model.FilePermView,
	model.FilePermEdit,
	model.FilePermDelete,
	model.FilePermShare,
}

type filePermissionRow struct {
	model.FilePermission
	Username string `json:"username"`
}

// FilePermissionList returns the per-user grants on a file, with grantee
// usernames resolved. Only the owner and admins may inspect grants.
func (a *API) FilePermissionList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	fileID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if ok := a.requireFileOwner(c, userID, fileID); !ok {
		return
	}

	var grants []filePermissionRow
	err := a.DB.
		Model(model.FilePermission{}).
		Select("file_permissions.*, users.username").
		Joins("JOIN users ON users.id = file_permissions.user_id").
		Where("file_permissions.file_id = ?", fileID).
		Order("users.username asc, file_permissions.permission asc").
		Scan(&grants).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list file permissions", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"permissions": grants,
	})
}

type filePermissionGrantBody struct {
	UserID     uint   `json:"user_id"`
	Permission string `json:"permission"`
}

// FilePermissionGrant gives another user a capability on a file. The owner,
// admins and holders of a share grant may hand out grants.
func (a *API) FilePermissionGrant(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	fileID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var data filePermissionGrantBody
	if err := c.ShouldBind(&data); err != nil || data.UserID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "user_id and permission are required",
			"requestID": requestID,
		})
		return
	}

	if !slices.Contains(validFilePerms, data.Permission) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid permission, must be one of view, edit, delete, share",
			"requestID": requestID,
		})
		return
	}

	var file model.File
	err := a.DB.
		Where("id = ?", fileID).
		First(&file).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "File not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	allowed, err := a.Checker.CanAccessFile(fileID, userID, model.FilePermShare)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check share access", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !allowed {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "You don't have permission to share this file",
			"requestID": requestID,
		})
		return
	}

	if data.UserID == file.UserID {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "The owner already has full access",
			"requestID": requestID,
		})
		return
	}

	var count int64
	err = a.DB.
		Model(model.User{}).
		Where("id = ?", data.UserID).
		Count(&count).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check grantee", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if count == 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "User not found",
			"requestID": requestID,
		})
		return
	}

	grant := model.FilePermission{
		FileID:     fileID,
		UserID:     data.UserID,
		Permission: data.Permission,
	}

	err = a.DB.
		Where(&grant).
		Attrs(model.FilePermission{GrantedBy: userID}).
		FirstOrCreate(&grant).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create grant", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Permission granted successfully",
		"permission": grant,
	})
}

// FilePermissionRevoke removes one grant from a file. Owner and admins only.
func (a *API) FilePermissionRevoke(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	fileID, ok := pathID(c, "id")
	if !ok {
		return
	}

	granteeID, ok := pathID(c, "userID")
	if !ok {
		return
	}

	permission := c.Param("permission")
	if !slices.Contains(validFilePerms, permission) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid permission, must be one of view, edit, delete, share",
			"requestID": requestID,
		})
		return
	}

	if ok := a.requireFileOwner(c, userID, fileID); !ok {
		return
	}

	res := a.DB.
		Where("file_id = ? AND user_id = ? AND permission = ?", fileID, granteeID, permission).
		Delete(model.FilePermission{})
	if res.Error != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to revoke grant", zap.Error(res.Error), zap.String("requestID", requestID))
		return
	}

	if res.RowsAffected == 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "Permission grant not found",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Permission revoked successfully",
	})
}

// requireFileOwner answers whether the user owns the file or is an admin,
// writing the error response itself when not.
func (a *API) requireFileOwner(c *gin.Context, userID, fileID uint) bool {
	requestID := c.MustGet("requestID").(string)

	var file model.File
	err := a.DB.
		Select("id, user_id").
		Where("id = ?", fileID).
		First(&file).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "File not found",
				"requestID": requestID,
			})
			return false
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch file", zap.Error(err), zap.String("requestID", requestID))
		return false
	}

	if file.UserID == userID {
		return true
	}

	admin, err := a.Checker.IsAdmin(userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check admin role", zap.Error(err), zap.String("requestID", requestID))
		return false
	}

	if !admin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "Only the file owner can manage permissions",
			"requestID": requestID,
		})
		return false
	}

	return true
}
