package middleware

import (
	"net/http"
	"strconv"

	"github.com/you-sk/web-storage-service/internal/access"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RequireRolePermission guards an endpoint behind a named capability from
// the permissions catalog. Must run after the JWT middleware.
func RequireRolePermission(d *gorm.DB, name string) gin.HandlerFunc {
	checker := access.NewChecker(d)

	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)
		userID := c.MustGet("userID").(uint)

		ok, err := checker.HasRolePermission(userID, name)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check role permission", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     "Insufficient permissions",
				"requestID": requestID,
			})
			return
		}

		c.Next()
	}
}

// RequireAdmin guards an endpoint behind the admin role.
func RequireAdmin(d *gorm.DB) gin.HandlerFunc {
	checker := access.NewChecker(d)

	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)
		userID := c.MustGet("userID").(uint)

		ok, err := checker.IsAdmin(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check admin role", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     "Admin access required",
				"requestID": requestID,
			})
			return
		}

		c.Next()
	}
}

// RequireFilePermission guards a file endpoint behind the ordered access
// predicate (owner, admin, explicit grant, public view).
func RequireFilePermission(d *gorm.DB, perm string) gin.HandlerFunc {
	checker := access.NewChecker(d)

	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)
		userID := c.MustGet("userID").(uint)

		idStr := c.Param("id")
		if idStr == "" {
			idStr = c.Param("fileID")
		}

		fileID, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid file ID",
				"requestID": requestID,
			})
			return
		}

		ok, err := checker.CanAccessFile(uint(fileID), userID, perm)
		if err != nil {
			if err == access.ErrNotFound {
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

			zap.L().Error("Failed to check file permission", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     "Insufficient permissions for this file",
				"requestID": requestID,
			})
			return
		}

		c.Next()
	}
}
