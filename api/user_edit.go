package api

import (
	"net/http"
	"strings"

	"github.com/you-sk/web-storage-service/model"
	"github.com/you-sk/web-storage-service/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type profileEditBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserEdit updates the username and/or email of the authenticated user
func (a *API) UserEdit(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	var data profileEditBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})
		return
	}

	data.Username = strings.TrimSpace(data.Username)

	if data.Username == "" && data.Email == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "At least one field (username or email) must be provided",
			"requestID": requestID,
		})
		return
	}

	updates := map[string]any{}

	if data.Username != "" {
		if err := validators.UsernameValidator(data.Username); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		var taken bool
		err := a.DB.
			Model(model.User{}).
			Select("count(*) > 0").
			Where("username = ? AND id != ?", data.Username, userID).
			Find(&taken).
			Error
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check username uniqueness", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if taken {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":     "Username already taken",
				"requestID": requestID,
			})
			return
		}

		updates["username"] = data.Username
	}

	if data.Email != "" {
		if err := validators.EmailValidator(data.Email); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		var taken bool
		err := a.DB.
			Model(model.User{}).
			Select("count(*) > 0").
			Where("email = ? AND id != ?", data.Email, userID).
			Find(&taken).
			Error
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check email uniqueness", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if taken {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":     "Email already in use",
				"requestID": requestID,
			})
			return
		}

		updates["email"] = data.Email
	}

	err := a.DB.
		Model(model.User{}).
		Where("id = ?", userID).
		Updates(updates).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update user profile", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var user model.User
	if err := a.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch updated user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}
