package api

import (
	"net/http"
	"strings"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type commentEditBody struct {
	Content string `json:"content"`
}

// CommentEdit updates the content of the user's own comment.
func (a *API) CommentEdit(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	commentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var data commentEditBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})
		return
	}

	data.Content = strings.TrimSpace(data.Content)
	if data.Content == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Comment content is required",
			"requestID": requestID,
		})
		return
	}

	var comment model.Comment
	err := a.DB.
		Where("id = ? AND user_id = ?", commentID, userID).
		First(&comment).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Comment not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch comment", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.DB.
		Model(&comment).
		Update("content", data.Content).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update comment", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	comment.Content = data.Content

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment updated successfully",
		"comment": comment,
	})
}
