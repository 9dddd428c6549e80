package api

import (
	"net/http"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CommentDelete removes the user's own comment together with its replies.
// Replies go explicitly so the behavior doesn't depend on driver-level
// cascade support.
func (a *API) CommentDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	commentID, ok := pathID(c, "id")
	if !ok {
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

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("parent_id = ?", comment.ID).
			Delete(model.Comment{}).
			Error; err != nil {
			return err
		}

		return tx.Delete(&comment).Error
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete comment", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted successfully",
	})
}
