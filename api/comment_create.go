package api

import (
	"net/http"
	"strings"

	"github.com/you-sk/web-storage-service/internal/access"
	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type commentCreateBody struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id"`
}

// CommentCreate adds a comment, optionally as a reply. The parent must be a
// comment on the same file.
func (a *API) CommentCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	fileID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var data commentCreateBody
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

	allowed, err := a.Checker.CanAccessFile(fileID, userID, model.FilePermView)
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

		zap.L().Error("Failed to check file access", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !allowed {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "You don't have access to this file",
			"requestID": requestID,
		})
		return
	}

	if data.ParentID != nil {
		var parent model.Comment
		err := a.DB.
			Select("id, file_id").
			Where("id = ?", *data.ParentID).
			First(&parent).
			Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
					"error":     "Parent comment not found",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to fetch parent comment", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if parent.FileID != fileID {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Parent comment belongs to a different file",
				"requestID": requestID,
			})
			return
		}
	}

	comment := model.Comment{
		FileID:   fileID,
		UserID:   userID,
		Content:  data.Content,
		ParentID: data.ParentID,
	}

	if err := a.DB.Create(&comment).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create comment", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment added successfully",
		"comment": comment,
	})
}
