package api

import (
	"net/http"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TagDelete removes a tag globally. Assignments in file_tags go with it.
func (a *API) TagDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	tagID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var tag model.Tag
	err := a.DB.
		Where("id = ?", tagID).
		First(&tag).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Tag not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch tag", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM file_tags WHERE tag_id = ?", tagID).Error; err != nil {
			return err
		}

		return tx.Delete(&tag).Error
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete tag", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tag deleted successfully",
	})
}
