package api

import (
	"net/http"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileTagList returns the tags assigned to one of the user's files.
func (a *API) FileTagList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	fileID, ok := pathID(c, "fileID")
	if !ok {
		return
	}

	file, err := a.ownedFile(userID, fileID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if file == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "File not found",
			"requestID": requestID,
		})
		return
	}

	var tags []model.Tag
	err = a.DB.
		Joins("JOIN file_tags ON file_tags.tag_id = tags.id").
		Where("file_tags.file_id = ?", fileID).
		Order("tags.name asc").
		Find(&tags).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list file tags", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tags": tags,
	})
}

type fileTagSetBody struct {
	TagIDs []uint `json:"tag_ids"`
}

// FileTagSet replaces a file's tag assignments with the given set. Sending
// an empty list clears them.
func (a *API) FileTagSet(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	fileID, ok := pathID(c, "fileID")
	if !ok {
		return
	}

	var data fileTagSetBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})
		return
	}

	file, err := a.ownedFile(userID, fileID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if file == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "File not found",
			"requestID": requestID,
		})
		return
	}

	if len(data.TagIDs) > 0 {
		var count int64
		err := a.DB.
			Model(model.Tag{}).
			Where("id IN ?", data.TagIDs).
			Count(&count).
			Error
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check tags", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if count != int64(len(data.TagIDs)) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "One or more tags not found",
				"requestID": requestID,
			})
			return
		}
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM file_tags WHERE file_id = ?", fileID).Error; err != nil {
			return err
		}

		for _, tagID := range data.TagIDs {
			if err := tx.Exec(
				"INSERT INTO file_tags (file_id, tag_id) VALUES (?, ?)", fileID, tagID,
			).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to set file tags", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tags updated successfully",
	})
}
