package api

import (
	"net/http"
	"strings"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type folderCreateBody struct {
	Name     string `json:"name"`
	ParentID *uint  `json:"parent_id"`
}

func (a *API) FolderCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	var data folderCreateBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})
		return
	}

	data.Name = strings.TrimSpace(data.Name)
	if data.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Folder name is required",
			"requestID": requestID,
		})
		return
	}

	if data.ParentID != nil {
		var count int64
		err := a.DB.
			Model(model.Folder{}).
			Where("id = ? AND user_id = ?", *data.ParentID, userID).
			Count(&count).
			Error
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check parent folder", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if count == 0 {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Parent folder not found",
				"requestID": requestID,
			})
			return
		}
	}

	dup, err := a.siblingNameTaken(userID, data.ParentID, data.Name, 0)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check for duplicate folder name", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if dup {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":     "A folder with this name already exists in this location",
			"requestID": requestID,
		})
		return
	}

	folder := model.Folder{
		UserID:   userID,
		Name:     data.Name,
		ParentID: data.ParentID,
	}

	if err := a.DB.Create(&folder).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create folder", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Folder created successfully",
		"folder":  folder,
	})
}

// siblingNameTaken reports whether another folder with the same name exists
// under the same parent. excludeID skips the folder itself on rename/move.
func (a *API) siblingNameTaken(userID uint, parentID *uint, name string, excludeID uint) (bool, error) {
	q := a.DB.
		Model(model.Folder{}).
		Where("user_id = ? AND name = ? AND id != ?", userID, name, excludeID)

	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// folderOwned reports whether the folder exists and belongs to the user.
func (a *API) folderOwned(userID, folderID uint) (bool, error) {
	var count int64
	err := a.DB.
		Model(model.Folder{}).
		Where("id = ? AND user_id = ?", folderID, userID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
