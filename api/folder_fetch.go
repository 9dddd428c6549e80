package api

import (
	"net/http"
	"strconv"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type breadcrumb struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// FolderFetch returns a folder's subfolders, active files and breadcrumb
// path. The literal "root" addresses the top level, which has no folder row.
func (a *API) FolderFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	var folderID *uint

	if raw := c.Param("id"); raw != "root" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid folder ID provided",
				"requestID": requestID,
			})
			return
		}

		v := uint(id)
		folderID = &v
	}

	var folder *model.Folder

	if folderID != nil {
		folder = &model.Folder{}

		err := a.DB.
			Where("id = ? AND user_id = ?", *folderID, userID).
			First(folder).
			Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
					"error":     "Folder not found",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to fetch folder", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	}

	scope := func(q *gorm.DB, column string) *gorm.DB {
		if folderID == nil {
			return q.Where(column + " IS NULL")
		}
		return q.Where(column+" = ?", *folderID)
	}

	var subfolders []model.Folder
	err := scope(a.DB.Where("user_id = ?", userID), "parent_id").
		Order("name asc").
		Find(&subfolders).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list subfolders", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var files []model.File
	err = scope(a.DB.Where("user_id = ? AND deleted_at IS NULL", userID), "folder_id").
		Order("original_name asc").
		Find(&files).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list folder files", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	breadcrumbs, err := a.folderBreadcrumbs(userID, folderID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to build breadcrumbs", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"folder":      folder,
		"breadcrumbs": breadcrumbs,
		"subfolders":  subfolders,
		"files":       files,
	})
}

// folderBreadcrumbs walks parent pointers from the folder up to the root
// and returns the path in root-first order. The walk stops quietly on a
// dangling parent reference.
func (a *API) folderBreadcrumbs(userID uint, folderID *uint) ([]breadcrumb, error) {
	breadcrumbs := []breadcrumb{}

	current := folderID
	for current != nil {
		var folder model.Folder

		err := a.DB.
			Select("id, name, parent_id").
			Where("id = ? AND user_id = ?", *current, userID).
			First(&folder).
			Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				break
			}
			return nil, err
		}

		breadcrumbs = append([]breadcrumb{{ID: folder.ID, Name: folder.Name}}, breadcrumbs...)
		current = folder.ParentID
	}

	return breadcrumbs, nil
}
