package api

import (
	"net/http"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileFetch returns a single file record. Access was already settled by the
// permission middleware, so the lookup is by ID alone.
func (a *API) FileFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	fileID, ok := pathID(c, "id")
	if !ok {
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

	c.JSON(http.StatusOK, gin.H{
		"file": file,
	})
}

// ownedFile loads a file owned by the user, trashed or not. A nil file with
// a nil error means not found (or not owned, which looks identical).
func (a *API) ownedFile(userID, fileID uint) (*model.File, error) {
	var file model.File
	err := a.DB.
		Where("id = ? AND user_id = ?", fileID, userID).
		First(&file).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &file, nil
}
