package api

import (
	"net/http"
	"strings"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type tagCreateBody struct {
	Name string `json:"name"`
}

func (a *API) TagCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data tagCreateBody
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
			"error":     "Tag name is required",
			"requestID": requestID,
		})
		return
	}

	var count int64
	err := a.DB.
		Model(model.Tag{}).
		Where("name = ?", data.Name).
		Count(&count).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check for duplicate tag", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if count > 0 {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":     "A tag with this name already exists",
			"requestID": requestID,
		})
		return
	}

	tag := model.Tag{Name: data.Name}
	if err := a.DB.Create(&tag).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create tag", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tag created successfully",
		"tag":     tag,
	})
}
