package api

import (
	"net/http"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) TagList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var tags []model.Tag
	err := a.DB.
		Order("name asc").
		Find(&tags).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list tags", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tags": tags,
	})
}
