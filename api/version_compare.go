package api

import (
	"net/http"
	"strconv"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VersionCompare diffs two versions of a file by size and timestamp. The
// live state participates under its synthesized number.
func (a *API) VersionCompare(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	fileID, ok := pathID(c, "id")
	if !ok {
		return
	}

	v1, err1 := strconv.Atoi(c.Query("v1"))
	v2, err2 := strconv.Atoi(c.Query("v2"))
	if err1 != nil || err2 != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Both v1 and v2 version numbers are required",
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

	var versions []model.FileVersion
	err = a.DB.
		Where("file_id = ?", fileID).
		Order("version_number desc").
		Find(&versions).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list versions", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	current := liveVersion(file, versions)

	lookup := func(n int) (model.FileVersion, bool) {
		if n == current.VersionNumber {
			return current, true
		}
		for _, v := range versions {
			if v.VersionNumber == n {
				return v, true
			}
		}
		return model.FileVersion{}, false
	}

	a1, ok1 := lookup(v1)
	a2, ok2 := lookup(v2)
	if !ok1 || !ok2 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "Version not found",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"v1":        a1,
		"v2":        a2,
		"size_diff": a2.Size - a1.Size,
		"time_diff": a2.CreatedAt.Sub(a1.CreatedAt).String(),
	})
}
