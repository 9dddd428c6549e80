package api

import (
	"net/http"

	"github.com/you-sk/web-storage-service/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VersionList returns a file's version history, newest first, with the live
// state synthesized on top as version max+1. The live row has no version
// row of its own until the next overwrite snapshots it.
func (a *API) VersionList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	fileID, ok := pathID(c, "id")
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

	c.JSON(http.StatusOK, gin.H{
		"current":  current,
		"versions": versions,
	})
}

// liveVersion synthesizes a version entry for the file's live state,
// numbered one past the highest stored snapshot.
func liveVersion(file *model.File, versions []model.FileVersion) model.FileVersion {
	next := 1
	for _, v := range versions {
		if v.VersionNumber >= next {
			next = v.VersionNumber + 1
		}
	}

	return model.FileVersion{
		FileID:            file.ID,
		VersionNumber:     next,
		Filename:          file.Filename,
		OriginalName:      file.OriginalName,
		Mimetype:          file.Mimetype,
		Size:              file.Size,
		Path:              file.Path,
		Metadata:          file.Metadata,
		ChangeDescription: "Current version",
		CreatedBy:         file.UserID,
		CreatedAt:         file.UpdatedAt,
	}
}
