package api

import (
	"driveshare/file-api/model"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fileEditOpts struct {
	Name   *string `json:"name"`
	Public *bool   `json:"public"`
}

// FileEdit renames a file or flips its public flag. Only the owner can
// do either, the rest of the metadata is immutable after upload
func (a *API) FileEdit(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	fileID := c.Param("id")
	if fileID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No file ID provided",
			"requestID": requestID,
		})

		return
	}

	var data fileEditOpts
	if err := c.BindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})

		zap.L().Error("Failed to read JSON body", zap.Error(err))
		return
	}

	if data.Name == nil && data.Public == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Nothing to change",
			"requestID": requestID,
		})
		return
	}

	if data.Name != nil && strings.TrimSpace(*data.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No new name provided",
			"requestID": requestID,
		})
		return
	}

	var file model.File
	err := a.DB.
		Where("user_id = ? AND id = ?", userID, fileID).
		First(&file).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "File not found. It either doesn't exist or you don't own it",
				"requestID": requestID,
			})

			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch file from db", zap.Error(err))
		return
	}

	updates := map[string]any{}

	if data.Name != nil {
		file.OriginalName = *data.Name
		updates["original_name"] = *data.Name
	}

	if data.Public != nil {
		file.Public = *data.Public
		updates["public"] = *data.Public
	}

	err = a.DB.
		Model(model.File{}).
		Where("id = ?", file.ID).
		Updates(updates).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update file entry", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, file)
}
