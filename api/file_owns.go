package api

import (
	"driveshare/file-api/model"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) FileOwns(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	fileID := c.Param("id")
	if fileID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file ID provided",
			"requestID": requestID,
		})
		return
	}

	var owns bool
	err := a.DB.
		Model(model.File{}).
		Where("id = ? AND user_id = ?", fileID, userID).
		Select("count(*) > 0").
		Find(&owns).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check if user owns a file", zap.Error(err))
		return
	}

	if owns {
		c.JSON(http.StatusOK, gin.H{"owns": true})
		return
	}

	c.JSON(http.StatusForbidden, gin.H{"owns": false})
}
