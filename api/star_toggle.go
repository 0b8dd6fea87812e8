package api

import (
	"driveshare/file-api/internal/access"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) StarToggle(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)
	userEmail := c.MustGet("userEmail").(string)

	fileID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "File ID is not a valid integer",
			"requestID": requestID,
		})
		return
	}

	starred, err := a.Stars.Toggle(userID, userEmail, uint(fileID))
	if err != nil {
		switch err {
		case access.ErrFileNotFound:
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
		case access.ErrNotVisible:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to toggle star", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"starred": starred})
}
