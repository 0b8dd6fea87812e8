package api

import (
	"driveshare/file-api/internal/access"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type shareGrantBody struct {
	FileID uint   `json:"fileId"`
	Email  string `json:"email"`
}

func (a *API) ShareGrant(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data shareGrantBody
	if err := c.BindJSON(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})

		zap.L().Error("Failed to read JSON body", zap.Error(err))
		return
	}

	if data.FileID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file ID provided",
			"requestID": requestID,
		})
		return
	}

	share, err := a.Shares.Grant(userID, data.FileID, data.Email)
	if err != nil {
		switch err {
		case access.ErrInvalidRecipient:
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
		case access.ErrFileNotFound:
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
		case access.ErrNotOwner:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to grant share", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, share)
}
