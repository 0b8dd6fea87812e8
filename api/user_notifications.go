package api

import (
	"driveshare/file-api/model"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type notificationsBody struct {
	Enabled *bool `json:"enabled"`
}

// UserNotifications toggles whether the user receives share
// notification mails
func (a *API) UserNotifications(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data notificationsBody
	if err := c.BindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})

		zap.L().Error("Failed to read JSON body", zap.Error(err))
		return
	}

	if data.Enabled == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No enabled value provided",
			"requestID": requestID,
		})
		return
	}

	err := a.DB.
		Model(model.User{}).
		Where("id = ?", userID).
		Update("notifications_enabled", *data.Enabled).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update notification setting", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"enabled": *data.Enabled})
}
