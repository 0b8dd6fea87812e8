package api

import (
	"driveshare/file-api/internal/access"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type shareRevokeBody struct {
	FileID uint   `json:"fileId"`
	Email  string `json:"email"`
}

// ShareRevoke deactivates an active share. Revoking a pair that has no
// active share reports an error instead of silently succeeding so the
// frontend notices when its list went stale
func (a *API) ShareRevoke(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data shareRevokeBody
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

	err := a.Shares.Revoke(userID, data.FileID, data.Email)
	if err != nil {
		switch err {
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
		case access.ErrNoActiveShare:
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to revoke share", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"revoked": true})
}
