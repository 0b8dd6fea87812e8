package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SharedWithMe returns the files other users actively share with the
// caller's email
func (a *API) SharedWithMe(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userEmail := c.MustGet("userEmail").(string)

	files, err := a.Resolver.SharedWithMe(userEmail)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to resolve shared-with-me view", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, files)
}

// SharedByMe returns the caller's active outgoing grants for the
// manage-my-shares view
func (a *API) SharedByMe(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	grants, err := a.Resolver.SharedByMe(userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to resolve shared-by-me view", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, grants)
}
