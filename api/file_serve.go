package api

import (
	"context"
	"driveshare/file-api/model"
	"net/http"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileServe streams a file's bytes. Public files are served to anyone,
// everything else needs the caller to be the owner or an active share
// recipient. The endpoint stays outside the JWT middleware so public
// links keep working without a cookie.
func (a *API) FileServe(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	fileID, err := strconv.Atoi(c.Param("fileID"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "File ID is not a valid integer",
			"requestID": requestID,
		})
		return
	}

	var file model.File

	err = a.DB.Where("id = ?", fileID).First(&file).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "File not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch file from db", zap.Error(err))
		return
	}

	if !file.Public {
		userID, userEmail, ok := a.identityFromCookie(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "You don't have access to this file",
				"requestID": requestID,
			})
			return
		}

		allowed, err := a.Resolver.HasAccess(file.ID, userID, userEmail)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to resolve file access", zap.Error(err))
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     "You don't have access to this file",
				"requestID": requestID,
			})
			return
		}
	}

	obj, err := a.S3.C.GetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: a.S3.Bucket,
		Key:    &file.S3Key,
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch file from S3", zap.Error(err))
		return
	}
	defer obj.Body.Close()

	err = a.DB.
		Model(model.File{}).
		Where("id = ?", file.ID).
		Update("views", gorm.Expr("views + 1")).
		Error
	if err != nil {
		zap.L().Error("Failed to increment view count", zap.Error(err))
	}

	c.Header("Content-Disposition", "inline; filename=\""+file.OriginalName+"\"")
	c.DataFromReader(http.StatusOK, file.Size, file.Format, obj.Body, nil)
}

// identityFromCookie resolves the caller without aborting the request,
// FileServe decides on its own what a missing identity means
func (a *API) identityFromCookie(c *gin.Context) (userID, email string, ok bool) {
	tokenStr, err := c.Cookie("auth_token")
	if err != nil {
		return "", "", false
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(viper.GetString("jwt.secret")), nil
	})
	if err != nil || !token.Valid {
		return "", "", false
	}

	claims, valid := token.Claims.(jwt.MapClaims)
	if !valid {
		return "", "", false
	}

	userID, valid = claims["user_id"].(string)
	if !valid {
		return "", "", false
	}

	var user model.User
	if err := a.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return "", "", false
	}

	return user.ID, user.Email, true
}
