package api

import (
	"context"
	"driveshare/file-api/model"
	"driveshare/file-api/util"
	"driveshare/file-api/validators"
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const multipartLimit = 100 << 20

func (a *API) FileUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	if !strings.HasPrefix(c.Request.Header.Get("Content-Type"), "multipart/form-data") {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request",
			"requestID": requestID,
		})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to parse multipart form", zap.Error(err))
		return
	}

	files := form.File["file"]
	if len(files) <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	fh := files[0]

	code, format, f, err := validators.FileValidator(fh, a.DB, userID)
	if err != nil {
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to validate file", zap.Error(err))

			// That's to set the error into a general one for the users
			err = errors.New("internal server error")
		}

		c.AbortWithStatusJSON(code, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	fileKey := util.RandStr(10) + path.Ext(fh.Filename)

	if fh.Size > multipartLimit {
		u := manager.NewUploader(a.S3.C, func(u *manager.Uploader) {
			u.Concurrency = 5
			u.PartSize = 5 << 20
		})

		_, err = u.Upload(ctx, &s3.PutObjectInput{
			Bucket:        a.S3.Bucket,
			Key:           aws.String(fileKey),
			Body:          f,
			ContentType:   aws.String(format),
			ContentLength: aws.Int64(fh.Size),
		})
	} else {
		_, err = a.S3.C.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        a.S3.Bucket,
			Key:           aws.String(fileKey),
			Body:          f,
			ContentType:   aws.String(format),
			ContentLength: aws.Int64(fh.Size),
		})
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to upload file to S3", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	entry := model.File{
		UserID:       userID,
		S3Key:        fileKey,
		OriginalName: fh.Filename,
		Format:       format,
		Size:         fh.Size,
		CreatedAt:    time.Now().UnixMilli(),
	}

	if err := a.DB.Create(&entry).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create file entry", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.DB.
		Model(model.Stats{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"used_storage":   gorm.Expr("used_storage + ?", fh.Size),
			"uploaded_files": gorm.Expr("uploaded_files + ?", 1),
		}).
		Error
	if err != nil {
		zap.L().Error("Failed to increment user's used storage", zap.Error(err), zap.String("requestID", requestID))
	}

	c.JSON(http.StatusOK, entry)
}
