// Package api contains all endpoints available
package api

import (
	"driveshare/file-api/aws"
	"driveshare/file-api/db"
	"driveshare/file-api/internal/access"
	"driveshare/file-api/middleware"
	"driveshare/file-api/security"
	"driveshare/file-api/service"
	"fmt"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Argon    *security.ArgonHash
	S3       *aws.S3Client
	Resolver *access.Resolver
	Shares   *access.ShareManager
	Stars    *access.StarManager
}

func NewRouter() (*API, error) {
	a := &API{}

	db, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = db

	a.Resolver = &access.Resolver{DB: db}
	a.Shares = &access.ShareManager{DB: db, Notify: service.NewShareMailer(db)}
	a.Stars = &access.StarManager{DB: db, Resolver: a.Resolver}

	makeLogger()

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{viper.GetString("host.cors_origin")},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	a.Router.MaxMultipartMemory = 5 << 20

	jwt := middleware.NewJWTMiddleware(db)
	authLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 2,
		Burst:             5,
	})
	maxUploadSize := viper.GetInt64("upload.max_size")

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// HEAD /api/validate		-> Validates a JWT token
		main.HEAD("/validate", jwt, a.Validate)
	}

	users := main.Group("/users", middleware.BodySizeLimiter(1<<20))
	{
		// GET /api/users		-> Returns the profile and stats of a user
		users.GET("", jwt, cacheFor(30), a.UserFetch)

		// POST /api/users 		-> Registers a new user
		users.POST("", authLimiter, a.UserRegister)

		// POST /api/users/login 	-> Logs in a user and returns a JWT token
		users.POST("/login", authLimiter, a.UserLogin)

		// PUT /api/users/notifications	-> Toggles share notification mails
		users.PUT("/notifications", jwt, a.UserNotifications)
	}

	files := main.Group("/files")
	{
		// GET /api/files/:fileID 	-> Serves a file directly
		files.GET("/:fileID", a.FileServe)

		// GET /api/files/bulk 		-> Returns a user's files in bulk
		files.GET("/bulk", jwt, a.FileFetchBulk)

		// GET /api/files/search	-> Searches a user's files by name
		files.GET("/search", jwt, a.FileSearch)

		// GET /api/files/owns/:id	-> Checks if the user owns a file
		files.GET("/owns/:id", jwt, a.FileOwns)

		// GET /api/files/starred	-> Returns the user's starred files
		files.GET("/starred", jwt, a.StarList)

		// POST /api/files         	-> Uploads a new file and stores it in the database
		files.POST("", jwt, middleware.BodySizeLimiter(maxUploadSize), a.FileUpload)

		// POST /api/files/star/:id	-> Toggles a star on a file
		files.POST("/star/:id", jwt, a.StarToggle)

		// PUT /api/files/:id		-> Renames a file or changes its visibility
		files.PUT("/:id", jwt, a.FileEdit)

		// DELETE /api/files/:id	-> Deletes a file owned by a user
		files.DELETE("/:id", jwt, a.FileDelete)
	}

	shares := main.Group("/shares", jwt, middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/shares		-> Grants a recipient access to a file
		shares.POST("", a.ShareGrant)

		// DELETE /api/shares		-> Revokes a recipient's access to a file
		shares.DELETE("", a.ShareRevoke)

		// GET /api/shares/with-me	-> Files other users share with the caller
		shares.GET("/with-me", a.SharedWithMe)

		// GET /api/shares/by-me	-> Active grants the caller handed out
		shares.GET("/by-me", a.SharedByMe)
	}

	a.Argon = security.New()

	s3, err := aws.NewS3()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
	}
	a.S3 = s3

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
