// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	"github.com/you-sk/web-storage-service/db"
	"github.com/you-sk/web-storage-service/internal/access"
	"github.com/you-sk/web-storage-service/internal/storage"
	"github.com/you-sk/web-storage-service/middleware"
	"github.com/you-sk/web-storage-service/model"
	"github.com/you-sk/web-storage-service/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
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
	DB      *gorm.DB
	Router  *gin.Engine
	Argon   *security.ArgonHash
	Store   *storage.Store
	Checker *access.Checker
}

func NewRouter() (*API, error) {
	a := &API{}

	d, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = d
	a.Checker = access.NewChecker(d)

	blobs, err := storage.New(viper.GetString("storage.path"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize blob storage, %w", err)
	}
	a.Store = blobs

	makeLogger()

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{viper.GetString("host.cors_origin")},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
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

				if v, ok := c.Get("userID"); ok {
					fields = append(fields, zap.Uint("userID", v.(uint)))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	a.Router.MaxMultipartMemory = 5 << 20

	jwt := middleware.NewJWTMiddleware(d)
	maxUploadSize := viper.GetInt64("upload.max_size")

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)
	}

	auth := main.Group("/auth", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/auth/register	-> Registers a new user and returns a JWT token
		auth.POST("/register", a.UserRegister)

		// POST /api/auth/login		-> Logs in a user and returns a JWT token
		auth.POST("/login", a.UserLogin)

		// GET /api/auth/me		-> Returns the authenticated user
		auth.GET("/me", jwt, a.UserFetch)
	}

	users := main.Group("/users", jwt, middleware.BodySizeLimiter(1<<20))
	{
		// GET /api/users/profile	-> Returns the user's profile
		users.GET("/profile", a.UserFetch)

		// PUT /api/users/profile	-> Updates username and/or email
		users.PUT("/profile", a.UserEdit)

		// POST /api/users/change-password
		users.POST("/change-password", a.UserChangePassword)

		// PUT /api/users/:id/role	-> Changes a user's role
		users.PUT("/:id/role", middleware.RequireRolePermission(d, "manage_roles"), a.UserRoleEdit)
	}

	admin := main.Group("/admin", jwt)
	{
		// GET /api/admin/users		-> Lists all users with their roles
		admin.GET("/users", middleware.RequireRolePermission(d, "manage_users"), a.AdminUserList)
	}

	folders := main.Group("/folders", jwt)
	{
		// GET /api/folders		-> Lists every folder of the user
		folders.GET("", a.FolderList)

		// GET /api/folders/:id		-> Folder contents plus breadcrumbs ("root" for the top level)
		folders.GET("/:id", a.FolderFetch)

		// POST /api/folders		-> Creates a folder
		folders.POST("", a.FolderCreate)

		// PUT /api/folders/:id		-> Renames a folder
		folders.PUT("/:id", a.FolderRename)

		// PUT /api/folders/:id/move	-> Moves a folder, rejecting cycles
		folders.PUT("/:id/move", a.FolderMove)

		// DELETE /api/folders/:id	-> Deletes a folder tree, detaching files
		folders.DELETE("/:id", a.FolderDelete)
	}

	files := main.Group("/files", jwt)
	{
		// POST /api/files/upload	-> Uploads a single file
		files.POST("/upload", middleware.BodySizeLimiter(maxUploadSize+(1<<20)), a.FileUpload)

		// POST /api/files/upload-multiple -> Uploads up to 10 files, itemized errors
		files.POST("/upload-multiple", middleware.BodySizeLimiter(10*maxUploadSize), a.FileUploadBulk)

		// GET /api/files		-> Lists active files, optionally scoped to a folder
		files.GET("", a.FileList)

		// GET /api/files/search	-> Conjunctive search over active owned files
		files.GET("/search", a.FileSearch)

		// GET /api/files/trash/list	-> Lists trashed files
		files.GET("/trash/list", a.FileTrashList)

		// DELETE /api/files/trash/empty -> Purges every trashed file
		files.DELETE("/trash/empty", a.FileTrashEmpty)

		// GET /api/files/:id		-> Returns a single file record
		files.GET("/:id", middleware.RequireFilePermission(d, model.FilePermView), a.FileFetch)

		// GET /api/files/:id/preview	-> Inline preview for images, PDFs and text
		files.GET("/:id/preview", middleware.RequireFilePermission(d, model.FilePermView), a.FilePreview)

		// GET /api/files/:id/download	-> Downloads the blob under its original name
		files.GET("/:id/download", middleware.RequireFilePermission(d, model.FilePermView), a.FileDownload)

		// PUT /api/files/:id/metadata	-> Replaces the opaque metadata document
		files.PUT("/:id/metadata", middleware.RequireFilePermission(d, model.FilePermEdit), a.FileMetadataEdit)

		// PUT /api/files/:id/visibility -> Toggles public sharing, minting or clearing the public ID
		files.PUT("/:id/visibility", a.FileVisibilityEdit)

		// PUT /api/files/:id/move	-> Moves a file between folders
		files.PUT("/:id/move", a.FileMove)

		// DELETE /api/files/:id	-> Soft-deletes into the trash
		files.DELETE("/:id", middleware.RequireFilePermission(d, model.FilePermDelete), a.FileDelete)

		// POST /api/files/:id/restore	-> Restores a trashed file
		files.POST("/:id/restore", a.FileRestore)

		// DELETE /api/files/:id/permanent -> Purges a trashed file and its blob
		files.DELETE("/:id/permanent", a.FilePurge)

		// Comments on a file
		files.GET("/:id/comments", a.CommentList)
		files.POST("/:id/comments", a.CommentCreate)

		// Version history
		files.GET("/:id/versions", a.VersionList)
		files.POST("/:id/versions", middleware.BodySizeLimiter(maxUploadSize+(1<<20)), a.VersionUpload)
		files.GET("/:id/versions/compare", a.VersionCompare)
		files.POST("/:id/versions/:versionID/restore", a.VersionRestore)
		files.GET("/:id/versions/:versionID/download", a.VersionDownload)
		files.DELETE("/:id/versions/:versionID", a.VersionDelete)

		// Per-user grants on a file
		files.GET("/:id/permissions", a.FilePermissionList)
		files.POST("/:id/permissions", a.FilePermissionGrant)
		files.DELETE("/:id/permissions/:userID/:permission", a.FilePermissionRevoke)
	}

	comments := main.Group("/comments", jwt)
	{
		// PUT /api/comments/:id	-> Edits own comment
		comments.PUT("/:id", a.CommentEdit)

		// DELETE /api/comments/:id	-> Deletes own comment (replies cascade)
		comments.DELETE("/:id", a.CommentDelete)
	}

	tags := main.Group("/tags", jwt)
	{
		tags.GET("", a.TagList)
		tags.POST("", middleware.RequireRolePermission(d, "manage_tags"), a.TagCreate)
		tags.DELETE("/:id", middleware.RequireRolePermission(d, "manage_tags"), a.TagDelete)

		// Tag assignment on a file (replace-all semantics)
		tags.GET("/file/:fileID", a.FileTagList)
		tags.POST("/file/:fileID", a.FileTagSet)
	}

	perms := main.Group("/permissions", jwt)
	{
		// GET /api/permissions		-> The capability catalog
		perms.GET("", middleware.RequireAdmin(d), a.PermissionList)
	}

	roles := main.Group("/roles", jwt)
	{
		roles.GET("/:role/permissions", middleware.RequireAdmin(d), a.RolePermissionList)
		roles.POST("/:role/permissions", middleware.RequireRolePermission(d, "manage_roles"), a.RolePermissionAssign)
		roles.DELETE("/:role/permissions/:permissionID", middleware.RequireRolePermission(d, "manage_roles"), a.RolePermissionRemove)
	}

	public := main.Group("/public")
	{
		// No auth here. Possession of the public ID is the capability
		public.GET("/files/:publicID", a.PublicFileServe)
		public.GET("/files/:publicID/info", cacheFor(30), a.PublicFileInfo)
		public.GET("/files/:publicID/download", a.PublicFileDownload)
	}

	a.Argon = security.New()

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
