package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"instagram-clone-backend/config"
	"instagram-clone-backend/internal/api/feed"
	"instagram-clone-backend/internal/api/post"
	"instagram-clone-backend/internal/api/user"
	"instagram-clone-backend/internal/common"
	"instagram-clone-backend/internal/middleware"
	"instagram-clone-backend/internal/repository/mongodb"
	"instagram-clone-backend/internal/service"
	"instagram-clone-backend/internal/storage"
	"instagram-clone-backend/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 连接 MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.AppConfig.MongoURI))
	cancel()
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			util.Logger.Error("断开数据库连接失败", zap.Error(err))
		}
	}()

	// 测试数据库连接，网络抖动时重试
	err = common.WithRetry(func() error {
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pingCancel()
		return client.Ping(pingCtx, readpref.Primary())
	}, 3)
	if err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	db := client.Database(config.AppConfig.MongoDBName)

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("handle", util.ValidateHandle)
	}

	// 按配置选择存储后端
	uploader := newUploader()

	// 初始化存储库、服务和处理器
	userRepo := mongodb.NewUserRepository(db)
	postRepo := mongodb.NewPostRepository(db)

	userService := service.NewUserService(userRepo, uploader)
	postService := service.NewPostService(postRepo, uploader)
	toggleService := service.NewToggleService(userRepo, postRepo)
	feedService := service.NewFeedService(userRepo, postRepo)

	authHandler := user.NewAuthHandler(userService)
	accountHandler := user.NewAccountHandler(userService, uploader)
	postHandler := post.NewPostHandler(postService, uploader)
	toggleHandler := post.NewToggleHandler(toggleService)
	feedHandler := feed.NewFeedHandler(feedService)

	// 初始化错误监控
	errorMonitor := middleware.NewErrorMonitor()

	// 设置 Gin 路由
	r := gin.Default()

	// 添加中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor))

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length",
		"Content-Type",
		"Access-Control-Allow-Origin",
	}
	r.Use(cors.New(corsConfig))

	// 静态文件的CORS处理
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			c.Header("Access-Control-Allow-Origin", config.AppConfig.FrontendURL)
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type")

			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(200)
				return
			}
		}
		c.Next()
	})

	// 本地存储时提供静态文件服务
	if config.AppConfig.StorageBackend == "local" {
		r.Static("/uploads", config.AppConfig.LocalStoragePath)
	}

	// 定义 API 路由
	api := r.Group("/api")
	{
		// 认证相关路由
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// 信息流和主页，未登录也可访问
		public := api.Group("/")
		public.Use(middleware.OptionalAuthMiddleware())
		{
			public.GET("/posts", feedHandler.GetFeed)
			public.GET("/posts/:id", feedHandler.GetPostDetail)
			public.GET("/profiles/:handle", feedHandler.GetProfile)

			// 成员关系查询，匿名观察者一律返回 false
			public.GET("/posts/:id/likes", toggleHandler.PostLikeStatus)
			public.GET("/comments/:id/likes", toggleHandler.CommentLikeStatus)
			public.GET("/replies/:id/likes", toggleHandler.ReplyLikeStatus)
			public.GET("/posts/:id/saves", toggleHandler.SaveStatus)
			public.GET("/users/:id/follow", toggleHandler.FollowStatus)
		}

		// 需要认证的路由
		authorized := api.Group("/")
		authorized.Use(middleware.AuthMiddleware())
		{
			// 账户管理
			authorized.GET("/accounts", accountHandler.GetAccountInfo)
			authorized.PUT("/accounts", accountHandler.UpdateProfile)
			authorized.POST("/accounts/password", accountHandler.ChangePassword)
			authorized.POST("/accounts/image", accountHandler.UploadProfileImage)
			authorized.DELETE("/accounts/image", accountHandler.DeleteProfileImage)

			// 帖子管理
			authorized.POST("/posts", postHandler.CreatePost)
			authorized.PUT("/posts/:id", postHandler.UpdatePost)
			authorized.DELETE("/posts/:id", postHandler.DeletePost)

			// 评论和回复
			authorized.POST("/posts/:id/comments", postHandler.CreateComment)
			authorized.DELETE("/comments/:id", postHandler.DeleteComment)
			authorized.POST("/comments/:id/replies", postHandler.CreateReply)
			authorized.DELETE("/replies/:id", postHandler.DeleteReply)

			// 点赞、收藏和关注
			authorized.POST("/posts/:id/likes", toggleHandler.TogglePostLike)
			authorized.POST("/comments/:id/likes", toggleHandler.ToggleCommentLike)
			authorized.POST("/replies/:id/likes", toggleHandler.ToggleReplyLike)
			authorized.POST("/posts/:id/saves", toggleHandler.ToggleSave)
			authorized.POST("/users/:id/follow", toggleHandler.ToggleFollow)
		}
	}

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动，监听端口 :8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}

// newUploader 根据配置初始化存储后端
func newUploader() storage.Uploader {
	switch config.AppConfig.StorageBackend {
	case "s3":
		client, err := storage.NewS3Client(config.AppConfig.S3Region, config.AppConfig.S3Bucket)
		if err != nil {
			util.Logger.Fatal("初始化S3存储失败", zap.Error(err))
		}
		return client
	case "gcs":
		client, err := storage.NewGCSClient(config.AppConfig.GCSBucketName, config.AppConfig.GCSCredentialsFile)
		if err != nil {
			util.Logger.Fatal("初始化GCS存储失败", zap.Error(err))
		}
		return client
	default:
		ensureUploadsFolder()
		local, err := storage.NewLocalStorage(config.AppConfig.LocalStoragePath)
		if err != nil {
			util.Logger.Fatal("初始化本地存储失败", zap.Error(err))
		}
		return local
	}
}

// 确保上传文件夹存在
func ensureUploadsFolder() {
	uploadsPath := config.AppConfig.LocalStoragePath
	if err := os.MkdirAll(uploadsPath, 0755); err != nil {
		util.Logger.Fatal("创建上传文件夹失败", zap.Error(err), zap.String("path", uploadsPath))
	}
}
