package config

import (
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Config 结构体用于存储应用程序的配置信息
type Config struct {
	MongoURI           string
	MongoDBName        string
	JWTSecret          string
	LogLevel           string
	FrontendURL        string
	BackendURL         string
	StorageBackend     string // local | s3 | gcs
	S3Region           string
	S3Bucket           string
	GCSBucketName      string
	GCSCredentialsFile string
	LocalStoragePath   string
	Debug              bool // 是否开启调试模式
}

// AppConfig 是全局配置变量
var AppConfig Config

// Init 函数用于初始化配置
func Init() {
	// 加载 .env 文件
	err := godotenv.Load()
	if err != nil {
		log.Printf("警告：无法加载 .env 文件: %v", err)
	}

	// 从环境变量中读取配置
	AppConfig = Config{
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:        getEnv("MONGO_DB_NAME", "instagram_clone"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
		BackendURL:         getEnv("BACKEND_URL", "http://localhost:8080"),
		StorageBackend:     getEnv("STORAGE_BACKEND", "local"),
		S3Region:           getEnv("S3_REGION", "ap-northeast-2"),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		GCSBucketName:      getEnv("GCS_BUCKET_NAME", ""),
		GCSCredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		LocalStoragePath:   getEnv("LOCAL_STORAGE_PATH", "./uploads"),
		Debug:              getEnvAsBool("DEBUG", true),
	}

	validateConfig()

	// 如果是调试模式，打印更详细的路由信息
	if AppConfig.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("应用程序运行在调试模式")
	} else {
		gin.SetMode(gin.ReleaseMode)
		log.Println("应用程序运行在生产模式")
	}

	log.Printf("配置加载完成。数据库：%s/%s", AppConfig.MongoURI, AppConfig.MongoDBName)
	log.Printf("存储后端：%s", AppConfig.StorageBackend)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := getEnv(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func validateConfig() {
	if AppConfig.MongoURI == "" || AppConfig.MongoDBName == "" {
		log.Fatal("错误：数据库配置不完整")
	}
	if AppConfig.JWTSecret == "" {
		log.Fatal("错误：JWT密钥未设置")
	}
	switch AppConfig.StorageBackend {
	case "local":
		if AppConfig.LocalStoragePath == "" {
			log.Fatal("错误：本地存储路径未设置")
		}
	case "s3":
		if AppConfig.S3Region == "" || AppConfig.S3Bucket == "" {
			log.Fatal("错误：S3配置不完整")
		}
	case "gcs":
		if AppConfig.GCSBucketName == "" || AppConfig.GCSCredentialsFile == "" {
			log.Fatal("错误：GCS配置不完整")
		}
	default:
		log.Fatalf("错误：未知的存储后端 %s", AppConfig.StorageBackend)
	}
}
