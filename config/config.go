package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort       string `mapstructure:"PORT"`
	Env           string `mapstructure:"ENV"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	DatabaseURL   string `mapstructure:"MONGO_URI"`
	DatabaseName  string `mapstructure:"MONGO_DATABASE"`
	CORSOrigins   string `mapstructure:"CORS_ORIGINS"`
	MaxReqPerMin  int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	JWTSecret     string `mapstructure:"JWT_SECRET"`
	TokenTTLHours int    `mapstructure:"TOKEN_TTL_HOURS"`

	// Identity.
	GoogleClientID string `mapstructure:"GOOGLE_CLIENT_ID"`
	AdminEmails    string `mapstructure:"ADMIN_EMAILS"`

	// Messenger platform.
	PageAccessToken    string `mapstructure:"PAGE_ACCESS_TOKEN"`
	VerifyToken        string `mapstructure:"VERIFY_TOKEN"`
	MessengerAppSecret string `mapstructure:"MESSENGER_APP_SECRET"`
	MessengerAPIURL    string `mapstructure:"MESSENGER_API_URL"`
	MessengerQueue     string `mapstructure:"MESSENGER_QUEUE"`

	// Gemini.
	GeminiAPIKey     string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel      string `mapstructure:"GEMINI_MODEL"`
	AITimeoutSeconds int    `mapstructure:"AI_TIMEOUT_SECONDS"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Chat and wizard session storage.
	SessionBackend    string `mapstructure:"SESSION_BACKEND"`
	SessionTTLMinutes int    `mapstructure:"SESSION_TTL_MINUTES"`
	SessionMaxEntries int    `mapstructure:"SESSION_MAX_ENTRIES"`

	// Cloudinary image hosting for tour pictures.
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string `mapstructure:"CLOUDINARY_FOLDER"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Every key needs a default so Unmarshal picks up its env override.
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "schooltrip")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:8080")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("TOKEN_TTL_HOURS", 72)
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("ADMIN_EMAILS", "")
	viper.SetDefault("PAGE_ACCESS_TOKEN", "")
	viper.SetDefault("VERIFY_TOKEN", "")
	viper.SetDefault("MESSENGER_APP_SECRET", "")
	viper.SetDefault("MESSENGER_API_URL", "https://graph.facebook.com/v12.0/me/messages")
	viper.SetDefault("MESSENGER_QUEUE", "inline")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("AI_TIMEOUT_SECONDS", 30)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("SESSION_BACKEND", "memory")
	viper.SetDefault("SESSION_TTL_MINUTES", 60)
	viper.SetDefault("SESSION_MAX_ENTRIES", 10000)
	viper.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	viper.SetDefault("CLOUDINARY_API_KEY", "")
	viper.SetDefault("CLOUDINARY_API_SECRET", "")
	viper.SetDefault("CLOUDINARY_FOLDER", "schooltrip/tours")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// AdminEmailList returns the lower-cased ADMIN_EMAILS entries.
func AdminEmailList() []string {
	return splitList(strings.ToLower(AppConfig.AdminEmails))
}

func CORSOriginList() []string {
	return splitList(AppConfig.CORSOrigins)
}

func AITimeout() time.Duration {
	if AppConfig.AITimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(AppConfig.AITimeoutSeconds) * time.Second
}

func SessionTTL() time.Duration {
	if AppConfig.SessionTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(AppConfig.SessionTTLMinutes) * time.Minute
}

func TokenTTL() time.Duration {
	if AppConfig.TokenTTLHours <= 0 {
		return 72 * time.Hour
	}
	return time.Duration(AppConfig.TokenTTLHours) * time.Hour
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
