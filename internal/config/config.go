package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	PreferencesPath string

	DBType            string
	DBPath            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	GenAIAPIKey         string
	GenAIModel          string
	GenAIMaxOutputToken int
}

// Module provides the environment config and the preferences file.
var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(LoadPreferences),
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:             getenv("APP_SERVICE", "beanbook"),
		AppVersion:          getenv("APP_VERSION", "0.1.0"),
		Environment:         getenv("ENVIRONMENT", "development"),
		HTTPAddr:            getenv("HTTP_ADDR", ":8080"),
		PreferencesPath:     getenv("PREFERENCES_PATH", "config.yaml"),
		DBType:              getenv("DATABASE_TYPE", "sqlite"),
		DBPath:              getenv("DATABASE_PATH", "beanbook.db"),
		DBHost:              getenv("DATABASE_HOST", "localhost"),
		DBPort:              getenv("DATABASE_PORT", "5432"),
		DBName:              getenv("DATABASE_NAME", "beanbook"),
		DBUser:              getenv("DATABASE_USER", "beanbook"),
		DBPassword:          getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:           getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:       getenvInt("DATABASE_MAX_IDLE_CONN", 2),
		DBMaxOpenConn:       getenvInt("DATABASE_MAX_OPEN_CONN", 5),
		DBConnMaxLifetime:   getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
		GenAIAPIKey:         strings.TrimSpace(getenv("GENAI_API_KEY", "")),
		GenAIModel:          getenv("GENAI_MODEL", "gemini-2.5-flash"),
		GenAIMaxOutputToken: getenvInt("GENAI_MAX_OUTPUT_TOKENS", 1024),
	}
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
