package config

import (
	"os"
	"path/filepath"
	"strconv"

	"tcg/internal/content"
	"tcg/internal/options"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Content  content.Config
	Options  options.Config
	DataPath string
	// LogDir receives the rotating log file.
	LogDir   string
	HTTPAddr string
	// OpenBrowser opens the settings page when the web UI starts.
	OpenBrowser bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	return fromEnv(exeDir), nil
}

func fromEnv(exeDir string) *AppConfig {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := os.Getenv("LOGS_FOLDER")
	if logDir == "" {
		logDir = filepath.Join(dataPath, "logs")
	}

	if err := os.MkdirAll(dataPath, 0755); err != nil {
		log.Warn().Err(err).Str("path", dataPath).Msg("Failed to create data directory")
	}

	optionsDriver := getEnv("TCG_OPTIONS_DRIVER", "bolt")
	defaultOptionsPath := filepath.Join(dataPath, "options.db")
	if optionsDriver == "file" {
		defaultOptionsPath = filepath.Join(dataPath, "options")
	}

	return &AppConfig{
		Content: content.Config{
			Driver:      getEnv("TCG_STORE_DRIVER", "sqlite"),
			SQLitePath:  getEnv("TCG_SQLITE_PATH", filepath.Join(dataPath, "content.db")),
			PostgresURL: getEnv("TCG_POSTGRES_URL", ""),
		},
		Options: options.Config{
			Driver: optionsDriver,
			Path:   getEnv("TCG_OPTIONS_PATH", defaultOptionsPath),
		},
		DataPath:    dataPath,
		LogDir:      logDir,
		HTTPAddr:    getEnv("TCG_HTTP_ADDR", "127.0.0.1:8080"),
		OpenBrowser: getEnvBool("TCG_OPEN_BROWSER", false),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
