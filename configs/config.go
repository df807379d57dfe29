package configs

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL  string
	TokenFile   string
	PageSize    int
	LogDir      string
	HTTPTimeout int // seconds
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		if os.Getenv("GO_ENV") != "test" {
			log.Println("No .env file found, using default values")
		}
	}

	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080/api"
	}

	tokenFile := os.Getenv("TOKEN_FILE")
	if tokenFile == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			configDir = "."
		}
		tokenFile = filepath.Join(configDir, "taskman", "token")
	}

	pageSize, err := strconv.Atoi(os.Getenv("PAGE_SIZE"))
	if err != nil || pageSize <= 0 {
		pageSize = 10
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	timeout, err := strconv.Atoi(os.Getenv("HTTP_TIMEOUT_SECONDS"))
	if err != nil || timeout <= 0 {
		timeout = 30
	}

	return Config{
		APIBaseURL:  baseURL,
		TokenFile:   tokenFile,
		PageSize:    pageSize,
		LogDir:      logDir,
		HTTPTimeout: timeout,
	}
}
