package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config holds the application's configuration values.
type Config struct {
	AppName string `json:"appname"`
	AppEnv  string `json:"appenv"`
	AppPort uint16 `json:"appport"`
	GinMode string `json:"ginmode"`
	DBHost  string `json:"dbhost"`
	DBPort  uint16 `json:"dbport"`
	DBName  string `json:"dbname"`
	DBUSER  string `json:"dbuser"`
	DBPass  string `json:"dbpass"`

	// UploadDir is where analysis photos are stored.
	UploadDir string `json:"uploaddir"`

	// JWTSecret keys both session-token signing and password digests.
	JWTSecret string `json:"-"`

	// Chatbot provider credentials. Either may be empty; the explainer
	// falls back to canned guidance when both are.
	OpenAIAPIKey string `json:"-"`
	OpenAIModel  string `json:"openaimodel"`
	GeminiAPIKey string `json:"-"`
	GeminiModel  string `json:"geminimodel"`
}

var config *Config
var once sync.Once

// LoadConfig loads the environment variables from a .env file, and returns a singleton Config instance.
func LoadConfig() *Config {
	once.Do(func() {
		// Load environment variables from .env file; fall back to the
		// process environment when the file is absent (tests, containers).
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file loaded: %v", err)
		}

		appPort, _ := strconv.ParseUint(os.Getenv("APPPORT"), 10, 16)
		dbPort, _ := strconv.ParseUint(os.Getenv("DBPORT"), 10, 16)

		// Initialize the Config struct with values from environment variables.
		config = &Config{
			AppName:      os.Getenv("APPNAME"),
			AppEnv:       os.Getenv("APPENV"),
			AppPort:      uint16(appPort),
			GinMode:      os.Getenv("GINMODE"),
			DBHost:       os.Getenv("DBHOST"),
			DBPort:       uint16(dbPort),
			DBName:       os.Getenv("DBNAME"),
			DBUSER:       os.Getenv("DBUSER"),
			DBPass:       os.Getenv("DBPASS"),
			UploadDir:    envOrDefault("UPLOAD_DIR", "uploads"),
			JWTSecret:    os.Getenv("JWTSECRET"),
			OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:  envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			GeminiModel:  envOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		}
	})
	return config
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ConnectMySQL establishes a connection to a MySQL database using the
// configuration values. In the test environment it opens an in-memory
// SQLite database instead so the suite runs without external services.
func ConnectMySQL() (*gorm.DB, error) {
	cfg := LoadConfig()
	if cfg.AppEnv == "test" {
		return gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	}

	// Build the Data Source Name (DSN) using the configuration values.
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", cfg.DBUSER, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	// Open a database connection.
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
