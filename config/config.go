package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	CMSBaseURL       string
	CMSToken         string
	CMSTimeout       time.Duration
	ServerPort       string
	Env              string
	QuizPassingScore int
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		CMSBaseURL:       getEnv("CMS_BASE_URL", "http://localhost:1337"),
		CMSToken:         getEnv("CMS_API_TOKEN", ""),
		CMSTimeout:       time.Duration(getEnvInt("CMS_TIMEOUT_SECONDS", 5)) * time.Second,
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		Env:              getEnv("APP_ENV", "development"),
		QuizPassingScore: getEnvInt("QUIZ_PASSING_SCORE", 70),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
