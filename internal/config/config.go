package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	Environment  string
	StoreBackend string // "mongo", "badger" or "memory"
	MongoURI     string
	DBName       string
	BadgerPath   string
	CORSOrigins  string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		StoreBackend: getEnv("STORE_BACKEND", "badger"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:       getEnv("DB_NAME", "go-bi"),
		BadgerPath:   getEnv("BADGER_PATH", "./data/dashboards"),
		CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:3000, http://localhost:5173"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
