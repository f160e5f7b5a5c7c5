package db

import (
	"os"
	"strconv"
)

type PostgresConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

func LoadPostgresConfig() (PostgresConfig, error) {
	return PostgresConfig{
		Host:         getEnv("DB_HOST", "localhost"),
		Port:         intEnv("DB_PORT", 5432),
		User:         getEnv("DB_USER", "postgres"),
		Password:     os.Getenv("DB_PASSWORD"),
		DBName:       getEnv("DB_NAME", "promotions"),
		SSLMode:      getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns: intEnv("DB_MAX_OPEN_CONNS", 20),
		MaxIdleConns: intEnv("DB_MAX_IDLE_CONNS", 10),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func intEnv(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
