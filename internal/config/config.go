package config

import (
	"os"
	"strconv"
)

// Store backend names accepted in the STORE environment variable.
const (
	StoreMySQL  = "mysql"
	StoreMemory = "memory"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	Store      string
	MySQLDSN   string
	RedisAddr  string
	RedisDB    int
	RedisPass  string
	BcryptCost int
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "5000"),
		Store:      getEnv("STORE", StoreMySQL),
		MySQLDSN:   getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/authd?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:    getEnvInt("REDIS_DB", 0),
		RedisPass:  os.Getenv("REDIS_PASSWORD"),
		BcryptCost: getEnvInt("BCRYPT_COST", 10),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
