package config

import (
	"os"
	"strings"
)

type Config struct {
	ServerPort string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	// AdminUsers lists usernames whose login tokens carry the admin role.
	AdminUsers []string
	LogLevel   string
	LogFormat  string
}

func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "agora"),
		DBPassword: getEnv("DB_PASSWORD", "agora_dev_password"),
		DBName:     getEnv("DB_NAME", "agora"),
		JWTSecret:  getEnv("JWT_SECRET", "dev-secret-change-me"),
		AdminUsers: splitList(getEnv("ADMIN_USERS", "")),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "text"),
	}
}

func (c *Config) IsAdminUser(username string) bool {
	for _, u := range c.AdminUsers {
		if u == username {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
