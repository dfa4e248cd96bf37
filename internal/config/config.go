package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectID   string
	LogLevel    string
	Port        string
	AdminAuth   bool
	AdminClaim  string
	SeedRates   bool
	MetricsPath string
}

func New() *Config {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	return &Config{
		ProjectID:   os.Getenv("PROJECTID"),
		LogLevel:    os.Getenv("LOGLEVEL"),
		Port:        getEnv("PORT", "8080"),
		AdminAuth:   getBool("ADMINAUTH", true),
		AdminClaim:  getEnv("ADMINCLAIM", "admin"),
		SeedRates:   getBool("SEEDRATES", false),
		MetricsPath: getEnv("METRICSPATH", "/metrics"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
