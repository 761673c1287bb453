package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	DataDir   string
	OutputDir string

	DataBaseURL      string
	DataRateLimitRPS int
	DataTimeoutMs    int

	LabelMapPath string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "dropdex.db")),
		DataDir:   getEnv("DATA_DIR", filepath.Join(cwd, "data")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		DataBaseURL:      getEnv("DATA_BASE_URL", "https://drops.warframestat.us/data"),
		DataRateLimitRPS: getEnvInt("DATA_RATE_LIMIT_RPS", 5),
		DataTimeoutMs:    getEnvInt("DATA_TIMEOUT_MS", 30000),

		LabelMapPath: getEnv("LABEL_MAP_PATH", filepath.Join(cwd, "data", "label-map.json")),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
