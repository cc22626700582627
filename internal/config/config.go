package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Rasa    RasaConfig
	Storage StorageConfig
	Log     LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type RasaConfig struct {
	BaseURL string
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8000,
		},
		Rasa: RasaConfig{
			BaseURL: "http://localhost:5005",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "demobank")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "data"
	}
	return filepath.Join(home, ".local", "share", "demobank")
}

// Load reads configuration from an optional .env file in the working
// directory, then applies defaults and environment overrides.
//
// Recognized variables: DEMOBANK_HOST, DEMOBANK_PORT, DEMOBANK_DATA_DIR,
// DEMOBANK_LOG_LEVEL, and RASA_SERVER_URL (the name the Rasa deployment
// already exports).
func Load() (Config, error) {
	// A missing .env is not an error; deployments can rely on plain env vars.
	_ = godotenv.Load()
	return loadWith(os.Getenv)
}

func loadWith(getenv func(string) string) (Config, error) {
	cfg := defaults()

	if v := getenv("DEMOBANK_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := getenv("DEMOBANK_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid DEMOBANK_PORT %q", v)
		}
		cfg.Server.Port = port
	}
	if v := getenv("RASA_SERVER_URL"); v != "" {
		cfg.Rasa.BaseURL = v
	}
	if v := getenv("DEMOBANK_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := getenv("DEMOBANK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	return cfg, nil
}
