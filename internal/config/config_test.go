package config

import "testing"

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadWith(envMap(nil))
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Rasa.BaseURL != "http://localhost:5005" {
		t.Errorf("Rasa.BaseURL = %q, want default", cfg.Rasa.BaseURL)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Storage.DataDir == "" {
		t.Error("Storage.DataDir is empty")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	cfg, err := loadWith(envMap(map[string]string{
		"DEMOBANK_HOST":      "0.0.0.0",
		"DEMOBANK_PORT":      "9001",
		"RASA_SERVER_URL":    "http://rasa:5005",
		"DEMOBANK_DATA_DIR":  "/tmp/demobank",
		"DEMOBANK_LOG_LEVEL": "debug",
	}))
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q", cfg.Server.Host)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Rasa.BaseURL != "http://rasa:5005" {
		t.Errorf("Rasa.BaseURL = %q", cfg.Rasa.BaseURL)
	}
	if cfg.Storage.DataDir != "/tmp/demobank" {
		t.Errorf("Storage.DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoadInvalidPort(t *testing.T) {
	for _, port := range []string{"abc", "-1", "0", "70000"} {
		_, err := loadWith(envMap(map[string]string{"DEMOBANK_PORT": port}))
		if err == nil {
			t.Errorf("loadWith with port %q: expected error", port)
		}
	}
}
