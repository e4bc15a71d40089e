package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("MITRA_SERVER_PORT")
		os.Unsetenv("MITRA_SERVER_ENVIRONMENT")
		os.Unsetenv("MITRA_LLM_API_KEY")
		os.Unsetenv("MITRA_LLM_BASE_URL")
		os.Unsetenv("MITRA_LLM_MODEL")
		os.Unsetenv("MITRA_LLM_TIMEOUT")
		os.Unsetenv("MITRA_LLM_REQUESTS_PER_MINUTE")
		os.Unsetenv("MITRA_STORE_PATH")
		os.Unsetenv("MITRA_RECOMMEND_TOP_N")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8000" {
			t.Errorf("Server.Port = %s, want 8000", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.LLM.BaseURL != "https://api.groq.com/openai" {
			t.Errorf("LLM.BaseURL = %s, want https://api.groq.com/openai", cfg.LLM.BaseURL)
		}
		if cfg.LLM.Model != "llama3-70b-8192" {
			t.Errorf("LLM.Model = %s, want llama3-70b-8192", cfg.LLM.Model)
		}
		if cfg.LLM.Timeout != 15*time.Second {
			t.Errorf("LLM.Timeout = %v, want 15s", cfg.LLM.Timeout)
		}
		if cfg.Store.Path != "recommendation_db.sqlite" {
			t.Errorf("Store.Path = %s, want recommendation_db.sqlite", cfg.Store.Path)
		}
		if cfg.Recommend.TopN != 10 {
			t.Errorf("Recommend.TopN = %d, want 10", cfg.Recommend.TopN)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MITRA_SERVER_PORT", "9090")
		os.Setenv("MITRA_SERVER_ENVIRONMENT", "production")
		os.Setenv("MITRA_LLM_API_KEY", "custom-api-key")
		os.Setenv("MITRA_LLM_BASE_URL", "https://custom.api.com")
		os.Setenv("MITRA_LLM_TIMEOUT", "5s")
		os.Setenv("MITRA_STORE_PATH", "/tmp/catalog.sqlite")
		os.Setenv("MITRA_RECOMMEND_TOP_N", "6")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.LLM.APIKey != "custom-api-key" {
			t.Errorf("LLM.APIKey = %s, want custom-api-key", cfg.LLM.APIKey)
		}
		if cfg.LLM.BaseURL != "https://custom.api.com" {
			t.Errorf("LLM.BaseURL = %s, want https://custom.api.com", cfg.LLM.BaseURL)
		}
		if cfg.LLM.Timeout != 5*time.Second {
			t.Errorf("LLM.Timeout = %v, want 5s", cfg.LLM.Timeout)
		}
		if cfg.Store.Path != "/tmp/catalog.sqlite" {
			t.Errorf("Store.Path = %s, want /tmp/catalog.sqlite", cfg.Store.Path)
		}
		if cfg.Recommend.TopN != 6 {
			t.Errorf("Recommend.TopN = %d, want 6", cfg.Recommend.TopN)
		}
	})

	t.Run("fails validation for zero top_n", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MITRA_RECOMMEND_TOP_N", "0")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for zero top_n")
		}
	})

	t.Run("fails validation for non-positive timeout", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MITRA_LLM_TIMEOUT", "0s")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for zero timeout")
		}
	})
}
