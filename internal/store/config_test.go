package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfig_SaveLoad_RoundTrip(t *testing.T) {
	withEnv(t, "TODO_CONFIG_DIR", t.TempDir(), func() {
		cfg := &Config{}
		if err := cfg.Set("api_base_url", "https://todo.example.com/"); err != nil {
			t.Fatalf("set api_base_url: %v", err)
		}
		if err := cfg.Set("lang", "ja"); err != nil {
			t.Fatalf("set lang: %v", err)
		}
		if err := cfg.Set("session_delay", "250ms"); err != nil {
			t.Fatalf("set session_delay: %v", err)
		}
		if err := SaveConfig(cfg); err != nil {
			t.Fatalf("SaveConfig: %v", err)
		}

		path, _ := ConfigPath()
		b, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read config: %v", err)
		}
		if !strings.Contains(string(b), `api_base_url = "https://todo.example.com"`) {
			t.Fatalf("expected toml key in file; got:\n%s", string(b))
		}

		got, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if got.BaseURL() != "https://todo.example.com" {
			t.Fatalf("BaseURL: got %q", got.BaseURL())
		}
		if got.Lang != "ja" {
			t.Fatalf("Lang: got %q", got.Lang)
		}
		if got.LoginDelay() != 250*time.Millisecond {
			t.Fatalf("LoginDelay: got %v", got.LoginDelay())
		}
	})
}

func TestLoadConfig_MissingFileIsEmpty(t *testing.T) {
	withEnv(t, "TODO_CONFIG_DIR", filepath.Join(t.TempDir(), "nope"), func() {
		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.BaseURL() != DefaultAPIBaseURL {
			t.Fatalf("expected default base url; got %q", cfg.BaseURL())
		}
		if cfg.AuthPath() != DefaultAuthBasePath {
			t.Fatalf("expected default auth path; got %q", cfg.AuthPath())
		}
		if cfg.Timeout() != DefaultRequestTimeout || cfg.LoginDelay() != DefaultSessionDelay {
			t.Fatalf("unexpected duration defaults: %v %v", cfg.Timeout(), cfg.LoginDelay())
		}
	})
}

func TestConfigSet_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{key: "api_base_url", value: "not a url", wantErr: true},
		{key: "api_base_url", value: "http://127.0.0.1:9000"},
		{key: "auth_base_path", value: "auth"},
		{key: "format", value: "edn", wantErr: true},
		{key: "format", value: "yaml"},
		{key: "log_level", value: "loud", wantErr: true},
		{key: "request_timeout", value: "soon", wantErr: true},
		{key: "request_timeout", value: "-1s", wantErr: true},
		{key: "request_timeout", value: "3s"},
		{key: "colour", value: "blue", wantErr: true},
	}
	for _, tt := range tests {
		cfg := &Config{}
		err := cfg.Set(tt.key, tt.value)
		if tt.wantErr && err == nil {
			t.Fatalf("Set(%q, %q): expected error", tt.key, tt.value)
		}
		if !tt.wantErr && err != nil {
			t.Fatalf("Set(%q, %q): %v", tt.key, tt.value, err)
		}
	}

	cfg := &Config{}
	_ = cfg.Set("auth_base_path", "auth/")
	if cfg.AuthPath() != "/auth" {
		t.Fatalf("expected auth path to be normalized; got %q", cfg.AuthPath())
	}
}
