package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Console.Port != 8090 {
		t.Errorf("unexpected default port %d", cfg.Console.Port)
	}
	if cfg.Platform.BaseURL != "http://localhost:3001" {
		t.Errorf("unexpected default base url %q", cfg.Platform.BaseURL)
	}
	if cfg.Platform.TimeoutSeconds != 5 {
		t.Errorf("unexpected default timeout %d", cfg.Platform.TimeoutSeconds)
	}
	if cfg.Clamd.Addr != "" {
		t.Errorf("expected clamd disabled by default, got %q", cfg.Clamd.Addr)
	}
	if len(cfg.Console.AllowedOrigins) != 0 {
		t.Errorf("expected no allowed origins by default, got %v", cfg.Console.AllowedOrigins)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CONSOLE_PORT", "9100")
	t.Setenv("CONSOLE_ALLOWED_ORIGINS", "http://localhost:5173, http://127.0.0.1:5173")
	t.Setenv("PLATFORM_BASE_URL", "https://platform.example.com/")
	t.Setenv("PLATFORM_TIMEOUT_SECONDS", "10")
	t.Setenv("CLAMD_ADDR", "tcp://127.0.0.1:3310")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Console.Port != 9100 {
		t.Errorf("unexpected port %d", cfg.Console.Port)
	}
	if len(cfg.Console.AllowedOrigins) != 2 || cfg.Console.AllowedOrigins[0] != "http://localhost:5173" {
		t.Errorf("unexpected origins %v", cfg.Console.AllowedOrigins)
	}
	if cfg.Platform.BaseURL != "https://platform.example.com/" {
		t.Errorf("unexpected base url %q", cfg.Platform.BaseURL)
	}
	if cfg.Platform.Timeout().Seconds() != 10 {
		t.Errorf("unexpected timeout %v", cfg.Platform.Timeout())
	}
	if cfg.Clamd.Addr != "tcp://127.0.0.1:3310" {
		t.Errorf("unexpected clamd addr %q", cfg.Clamd.Addr)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("CONSOLE_PORT", "-1")
	if _, err := Load(); err == nil {
		t.Error("expected error for negative port")
	}
}

func TestLoad_MissingBaseURL(t *testing.T) {
	t.Setenv("CONSOLE_PORT", "8090")
	t.Setenv("PLATFORM_BASE_URL", "   ")
	if _, err := Load(); err == nil {
		t.Error("expected error for blank base url")
	}
}
