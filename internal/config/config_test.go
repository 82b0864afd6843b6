package config

import (
	"log/slog"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("SESSION_SECRET", "session-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.APIPort != "9000" {
		t.Errorf("APIPort = %q, want 9000", cfg.APIPort)
	}
	if cfg.DatabasePort != 5432 {
		t.Errorf("DatabasePort = %d, want 5432", cfg.DatabasePort)
	}
	if cfg.DatabaseSSLMode != "disable" {
		t.Errorf("DatabaseSSLMode = %q, want disable", cfg.DatabaseSSLMode)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want text", cfg.LogFormat)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"missing client id", "GOOGLE_CLIENT_ID"},
		{"missing client secret", "GOOGLE_CLIENT_SECRET"},
		{"missing session secret", "SESSION_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			if _, err := Load(); err == nil {
				t.Errorf("Load() expected error when %s is unset", tt.unset)
			}
		})
	}
}

func TestLoad_InvalidDatabasePort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for invalid DATABASE_PORT")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", 0, true},
	}

	for _, tt := range tests {
		got, err := parseLogLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
