package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-svgprep/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("full config", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
input:
  defaultDir: src
output:
  defaultDir: dist
fix:
  tolerance: 1.5
render:
  pageWidth: 1920
  pageHeight: 1080
batch:
  workers: 4
`)
		cfg, err := config.LoadConfig(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Input.DefaultDir != "src" {
			t.Errorf("Input.DefaultDir = %q, want %q", cfg.Input.DefaultDir, "src")
		}
		if cfg.Output.DefaultDir != "dist" {
			t.Errorf("Output.DefaultDir = %q, want %q", cfg.Output.DefaultDir, "dist")
		}
		if cfg.Fix.Tolerance != 1.5 {
			t.Errorf("Fix.Tolerance = %g, want %g", cfg.Fix.Tolerance, 1.5)
		}
		if cfg.Render.PageWidth != 1920 || cfg.Render.PageHeight != 1080 {
			t.Errorf("Render = %gx%g, want 1920x1080", cfg.Render.PageWidth, cfg.Render.PageHeight)
		}
		if cfg.Batch.Workers != 4 {
			t.Errorf("Batch.Workers = %d, want %d", cfg.Batch.Workers, 4)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		_, err := config.LoadConfig("")
		if !errors.Is(err, config.ErrEmptyConfigName) {
			t.Errorf("errors.Is(err, ErrEmptyConfigName) = false, got: %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("errors.Is(err, ErrConfigNotFound) = false, got: %v", err)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "bogus: 1\n")
		_, err := config.LoadConfig(path)
		if !errors.Is(err, config.ErrConfigParse) {
			t.Errorf("errors.Is(err, ErrConfigParse) = false, got: %v", err)
		}
	})

	t.Run("invalid YAML", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "fix: [unclosed\n")
		_, err := config.LoadConfig(path)
		if !errors.Is(err, config.ErrConfigParse) {
			t.Errorf("errors.Is(err, ErrConfigParse) = false, got: %v", err)
		}
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     config.Config
		wantErr string
	}{
		{
			name: "defaults valid",
			cfg:  config.Config{},
		},
		{
			name:    "negative tolerance",
			cfg:     config.Config{Fix: config.FixConfig{Tolerance: -1}},
			wantErr: "fix.tolerance",
		},
		{
			name:    "negative page width",
			cfg:     config.Config{Render: config.RenderConfig{PageWidth: -100, PageHeight: 100}},
			wantErr: "render.pageWidth",
		},
		{
			name:    "page width without height",
			cfg:     config.Config{Render: config.RenderConfig{PageWidth: 100}},
			wantErr: "set together",
		},
		{
			name:    "too many workers",
			cfg:     config.Config{Batch: config.BatchConfig{Workers: config.MaxWorkers + 1}},
			wantErr: "batch.workers",
		},
		{
			name:    "negative workers",
			cfg:     config.Config{Batch: config.BatchConfig{Workers: -1}},
			wantErr: "batch.workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
}
