package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Export.Dir != DefaultExportDir {
		t.Errorf("Export.Dir = %q, want %q", cfg.Export.Dir, DefaultExportDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if err == nil || !strings.HasPrefix(err.Error(), "E121:") {
		t.Errorf("Load() error = %v, want E121", err)
	}

	configJSON := `{
  "name": "counter",
  "log": {"level": "debug", "format": "json"},
  "server": {"port": 8080},
  "export": {"s3": {"bucket": "pages"}}
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Name != "counter" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Address() != "localhost:8080" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if cfg.Server.Burst != DefaultBurst {
		t.Errorf("Server.Burst = %d, want default %d", cfg.Server.Burst, DefaultBurst)
	}
	if cfg.Export.S3.Bucket != "pages" || cfg.Export.S3.Region != "us-east-1" {
		t.Errorf("Export.S3 = %+v", cfg.Export.S3)
	}
	if level, _ := cfg.LogLevel(); level != slog.LevelDebug {
		t.Errorf("LogLevel() = %v", level)
	}
	if cfg.Path() != filepath.Join(tmpDir, ConfigFileName) {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configYAML := `
name: yaml-app
render:
  hydratable: true
server:
  host: 0.0.0.0
  messagesPerSecond: 5
export:
  dir: out
  s3:
    endpoint: http://localhost:9000
    pathStyle: true
`
	if err := os.WriteFile(filepath.Join(tmpDir, "lifecycle.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Name != "yaml-app" || !cfg.Render.Hydratable {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Address() != "0.0.0.0:3000" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if cfg.Server.MessagesPerSecond != 5 {
		t.Errorf("MessagesPerSecond = %v", cfg.Server.MessagesPerSecond)
	}
	if cfg.Export.Dir != "out" || !cfg.Export.S3.PathStyle || cfg.Export.S3.Endpoint != "http://localhost:9000" {
		t.Errorf("Export = %+v", cfg.Export)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tmpDir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(tmpDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name string
		path string
		code string
	}{
		{"missing", filepath.Join(tmpDir, "nope.json"), "E121"},
		{"bad json", write("bad.json", "{not json"), "E120"},
		{"bad yaml", write("bad.yaml", "server: [1, 2"), "E120"},
		{"bad port", write("port.json", `{"server": {"port": 70000}}`), "E122"},
		{"bad level", write("level.yml", "log:\n  level: loud\n"), "E122"},
		{"bad format", write("format.json", `{"log": {"format": "xml"}}`), "E122"},
		{"negative rate", write("rate.json", `{"server": {"burst": -1}}`), "E122"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(tt.path)
			if err == nil || !strings.HasPrefix(err.Error(), tt.code+":") {
				t.Errorf("LoadFile() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"out.json", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			cfg := New()
			cfg.Name = "saved"
			cfg.Server.Port = 9999

			path := filepath.Join(tmpDir, name)
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo error: %v", err)
			}
			if cfg.Path() != path {
				t.Errorf("Path() = %q after SaveTo", cfg.Path())
			}

			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile error: %v", err)
			}
			if loaded.Name != "saved" || loaded.Server.Port != 9999 {
				t.Errorf("loaded = %+v", loaded)
			}
		})
	}
}
