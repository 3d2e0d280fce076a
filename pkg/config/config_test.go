package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if cfg.Pacing.DelayMS != 1000 {
		t.Errorf("expected default DelayMS=1000, got %d", cfg.Pacing.DelayMS)
	}

	if cfg.Pacing.CompressDelayMS != 2000 {
		t.Errorf("expected default CompressDelayMS=2000, got %d", cfg.Pacing.CompressDelayMS)
	}

	if cfg.Blob.Kind != "vercel" {
		t.Errorf("expected default Blob.Kind='vercel', got %q", cfg.Blob.Kind)
	}

	if cfg.Encoder.ThresholdMB != 100 {
		t.Errorf("expected default ThresholdMB=100, got %d", cfg.Encoder.ThresholdMB)
	}

	if cfg.Resolver.Placeholder != "/assets/placeholder-video.mp4" {
		t.Errorf("unexpected placeholder %q", cfg.Resolver.Placeholder)
	}

	if cfg.CDN.ListMax != 50 {
		t.Errorf("expected default ListMax=50, got %d", cfg.CDN.ListMax)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	// Loading a non-existent file should return default config
	cfg, err := Load("/nonexistent/path/config.yaml")

	if err != nil {
		t.Fatalf("unexpected error loading non-existent file: %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	if cfg.Encoder.Binary != "ffmpeg" {
		t.Errorf("expected default Encoder.Binary='ffmpeg', got %q", cfg.Encoder.Binary)
	}
}

func TestSave_And_Load(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Pacing.DelayMS = 250
	cfg.Blob.Kind = "s3"
	cfg.Blob.S3Bucket = "media"
	cfg.Encoder.CRF = 23

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Pacing.DelayMS != 250 {
		t.Errorf("DelayMS: expected 250, got %d", loaded.Pacing.DelayMS)
	}
	if loaded.Blob.Kind != "s3" || loaded.Blob.S3Bucket != "media" {
		t.Errorf("Blob: got %+v", loaded.Blob)
	}
	if loaded.Encoder.CRF != 23 {
		t.Errorf("CRF: expected 23, got %d", loaded.Encoder.CRF)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	yamlContent := `encoder:
  crf: 0
  preset: slow
cdn:
  folders: [collab]
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to create test config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Zero values are back-filled
	if cfg.Encoder.CRF != 28 {
		t.Errorf("expected default CRF=28, got %d", cfg.Encoder.CRF)
	}
	if cfg.Encoder.VideoCodec != "libx264" {
		t.Errorf("expected default VideoCodec, got %q", cfg.Encoder.VideoCodec)
	}

	// Specified values are preserved
	if cfg.Encoder.Preset != "slow" {
		t.Errorf("expected Preset='slow', got %q", cfg.Encoder.Preset)
	}
	if len(cfg.CDN.Folders) != 1 || cfg.CDN.Folders[0] != "collab" {
		t.Errorf("unexpected folders %v", cfg.CDN.Folders)
	}
}

func TestLoad_ZeroDelayIsKept(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("pacing:\n  delay_ms: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Delay(false) != 0 {
		t.Errorf("expected zero delay, got %v", cfg.Delay(false))
	}
	if cfg.Delay(true) != 2*time.Second {
		t.Errorf("expected compress delay 2s, got %v", cfg.Delay(true))
	}
}

func TestLoad_NegativeDelay(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("pacing:\n  delay_ms: -5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Pacing.DelayMS != 1000 {
		t.Errorf("expected default DelayMS=1000 for negative value, got %d", cfg.Pacing.DelayMS)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	yamlContent := `pacing:
  delay_ms: [invalid yaml structure
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to create test config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("expected error loading invalid YAML, got nil")
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{"vercel", "blob:\n  kind: vercel\n", false},
		{"s3 with bucket", "blob:\n  kind: s3\n  s3_bucket: media\n", false},
		{"s3 without bucket", "blob:\n  kind: s3\n", true},
		{"unknown kind", "blob:\n  kind: gcs\n", true},
		{"dark theme", "theme: dark\n", false},
		{"unknown theme", "theme: neon\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := Load(configPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nested", "dir", "config.yaml")

	cfg := DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("config file was not created: %v", err)
	}

	content := string(data)
	for _, want := range []string{"libx264", "delay_ms", "placeholder-video.mp4"} {
		if !strings.Contains(content, want) {
			t.Errorf("config file should contain %q", want)
		}
	}
}

func TestThresholdBytes(t *testing.T) {
	e := EncoderConfig{ThresholdMB: 100}
	if e.ThresholdBytes() != 100*1024*1024 {
		t.Errorf("ThresholdBytes = %d", e.ThresholdBytes())
	}
}

func TestDefaultPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join("/tmp/xdg", "assetctl", "config.yaml") {
		t.Errorf("DefaultPath() = %q", path)
	}
}
