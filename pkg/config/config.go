package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Pacing   PacingConfig   `yaml:"pacing"`
	CDN      CDNConfig      `yaml:"cdn"`
	Blob     BlobConfig     `yaml:"blob"`
	Encoder  EncoderConfig  `yaml:"encoder"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Resolver ResolverConfig `yaml:"resolver"`
	Log      LogConfig      `yaml:"log"`

	// Theme is the terminal color theme: auto, dark or light
	Theme string `yaml:"theme"`

	// Workspace Settings
	Workspace   string `yaml:"workspace"`
	CatalogFile string `yaml:"catalog_file"`
	SidecarFile string `yaml:"sidecar_file"`
}

// PacingConfig holds the fixed delays between batch items
type PacingConfig struct {
	DelayMS         int `yaml:"delay_ms"`
	CompressDelayMS int `yaml:"compress_delay_ms"`
}

// CDNConfig holds media CDN settings (credentials come from the environment)
type CDNConfig struct {
	URLTemplate  string   `yaml:"url_template"`
	ResourceType string   `yaml:"resource_type"`
	ListMax      int      `yaml:"list_max"`
	Folders      []string `yaml:"folders"`
}

// BlobConfig holds blob storage settings
type BlobConfig struct {
	Kind          string `yaml:"kind"` // "vercel" or "s3"
	APIURL        string `yaml:"api_url"`
	APIVersion    string `yaml:"api_version"`
	Access        string `yaml:"access"`
	PublicBaseURL string `yaml:"public_base_url"`

	S3Endpoint string `yaml:"s3_endpoint"`
	S3Bucket   string `yaml:"s3_bucket"`
	S3Region   string `yaml:"s3_region"`
	S3Secure   bool   `yaml:"s3_secure"`
}

// EncoderConfig holds the fixed re-encoding parameter set
type EncoderConfig struct {
	Binary       string   `yaml:"binary"`
	VideoCodec   string   `yaml:"video_codec"`
	CRF          int      `yaml:"crf"`
	Preset       string   `yaml:"preset"`
	AudioCodec   string   `yaml:"audio_codec"`
	AudioBitrate string   `yaml:"audio_bitrate"`
	ExtraArgs    []string `yaml:"extra_args"`
	ThresholdMB  int      `yaml:"threshold_mb"`
	OutputSuffix string   `yaml:"output_suffix"`
}

// FetchConfig bounds proxy downloads
type FetchConfig struct {
	TimeoutSeconds int `yaml:"timeout_s"`
	MaxMB          int `yaml:"max_mb"`
}

// ResolverConfig holds the locator fallback settings
type ResolverConfig struct {
	Placeholder string `yaml:"placeholder"`
}

// LogConfig holds diagnostic logging settings
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

const (
	DefaultCDNTemplate  = "https://res.cloudinary.com/{cloud}/video/upload/{key}.mp4"
	DefaultBlobAPIURL   = "https://blob.vercel-storage.com"
	DefaultPlaceholder  = "/assets/placeholder-video.mp4"
	DefaultCatalogFile  = "catalog.yaml"
	DefaultSidecarFile  = "blob-urls.json"
	DefaultBlobKind     = "vercel"
	DefaultResourceType = "video"
)

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		Pacing: PacingConfig{
			DelayMS:         1000,
			CompressDelayMS: 2000,
		},
		CDN: CDNConfig{
			URLTemplate:  DefaultCDNTemplate,
			ResourceType: DefaultResourceType,
			ListMax:      50,
			Folders:      []string{},
		},
		Blob: BlobConfig{
			Kind:       DefaultBlobKind,
			APIURL:     DefaultBlobAPIURL,
			APIVersion: "7",
			Access:     "public",
			S3Region:   "us-east-1",
			S3Secure:   true,
		},
		Encoder: EncoderConfig{
			Binary:       "ffmpeg",
			VideoCodec:   "libx264",
			CRF:          28,
			Preset:       "medium",
			AudioCodec:   "aac",
			AudioBitrate: "128k",
			ExtraArgs:    []string{"-movflags", "+faststart"},
			ThresholdMB:  100,
			OutputSuffix: "_compressed",
		},
		Fetch: FetchConfig{
			TimeoutSeconds: 300,
			MaxMB:          500,
		},
		Resolver: ResolverConfig{
			Placeholder: DefaultPlaceholder,
		},
		Log: LogConfig{
			Level: "info",
		},
		Theme:       "auto",
		Workspace:   ".",
		CatalogFile: DefaultCatalogFile,
		SidecarFile: DefaultSidecarFile,
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults back-fills values a partial file left empty
func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Pacing.DelayMS < 0 {
		c.Pacing.DelayMS = def.Pacing.DelayMS
	}
	if c.Pacing.CompressDelayMS < 0 {
		c.Pacing.CompressDelayMS = def.Pacing.CompressDelayMS
	}
	if c.CDN.URLTemplate == "" {
		c.CDN.URLTemplate = def.CDN.URLTemplate
	}
	if c.CDN.ResourceType == "" {
		c.CDN.ResourceType = def.CDN.ResourceType
	}
	if c.CDN.ListMax <= 0 {
		c.CDN.ListMax = def.CDN.ListMax
	}
	if c.Theme == "" {
		c.Theme = def.Theme
	}
	if c.Blob.Kind == "" {
		c.Blob.Kind = def.Blob.Kind
	}
	if c.Blob.APIURL == "" {
		c.Blob.APIURL = def.Blob.APIURL
	}
	if c.Blob.APIVersion == "" {
		c.Blob.APIVersion = def.Blob.APIVersion
	}
	if c.Blob.Access == "" {
		c.Blob.Access = def.Blob.Access
	}
	if c.Blob.S3Region == "" {
		c.Blob.S3Region = def.Blob.S3Region
	}
	if c.Encoder.Binary == "" {
		c.Encoder.Binary = def.Encoder.Binary
	}
	if c.Encoder.VideoCodec == "" {
		c.Encoder.VideoCodec = def.Encoder.VideoCodec
	}
	if c.Encoder.CRF <= 0 {
		c.Encoder.CRF = def.Encoder.CRF
	}
	if c.Encoder.Preset == "" {
		c.Encoder.Preset = def.Encoder.Preset
	}
	if c.Encoder.AudioCodec == "" {
		c.Encoder.AudioCodec = def.Encoder.AudioCodec
	}
	if c.Encoder.AudioBitrate == "" {
		c.Encoder.AudioBitrate = def.Encoder.AudioBitrate
	}
	if c.Encoder.ExtraArgs == nil {
		c.Encoder.ExtraArgs = def.Encoder.ExtraArgs
	}
	if c.Encoder.ThresholdMB <= 0 {
		c.Encoder.ThresholdMB = def.Encoder.ThresholdMB
	}
	if c.Encoder.OutputSuffix == "" {
		c.Encoder.OutputSuffix = def.Encoder.OutputSuffix
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = def.Fetch.TimeoutSeconds
	}
	if c.Fetch.MaxMB <= 0 {
		c.Fetch.MaxMB = def.Fetch.MaxMB
	}
	if c.Resolver.Placeholder == "" {
		c.Resolver.Placeholder = def.Resolver.Placeholder
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Workspace == "" {
		c.Workspace = def.Workspace
	}
	if c.CatalogFile == "" {
		c.CatalogFile = def.CatalogFile
	}
	if c.SidecarFile == "" {
		c.SidecarFile = def.SidecarFile
	}
	if c.CDN.Folders == nil {
		c.CDN.Folders = []string{}
	}
}

// Validate rejects settings no command can work with
func (c *Config) Validate() error {
	switch c.Blob.Kind {
	case "vercel", "s3":
	default:
		return fmt.Errorf("invalid blob.kind %q (expected vercel or s3)", c.Blob.Kind)
	}
	if c.Blob.Kind == "s3" && c.Blob.S3Bucket == "" {
		return fmt.Errorf("blob.s3_bucket is required when blob.kind is s3")
	}
	switch c.Theme {
	case "auto", "dark", "light":
	default:
		return fmt.Errorf("invalid theme %q (expected auto, dark or light)", c.Theme)
	}
	return nil
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Delay returns the pacing delay for a batch mode
func (c *Config) Delay(compress bool) time.Duration {
	if compress {
		return time.Duration(c.Pacing.CompressDelayMS) * time.Millisecond
	}
	return time.Duration(c.Pacing.DelayMS) * time.Millisecond
}

// ThresholdBytes returns the size above which files are re-encoded
func (e EncoderConfig) ThresholdBytes() int64 {
	return int64(e.ThresholdMB) * 1024 * 1024
}

// DefaultPath returns the XDG-compliant config file location
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "assetctl", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "assetctl", "config.yaml"), nil
	}

	return filepath.Join(homeDir, ".config", "assetctl", "config.yaml"), nil
}
