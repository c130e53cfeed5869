package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"predictd/internal/model"
)

// Defaults applied by Defaults and WithDefaults.
const (
	DefaultAddr                   = ":8080"
	DefaultModelPath              = "xgb_model.onnx"
	DefaultMaxBodyBytes     int64 = 1 << 20
	DefaultLogLevel               = "info"
	DefaultLogFormat              = "json"
	DefaultShutdownTimeoutSeconds = 5
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr           string `json:"addr" yaml:"addr" toml:"addr"`
	ModelPath      string `json:"model_path" yaml:"model_path" toml:"model_path"`
	ORTLibraryPath string `json:"ort_library_path" yaml:"ort_library_path" toml:"ort_library_path"`
	InputName      string `json:"input_name" yaml:"input_name" toml:"input_name"`
	OutputName     string `json:"output_name" yaml:"output_name" toml:"output_name"`
	OutputWidth    int    `json:"output_width" yaml:"output_width" toml:"output_width"`

	// Execution policy. Nil pointers fall back to the single-threaded sequential default.
	InterOpThreads *int  `json:"inter_op_threads" yaml:"inter_op_threads" toml:"inter_op_threads"`
	IntraOpThreads *int  `json:"intra_op_threads" yaml:"intra_op_threads" toml:"intra_op_threads"`
	Sequential     *bool `json:"sequential" yaml:"sequential" toml:"sequential"`

	MaxBodyBytes           int64 `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	PredictTimeoutSeconds  int64 `json:"predict_timeout_seconds" yaml:"predict_timeout_seconds" toml:"predict_timeout_seconds"`
	ShutdownTimeoutSeconds int64 `json:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds" toml:"shutdown_timeout_seconds"`

	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format"`

	CORSEnabled        bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" toml:"cors_allowed_origins"`
	CORSAllowedMethods []string `json:"cors_allowed_methods" yaml:"cors_allowed_methods" toml:"cors_allowed_methods"`
	CORSAllowedHeaders []string `json:"cors_allowed_headers" yaml:"cors_allowed_headers" toml:"cors_allowed_headers"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Defaults returns a fully populated configuration.
func Defaults() Config { return Config{}.WithDefaults() }

// WithDefaults fills unspecified fields.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ModelPath == "" {
		c.ModelPath = DefaultModelPath
	}
	p := model.DefaultPolicy()
	if c.InterOpThreads == nil {
		c.InterOpThreads = &p.InterOpThreads
	}
	if c.IntraOpThreads == nil {
		c.IntraOpThreads = &p.IntraOpThreads
	}
	if c.Sequential == nil {
		c.Sequential = &p.Sequential
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.ShutdownTimeoutSeconds <= 0 {
		c.ShutdownTimeoutSeconds = DefaultShutdownTimeoutSeconds
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	return c
}

// ApplyEnv overlays environment overrides. PORT is honored for platforms
// that inject it; PREDICTD_ADDR wins over PORT.
func (c Config) ApplyEnv(getenv func(string) string) Config {
	if v := getenv("PORT"); v != "" {
		c.Addr = ":" + v
	}
	if v := getenv("PREDICTD_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("PREDICTD_MODEL_PATH"); v != "" {
		c.ModelPath = v
	}
	if v := getenv("PREDICTD_ORT_LIB"); v != "" {
		c.ORTLibraryPath = v
	}
	if v := getenv("PREDICTD_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return c
}

// Policy returns the execution policy described by c. Call after WithDefaults.
func (c Config) Policy() model.ExecutionPolicy {
	p := model.DefaultPolicy()
	if c.InterOpThreads != nil {
		p.InterOpThreads = *c.InterOpThreads
	}
	if c.IntraOpThreads != nil {
		p.IntraOpThreads = *c.IntraOpThreads
	}
	if c.Sequential != nil {
		p.Sequential = *c.Sequential
	}
	return p
}

// LoadOptions maps c onto model.LoadOptions.
func (c Config) LoadOptions() model.LoadOptions {
	return model.LoadOptions{
		Policy:      c.Policy(),
		LibraryPath: c.ORTLibraryPath,
		InputName:   c.InputName,
		OutputName:  c.OutputName,
		OutputWidth: c.OutputWidth,
	}
}

// Validate rejects configurations that cannot start.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ModelPath) == "" {
		return fmt.Errorf("model_path is required")
	}
	if c.OutputWidth < 0 {
		return fmt.Errorf("output_width must be >= 0, got %d", c.OutputWidth)
	}
	if c.PredictTimeoutSeconds < 0 {
		return fmt.Errorf("predict_timeout_seconds must be >= 0, got %d", c.PredictTimeoutSeconds)
	}
	switch c.LogFormat {
	case "", "json", "console":
	default:
		return fmt.Errorf("log_format must be json or console, got %q", c.LogFormat)
	}
	return c.Policy().Validate()
}
