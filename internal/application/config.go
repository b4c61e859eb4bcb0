package application

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for a scorecard deployment: how the
// engine fans out and which scoring backend to build. Workspace state
// (dataset, selection, slices, facets) is not configuration; it arrives
// through the provider ports at runtime.
type Config struct {
	// Version specifies the configuration schema version using semantic
	// versioning to ensure compatibility across updates.
	Version string `yaml:"version" validate:"required,semver"`
	// Engine carries the fetch orchestrator's tunables.
	Engine EngineSettings `yaml:"engine"`
	// Scoring selects and parameterizes the scoring backend.
	Scoring ScoringSettings `yaml:"scoring" validate:"required"`
}

// EngineSettings carries the engine tunables exposed to configuration.
type EngineSettings struct {
	// MaxConcurrentRequests caps concurrently issued scoring requests per
	// batch. Zero means no limit.
	MaxConcurrentRequests int `yaml:"max_concurrent_requests" validate:"min=0,max=64"`
}

// ScoringSettings selects the scoring backend by its registered name and
// carries backend-specific options as flexible key-value pairs validated by
// the backend factory itself.
type ScoringSettings struct {
	// Backend is the registered backend name, for example "local" or
	// "http".
	Backend string `yaml:"backend" validate:"required,backendname"`
	// Options contains backend-specific configuration. The selected
	// backend's factory interprets and validates it.
	Options map[string]any `yaml:"options"`
}

// DefaultConfig returns the configuration used when no file is supplied:
// the local backend with a modest fan-out cap.
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0.0",
		Engine:  EngineSettings{MaxConcurrentRequests: 8},
		Scoring: ScoringSettings{Backend: "local"},
	}
}

// LoadConfig reads, strictly decodes, and validates a YAML configuration
// file.
func LoadConfig(path string) (*Config, error) {
	// Clean the path to prevent directory traversal attacks.
	cleanPath := filepath.Clean(path)

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(bytes.NewReader(data))
}

// ParseConfig strictly decodes and validates a YAML configuration from the
// reader. Unknown fields fail the decode so typos cannot be silently
// ignored.
func ParseConfig(r io.Reader) (*Config, error) {
	var config Config
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true) // Strict mode - fail on unknown fields.

	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("YAML decode failed: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// applyDefaults fills the fields a minimal configuration may omit.
// MaxConcurrentRequests is deliberately left alone; zero means unlimited.
func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = "1.0.0"
	}
	if c.Scoring.Backend == "" {
		c.Scoring.Backend = "local"
	}
}

// Validate checks the configuration against its struct constraints and the
// custom registered validators.
func (c *Config) Validate() error {
	v, err := newConfigValidator()
	if err != nil {
		return fmt.Errorf("failed to build validator: %w", err)
	}
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// newConfigValidator creates a validator with the custom validation
// functions config struct tags reference.
func newConfigValidator() (*validator.Validate, error) {
	v := validator.New()

	if err := v.RegisterValidation("semver", validateSemver); err != nil {
		return nil, fmt.Errorf("failed to register semver validator: %w", err)
	}
	if err := v.RegisterValidation("backendname", validateBackendName); err != nil {
		return nil, fmt.Errorf("failed to register backendname validator: %w", err)
	}

	return v, nil
}

// validateSemver validates that a string follows semantic versioning
// format (X.Y.Z where X, Y, Z are non-negative integers).
func validateSemver(fl validator.FieldLevel) bool {
	var major, minor, patch int
	n, err := fmt.Sscanf(fl.Field().String(), "%d.%d.%d", &major, &minor, &patch)
	return err == nil && n == 3
}

// validateBackendName validates a registered backend name: a lowercase
// letter followed by lowercase letters, digits, hyphens, or underscores.
func validateBackendName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return false
	}
	for i, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z':
		case ch >= '0' && ch <= '9' || ch == '-' || ch == '_':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
