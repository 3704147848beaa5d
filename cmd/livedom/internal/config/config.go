package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the file serve looks for when no path is given
	ConfigFileName = "livedom.yaml"

	// DefaultAddr is the listen address used when none is configured
	DefaultAddr = "localhost:8080"
)

// Config represents the serve configuration
type Config struct {
	// Addr is the host:port the preview server listens on
	Addr string `yaml:"addr" validate:"required,hostname_port"`

	// Template is the template file to serve
	Template string `yaml:"template" validate:"required,file"`

	// Data is an optional YAML or JSON file with the initial render data
	Data string `yaml:"data,omitempty" validate:"omitempty,file"`

	// Mode is the component mode: open, closed or none
	Mode string `yaml:"mode" validate:"required,oneof=open closed none"`

	// Minify minifies the template source before parsing
	Minify bool `yaml:"minify,omitempty"`

	// MemoryLimitMB caps the markup held by live views, 0 for no limit
	MemoryLimitMB int `yaml:"memory_limit_mb,omitempty" validate:"gte=0"`
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		Addr: DefaultAddr,
		Mode: "open",
	}
}

// LoadConfig loads the configuration from path. Fields missing from the file
// keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// FieldError is one invalid configuration field
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError lists every invalid field
type ValidationError []FieldError

func (v ValidationError) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		return name
	})
	return v
}

// Validate checks the configuration and returns a ValidationError naming the
// offending yaml keys.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	out := make(ValidationError, 0, len(errs))
	for _, e := range errs {
		out = append(out, FieldError{Field: e.Field(), Message: message(e)})
	}
	return out
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "hostname_port":
		return fmt.Sprintf("%q is not a host:port address", e.Value())
	case "file":
		return fmt.Sprintf("%q is not an existing file", e.Value())
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "oneof":
		return fmt.Sprintf("%q must be one of: %s", e.Value(), e.Param())
	}
	return "is invalid"
}
