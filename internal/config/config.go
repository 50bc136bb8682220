// Package config loads ormconv settings from a YAML file, a .env file and
// ORMCONV_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvLogLevel  = "ORMCONV_LOG_LEVEL"
	EnvLogFormat = "ORMCONV_LOG_FORMAT"
	EnvPackage   = "ORMCONV_PACKAGE"
)

// ErrInvalidConfig is returned when settings fail validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds every ormconv setting.
type Config struct {
	// Package is the package clause of generated files; empty picks the
	// destination's conventional package.
	Package string     `yaml:"package" validate:"omitempty,goident"`
	To      string     `yaml:"to" validate:"omitempty,oneof=gorm ent"`
	From    string     `yaml:"from" validate:"omitempty,oneof=gorm ent"`
	GORM    GORMConfig `yaml:"gorm"`
	Ent     EntConfig  `yaml:"ent"`
	Log     LogConfig  `yaml:"log"`
}

// GORMConfig holds the GORM adapter settings.
type GORMConfig struct {
	Pointers *bool `yaml:"pointer_nullable"`
}

// EntConfig holds the ent adapter settings.
type EntConfig struct {
	Dialects []string `yaml:"dialects" validate:"dive,oneof=mysql postgres sqlite3 gremlin"`
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// PointerNullable reports whether nullable GORM columns use pointer types.
func (c GORMConfig) PointerNullable() bool {
	return c.Pointers == nil || *c.Pointers
}

// Default returns the settings used when no file is given.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)

	return c
}

// Load reads the YAML file at path (skipped when empty), loads envFile into
// the environment (skipped when empty or missing), applies ORMCONV_*
// overrides and validates the result.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return nil, err
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile loads and parses a YAML config file from the given path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Config. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(c *Config) {
	if c.To == "" {
		c.To = "ent"
	}

	if len(c.Ent.Dialects) == 0 {
		c.Ent.Dialects = []string{"mysql", "postgres", "sqlite3"}
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	c.To = strings.ToLower(c.To)
	c.From = strings.ToLower(c.From)
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)
}

// ApplyEnv overrides settings from ORMCONV_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}

	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Log.Format = strings.ToLower(v)
	}

	if v, ok := lookup(EnvPackage); ok && v != "" {
		c.Package = v
	}
}

// Validate checks every setting against its validate tag.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return token.IsIdentifier(s) && s != "_"
	}); err != nil {
		return err
	}

	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}

		msgs := make([]string, len(verrs))
		for i, fe := range verrs {
			msgs[i] = fmt.Sprintf("%s=%q fails %s", fe.Namespace(), fmt.Sprint(fe.Value()), fe.Tag())
		}

		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
	}

	return nil
}
