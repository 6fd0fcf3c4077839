// Package config loads the layered configuration of the dialoglsp tool:
// built-in defaults, then an optional dialoglsp.yaml file, then DIALOGLSP_*
// environment variables, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abiiranathan/dialog-template-lsp/analyzer/logging"
	"github.com/abiiranathan/dialog-template-lsp/analyzer/render"
	"github.com/abiiranathan/dialog-template-lsp/analyzer/workspace"
)

const (
	EnvPrefix         = "DIALOGLSP"
	DefaultConfigName = "dialoglsp"

	// CodeInvalid is the text code of configuration errors.
	CodeInvalid = "CONFIG_INVALID"
)

// Locator names accepted by the "locator" key.
var locatorNames = []any{"heuristic", "line", "span", "exact"}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// Validate implements validation.Validatable.
func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.In("trace", "debug", "info", "warn", "error", "disabled").
			Error("must be one of trace, debug, info, warn, error, disabled")),
		validation.Field(&c.Format, validation.In(logging.FormatConsole, logging.FormatJSON).
			Error("must be console or json")),
	)
}

// PreviewConfig configures the live preview.
type PreviewConfig struct {
	Addr     string        `mapstructure:"addr" json:"addr"`
	Debounce time.Duration `mapstructure:"debounce" json:"debounce"`
}

// Validate implements validation.Validatable.
func (c PreviewConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.Debounce, validation.Min(time.Duration(0)), validation.Max(10*time.Second)),
	)
}

// Config is the merged configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log" json:"log"`
	Locator string        `mapstructure:"locator" json:"locator"`
	Preview PreviewConfig `mapstructure:"preview" json:"preview"`
	// Tokens maps token names to the sample values used in previews.
	Tokens map[string]string `mapstructure:"tokens" json:"tokens"`

	// File is the configuration file that was read, if any.
	File string `mapstructure:"-" json:"file,omitempty"`
}

// Validate implements validation.Validatable.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Log),
		validation.Field(&c.Locator, validation.Required, validation.In(locatorNames...).
			Error("must be heuristic or span")),
		validation.Field(&c.Preview),
		validation.Field(&c.Tokens, validation.By(validTokenNames)),
	)
}

func validTokenNames(value any) error {
	tokens, _ := value.(map[string]string)
	for name := range tokens {
		if name == "" || strings.Contains(name, render.TokenDelimiter) || strings.ContainsAny(name, " \t\n") {
			return fmt.Errorf("invalid token name %q", name)
		}
	}
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:     LogConfig{Level: "info", Format: logging.FormatConsole},
		Locator: "heuristic",
		Preview: PreviewConfig{Addr: "127.0.0.1:7788", Debounce: workspace.DefaultDebounce},
		Tokens:  render.DefaultTokenValues(),
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("locator", d.Locator)
	v.SetDefault("preview.addr", d.Preview.Addr)
	v.SetDefault("preview.debounce", d.Preview.Debounce)
	for name, value := range d.Tokens {
		v.SetDefault("tokens."+name, value)
	}
}

// flagKeys maps flag names to the configuration keys they override.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"locator":    "locator",
	"addr":       "preview.addr",
	"debounce":   "preview.debounce",
}

// LoadOptions configure Load.
type LoadOptions struct {
	// File is an explicit configuration file. When empty, dialoglsp.yaml
	// is searched in the working directory and in ~/.config/dialoglsp; a
	// missing file is not an error.
	File string
	// Flags, when set, override file and environment values for the flags
	// that were changed on the command line.
	Flags *pflag.FlagSet
}

// Load merges all configuration sources and validates the result. Errors
// carry the CONFIG_INVALID text code.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", DefaultConfigName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || opts.File != "" {
			return nil, invalid(err, "read configuration file")
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for flagName, key := range flagKeys {
			if f := opts.Flags.Lookup(flagName); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, invalid(err, "bind flag --"+flagName)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, invalid(err, "decode configuration")
	}
	cfg.Tokens = canonicalTokens(cfg.Tokens)
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, goerrors.FromOzzoValidation(err, "invalid configuration").WithTextCode(CodeInvalid)
	}
	return &cfg, nil
}

func invalid(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, msg).WithTextCode(CodeInvalid)
}

// canonicalTokens restores the spelling of known token names, which the
// configuration layer lower-cases. Other names are kept as read.
func canonicalTokens(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for name, value := range in {
		for _, t := range render.KnownTokens {
			if strings.EqualFold(name, t.Name) {
				name = t.Name
				break
			}
		}
		out[name] = value
	}
	return out
}

// IsInvalid reports whether err is a configuration error.
func IsInvalid(err error) bool {
	var e *goerrors.Error
	return goerrors.As(err, &e) && e.TextCode == CodeInvalid
}
