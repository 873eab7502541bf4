// Package config loads runtime settings for the formcheck binary.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goliatone/go-formcheck/internal/logging"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "FORMCHECK"

// DefaultDebounce is the quiet period before an input is evaluated.
const DefaultDebounce = 300 * time.Millisecond

// CORSConfig groups cross-origin settings for the demo site.
type CORSConfig struct {
	EnableCORS         bool     `mapstructure:"enable_cors"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// Config holds the merged settings.
type Config struct {
	Env          string        `mapstructure:"env"`
	LogLevel     string        `mapstructure:"log_level"`
	Debounce     time.Duration `mapstructure:"-"`
	FormsFile    string        `mapstructure:"forms_file"`
	HTTPAddr     string        `mapstructure:"http_addr"`
	OutputFormat string        `mapstructure:"output_format"`
	MetricsFile  string        `mapstructure:"metrics_file"`
	CORS         CORSConfig    `mapstructure:",squash"`
}

// Dump returns the config as indented JSON for debug logging.
func (c Config) Dump() string {
	b, _ := json.MarshalIndent(c, "", "  ")
	return string(b)
}

// RegisterFlags defines every config flag on fs. Flags already present are
// left untouched.
func RegisterFlags(fs *pflag.FlagSet) {
	define := func(name string, register func()) {
		if fs.Lookup(name) == nil {
			register()
		}
	}
	define("config", func() { fs.String("config", "", "Path to a config file (yaml, json or toml)") })
	define("env", func() { fs.String("env", "dev", `Runtime environment "dev"|"prod"`) })
	define("log_level", func() { fs.String("log_level", "info", "Log level") })
	define("debounce", func() { fs.String("debounce", DefaultDebounce.String(), `Input debounce delay (e.g. "300ms")`) })
	define("forms_file", func() { fs.String("forms_file", "", "YAML or JSON file with form definitions (defaults to the embedded forms)") })
	define("http_addr", func() { fs.String("http_addr", ":8080", "Listen address for serve") })
	define("output_format", func() { fs.String("output_format", "json", "Record output for fill: json|form|pretty") })
	define("metrics_file", func() { fs.String("metrics_file", "", "Write Prometheus text metrics to this file after fill") })
	define("enable_cors", func() { fs.Bool("enable_cors", false, "Enable CORS on serve") })
	define("cors_allowed_origins", func() {
		fs.String("cors_allowed_origins", "", `JSON array of origins, e.g. '["https://a.example"]'`)
	})
}

// Load merges defaults, .env, an optional config file, FORMCHECK_* env vars
// and explicitly set flags into one Config. Precedence, highest first: flags,
// env, config file, defaults. A nil fs uses a fresh flag set.
func Load(fs *pflag.FlagSet, args []string, logger *zap.Logger) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fs == nil {
		fs = pflag.NewFlagSet("formcheck", pflag.ContinueOnError)
	}

	if err := godotenv.Load(); err == nil {
		logger.Info("Loaded .env file")
	}

	RegisterFlags(fs)
	if !fs.Parsed() {
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("config: parse flags: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, key := range allKeys() {
		_ = v.BindEnv(key)
	}

	if err := readConfigFile(v, fs, logger); err != nil {
		return nil, err
	}

	setDefaults(v)

	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed && f.Name != "config" {
			_ = v.BindPFlag(f.Name, f)
		}
	})

	if err := normalizeListKeys(logger, v, "cors_allowed_origins"); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	debounce, err := parseDurationFlexible(v.Get("debounce"), DefaultDebounce)
	if err != nil {
		return nil, fmt.Errorf("config: debounce: %w", err)
	}
	cfg.Debounce = debounce
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.OutputFormat = strings.ToLower(strings.TrimSpace(cfg.OutputFormat))

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readConfigFile(v *viper.Viper, fs *pflag.FlagSet, logger *zap.Logger) error {
	path, _ := fs.GetString("config")
	if path = strings.TrimSpace(path); path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
		logger.Info("Loaded config file", zap.String("file", path))
		return nil
	}

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		logger.Warn("cannot decode config file", zap.Error(err))
		return nil
	}
	logger.Info("Loaded config file", zap.String("file", v.ConfigFileUsed()))
	return nil
}

func allKeys() []string {
	return []string{
		"env", "log_level", "debounce",
		"forms_file", "http_addr", "output_format", "metrics_file",
		"enable_cors", "cors_allowed_origins",
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("debounce", DefaultDebounce.String())
	v.SetDefault("forms_file", "")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("output_format", "json")
	v.SetDefault("metrics_file", "")
	v.SetDefault("enable_cors", false)
	v.SetDefault("cors_allowed_origins", []string{})
}

// normalizeListKeys coerces JSON-string values into []string.
func normalizeListKeys(logger *zap.Logger, v *viper.Viper, keys ...string) error {
	for _, key := range keys {
		switch t := v.Get(key).(type) {
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				v.Set(key, []string{})
				continue
			}
			var arr []string
			if err := json.Unmarshal([]byte(s), &arr); err != nil {
				return fmt.Errorf("config: key %q expects a JSON array string, got %q: %w", key, s, err)
			}
			v.Set(key, arr)
		case []any:
			arr := make([]string, 0, len(t))
			for _, e := range t {
				arr = append(arr, fmt.Sprint(e))
			}
			v.Set(key, arr)
		case []string, nil:
		default:
			logger.Warn("unexpected type for list key", zap.String("key", key), zap.Any("value", t))
		}
	}
	return nil
}

func validate(cfg Config) error {
	var invalid []string

	if cfg.Env != "dev" && cfg.Env != "prod" {
		invalid = append(invalid, `env must be "dev" or "prod"`)
	}
	if !logging.IsValidLogLevel(cfg.LogLevel) {
		invalid = append(invalid, fmt.Sprintf("log_level %q is not a zap level", cfg.LogLevel))
	}
	switch cfg.OutputFormat {
	case "json", "form", "pretty":
	default:
		invalid = append(invalid, fmt.Sprintf("output_format %q must be json, form or pretty", cfg.OutputFormat))
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		invalid = append(invalid, "http_addr must not be empty")
	}
	if cfg.CORS.EnableCORS && len(cfg.CORS.CORSAllowedOrigins) == 0 {
		invalid = append(invalid, "cors_allowed_origins required when enable_cors=true")
	}

	if len(invalid) == 0 {
		return nil
	}
	return fmt.Errorf("config: invalid: %s", strings.Join(invalid, ", "))
}
