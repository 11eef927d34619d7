package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tbxmanager/tbx"
	"github.com/tbxmanager/tbx/defaults"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for tbx.
type Config struct {
	Server string          `mapstructure:"server" validate:"required"`
	Env    string          `mapstructure:"env"`
	API    APIConfig       `mapstructure:"api"`
	Store  defaults.Config `mapstructure:"store"`
	Upload UploadConfig    `mapstructure:"upload"`
	Output OutputConfig    `mapstructure:"output"`
	Log    LogConfig       `mapstructure:"log"`
}

// APIConfig holds REST client configuration.
type APIConfig struct {
	// Timeout bounds each request; zero disables it.
	Timeout time.Duration `mapstructure:"timeout" validate:"min=0"`
}

// UploadConfig holds upload configuration.
type UploadConfig struct {
	SCPCommand string `mapstructure:"scp_command" validate:"required"`
}

// OutputConfig holds output formatting configuration.
type OutputConfig struct {
	JSON        bool `mapstructure:"json"`
	Quiet       bool `mapstructure:"quiet"`
	ShowSecrets bool `mapstructure:"show_secrets"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// ConfigFlag names the option that points at a config file.
const ConfigFlag = "config"

// flagToViperKey maps tool option names to viper configuration keys.
var flagToViperKey = map[string]string{
	"server":       "server",
	"timeout":      "api.timeout",
	"store":        "store.type",
	"scp-command":  "upload.scp_command",
	"json":         "output.json",
	"quiet":        "output.quiet",
	"show-secrets": "output.show_secrets",
	"log-level":    "log.level",
}

// FlagSet returns the tool options. They configure tbx itself and are
// never sent to the API.
func FlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("tbx", pflag.ContinueOnError)
	fs.String(ConfigFlag, "", "config file (default: ~/.tbx/config.yaml)")
	fs.String("server", "", "tbxmanager host or base URL (default: tbxmanager.com, env: TBX_SERVER)")
	fs.Duration("timeout", 0, "API request timeout, 0 for none (env: TBX_API_TIMEOUT)")
	fs.String("store", "", "defaults store: file, sqlite, memory (env: TBX_STORE_TYPE)")
	fs.String("scp-command", "", "scp command line (default: scp, env: TBX_UPLOAD_SCP_COMMAND)")
	fs.Bool("json", false, "output as JSON")
	fs.Bool("quiet", false, "suppress non-essential output")
	fs.Bool("show-secrets", false, "show the stored password in setup show")
	fs.String("log-level", "", "log level: debug, info, warn, error (env: TBX_LOG_LEVEL)")
	return fs
}

// ToolOptions returns the names defined by FlagSet.
func ToolOptions() []string {
	var names []string
	FlagSet().VisitAll(func(f *pflag.Flag) {
		names = append(names, f.Name)
	})
	return names
}

// ApplyOptions copies the tool options present in opts onto fs, marking
// them as changed.
func ApplyOptions(fs *pflag.FlagSet, opts *tbx.Options) error {
	var errs []error
	fs.VisitAll(func(f *pflag.Flag) {
		value, ok := opts.Get(f.Name)
		if !ok {
			return
		}
		if err := fs.Set(f.Name, value); err != nil {
			errs = append(errs, fmt.Errorf("option --%s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey, ok := flagToViperKey[f.Name]
		if !ok {
			return
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server", "tbxmanager.com")
	v.SetDefault("env", "")

	v.SetDefault("api.timeout", "0s")

	v.SetDefault("store.type", defaults.TypeFile)
	v.SetDefault("store.path", "")
	v.SetDefault("store.namespace", defaults.DefaultNamespace)
	v.SetDefault("store.table", defaults.DefaultTable)

	v.SetDefault("upload.scp_command", "scp")

	v.SetDefault("output.json", false)
	v.SetDefault("output.quiet", false)
	v.SetDefault("output.show_secrets", false)

	v.SetDefault("log.level", "warn")
}

// Dir returns the per-user tbx directory (~/.tbx).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tbx"
	}
	return filepath.Join(home, ".tbx")
}

// DefaultStorePath returns the store file used when store.path is empty.
func DefaultStorePath(storeType string) string {
	if storeType == defaults.TypeSQLite {
		return filepath.Join(Dir(), "defaults.db")
	}
	return filepath.Join(Dir(), "defaults.yaml")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: tool option flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFiles[0], err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("merge config file %s: %w", cf, err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("TBX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath(cfg.Store.Type)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// ConfigFiles returns the config file named by the config tool option, if any.
func ConfigFiles(flags *pflag.FlagSet) []string {
	if flags == nil {
		return nil
	}
	path, err := flags.GetString(ConfigFlag)
	if err != nil || path == "" {
		return nil
	}
	return []string{path}
}
