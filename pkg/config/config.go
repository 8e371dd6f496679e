/*
Package config manages the TOML configuration shared by the wordscape
commands: the search service, the IPC server and the terminal widget.

A config file is optional. When none is given the default location
(~/.config/wordscape/config.toml) is created with built-in defaults. Files
that fail to decode are recovered section by section, and environment
variables override file values.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/bastiangx/wordscape/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
)

// Environment variables that override file values.
const (
	EnvWordList = "WORDSCAPE_WORDLIST"
	EnvFreqList = "WORDSCAPE_FREQLIST"
	EnvHost     = "WORDSCAPE_HOST"
	EnvEndpoint = "WORDSCAPE_ENDPOINT"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the entire config structure
type Config struct {
	Server ServerConfig `toml:"server"`
	Dict   DictConfig   `toml:"dict"`
	Widget WidgetConfig `toml:"widget"`
	CLI    CliConfig    `toml:"cli"`
}

// ServerConfig has search service options.
type ServerConfig struct {
	Host        string  `toml:"host" validate:"required,hostname_port"`
	MaxResults  int     `toml:"max_results" validate:"gte=0"`
	RateLimit   float64 `toml:"rate_limit" validate:"gte=0"` // requests per second, 0 disables
	RateBurst   int     `toml:"rate_burst" validate:"gte=1"`
	EnableCache bool    `toml:"enable_cache"`
	CacheSize   int     `toml:"cache_size" validate:"gte=0"`
	Metrics     bool    `toml:"metrics"`
	StaticDir   string  `toml:"static_dir"` // optional front-end served for unknown paths
}

// DictConfig holds dictionary options.
type DictConfig struct {
	WordList  string `toml:"wordlist" validate:"required"`
	FreqList  string `toml:"freqlist"`
	MinLength int    `toml:"min_length" validate:"gte=1"`
	MaxLength int    `toml:"max_length" validate:"gte=0"`
}

// WidgetConfig holds terminal widget options.
type WidgetConfig struct {
	Endpoint     string `toml:"endpoint" validate:"required,url"`
	DefaultSlots int    `toml:"default_slots" validate:"gte=3,lte=7"`
	TimeoutMS    int    `toml:"timeout_ms" validate:"gte=0"`
	Msgpack      bool   `toml:"msgpack"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int `toml:"default_limit" validate:"gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field ranges and cross-field constraints.
func (c *Config) Validate() error {
	var problems []string
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("%s fails %q (got %v)", fe.Namespace(), fe.ActualTag(), fe.Value()))
		}
	}
	if c.Dict.MaxLength > 0 && c.Dict.MaxLength < c.Dict.MinLength {
		problems = append(problems, fmt.Sprintf("dict.max_length %d is below min_length %d", c.Dict.MaxLength, c.Dict.MinLength))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// ApplyEnv overrides file values with the WORDSCAPE_* environment variables.
func (c *Config) ApplyEnv() {
	for env, dst := range map[string]*string{
		EnvWordList: &c.Dict.WordList,
		EnvFreqList: &c.Dict.FreqList,
		EnvHost:     &c.Server.Host,
		EnvEndpoint: &c.Widget.Endpoint,
	} {
		if val, ok := os.LookupEnv(env); ok && val != "" {
			log.Debugf("Using %s=%s", env, val)
			*dst = val
		}
	}
}

// GetConfigDir returns the first writable config directory of:
// 1. ~/.config/wordscape
// 2. [UserConfigDir]/wordscape (Application Support on macOS, AppData on Windows)
// 3. the executable's directory
func GetConfigDir() (string, error) {
	var candidates []string
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "wordscape"))
	} else {
		log.Errorf("Failed to get home directory: %v", err)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "wordscape"))
	}
	for _, dir := range candidates {
		if utils.WritableDir(dir) {
			return dir, nil
		}
	}

	execDir, err := utils.ExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordscape/config.toml
// 3. Builtin defaults
//
// Environment overrides are applied and the result is validated. An invalid
// file is reported and replaced by the defaults.
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	cfg, path := loadWithPriority(customConfigPath)
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		log.Warnf("%v. Using built-in defaults...", err)
		cfg = DefaultConfig()
		cfg.ApplyEnv()
		if err := cfg.Validate(); err != nil {
			return nil, path, err
		}
	}
	cfg.resolvePaths(path)
	return cfg, path, nil
}

func loadWithPriority(customConfigPath string) (*Config, string) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			cfg, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return cfg, customConfigPath
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), ""
	}
	cfg, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), ""
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return cfg, defaultPath
}

// resolvePaths locates relative dictionary files next to the config file.
func (c *Config) resolvePaths(configPath string) {
	var dir string
	if configPath != "" {
		dir = filepath.Dir(configPath)
	}
	c.Dict.WordList = utils.ResolveDataFile(c.Dict.WordList, dir)
	c.Dict.FreqList = utils.ResolveDataFile(c.Dict.FreqList, dir)
}

// Load reads path, applies environment overrides and validates the result.
// Unlike LoadConfigWithPriority it never substitutes defaults for a bad file.
func Load(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.resolvePaths(path)
	return cfg, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "localhost:8080",
			MaxResults:  0,
			RateLimit:   50,
			RateBurst:   100,
			EnableCache: true,
			CacheSize:   1024,
			Metrics:     true,
		},
		Dict: DictConfig{
			WordList:  "words.txt",
			MinLength: 1,
		},
		Widget: WidgetConfig{
			Endpoint:     "http://localhost:8080/",
			DefaultSlots: 4,
		},
		CLI: CliConfig{
			DefaultLimit: 24,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		cfg := DefaultConfig()
		if err := SaveConfig(cfg, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return cfg, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig decodes a TOML file over the defaults. When the file does not
// decode as a whole, each section is recovered on its own.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, cfg); err != nil {
		return tryPartialParse(configPath)
	}
	return cfg, nil
}

func tryPartialParse(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	raw, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return cfg, nil
	}

	if section, ok := utils.ExtractSection(raw, "server"); ok {
		extractServerConfig(section, &cfg.Server)
	}
	if section, ok := utils.ExtractSection(raw, "dict"); ok {
		extractDictConfig(section, &cfg.Dict)
	}
	if section, ok := utils.ExtractSection(raw, "widget"); ok {
		extractWidgetConfig(section, &cfg.Widget)
	}
	if section, ok := utils.ExtractSection(raw, "cli"); ok {
		extractCliConfig(section, &cfg.CLI)
	}
	return cfg, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractString(data, "host"); ok {
		server.Host = val
	}
	if val, ok := utils.ExtractInt64(data, "max_results"); ok {
		server.MaxResults = val
	}
	if val, ok := utils.ExtractFloat(data, "rate_limit"); ok {
		server.RateLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "rate_burst"); ok {
		server.RateBurst = val
	}
	if val, ok := utils.ExtractBool(data, "enable_cache"); ok {
		server.EnableCache = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		server.CacheSize = val
	}
	if val, ok := utils.ExtractBool(data, "metrics"); ok {
		server.Metrics = val
	}
	if val, ok := utils.ExtractString(data, "static_dir"); ok {
		server.StaticDir = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "wordlist"); ok {
		dict.WordList = val
	}
	if val, ok := utils.ExtractString(data, "freqlist"); ok {
		dict.FreqList = val
	}
	if val, ok := utils.ExtractInt64(data, "min_length"); ok {
		dict.MinLength = val
	}
	if val, ok := utils.ExtractInt64(data, "max_length"); ok {
		dict.MaxLength = val
	}
}

func extractWidgetConfig(data map[string]any, widget *WidgetConfig) {
	if val, ok := utils.ExtractString(data, "endpoint"); ok {
		widget.Endpoint = val
	}
	if val, ok := utils.ExtractInt64(data, "default_slots"); ok {
		widget.DefaultSlots = val
	}
	if val, ok := utils.ExtractInt64(data, "timeout_ms"); ok {
		widget.TimeoutMS = val
	}
	if val, ok := utils.ExtractBool(data, "msgpack"); ok {
		widget.Msgpack = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
}

// RebuildConfigFile force creates a new config.toml at path, or at the
// default location when path is empty, and returns where it was written.
func RebuildConfigFile(path string) (string, error) {
	if path == "" {
		var err error
		if path, err = GetDefaultConfigPath(); err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	return path, SaveConfig(DefaultConfig(), path)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	if abs, err := filepath.Abs(configPath); err == nil {
		return abs
	}
	return configPath
}

// SaveConfig saves into a TOML file
func SaveConfig(cfg *Config, configPath string) error {
	return utils.SaveTOMLFile(cfg, configPath)
}
