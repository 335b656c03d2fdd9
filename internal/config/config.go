package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

const (
	defaultPageSize        = 10
	defaultInitialLoadSize = defaultPageSize * 3
	defaultHTTPTimeoutSec  = 20
)

const (
	defaultBaseURL    = "http://localhost:9999/api"
	defaultUserAgent  = "feedsync/0.1"
	defaultLogLevel   = "warn"
	configFolderName  = "feedsync"
	configFileName    = "config.toml"
	configPathEnvName = "XDG_CONFIG_HOME"
)

type Config struct {
	DBPath          string
	BaseURL         string
	PageSize        int
	InitialLoadSize int
	HTTPTimeout     time.Duration
	UserAgent       string
	APIKey          string
	LogLevel        string
}

func LoadConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:          filepath.Join(home, ".local", "share", "feedsync", "feedsync.db"),
		BaseURL:         defaultBaseURL,
		PageSize:        defaultPageSize,
		InitialLoadSize: defaultInitialLoadSize,
		HTTPTimeout:     defaultHTTPTimeoutSec * time.Second,
		UserAgent:       defaultUserAgent,
		LogLevel:        defaultLogLevel,
	}

	configPath, hasConfig, err := findConfigPath(home)
	if err != nil {
		return Config{}, err
	}
	if hasConfig {
		fileCfg, err := loadFileConfig(configPath)
		if err != nil {
			return Config{}, err
		}
		applyFileConfig(&cfg, fileCfg)
	}

	applyEnvOverrides(&cfg)

	if cfg.PageSize < 1 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.InitialLoadSize < 1 {
		cfg.InitialLoadSize = cfg.PageSize * 3
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = defaultHTTPTimeoutSec * time.Second
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		cfg.LogLevel = defaultLogLevel
	}
	return cfg, nil
}

type fileConfig struct {
	DBPath             *string `toml:"db_path"`
	BaseURL            *string `toml:"base_url"`
	PageSize           *int    `toml:"page_size"`
	InitialLoadSize    *int    `toml:"initial_load_size"`
	HTTPTimeoutSeconds *int    `toml:"http_timeout_seconds"`
	APIKey             *string `toml:"api_key"`
	LogLevel           *string `toml:"log_level"`
}

func findConfigPath(home string) (string, bool, error) {
	candidates := make([]string, 0, 2)
	if xdgConfigHome := strings.TrimSpace(os.Getenv(configPathEnvName)); xdgConfigHome != "" {
		candidates = append(candidates, filepath.Join(xdgConfigHome, configFolderName, configFileName))
	}
	candidates = append(candidates, filepath.Join(home, ".config", configFolderName, configFileName))

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil {
			if info.IsDir() {
				return "", false, fmt.Errorf("config path %q is a directory; expected a file", candidate)
			}
			return candidate, true, nil
		}
		if os.IsNotExist(err) {
			continue
		}
		return "", false, fmt.Errorf("failed to read config path %q: %w", candidate, err)
	}
	return "", false, nil
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		unknown := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			unknown = append(unknown, key.String())
		}
		sort.Strings(unknown)
		return fileConfig{}, fmt.Errorf("invalid config file %q: unknown key(s): %s", path, strings.Join(unknown, ", "))
	}
	if err := validateFileConfig(path, cfg); err != nil {
		return fileConfig{}, err
	}
	return cfg, nil
}

func validateFileConfig(path string, cfg fileConfig) error {
	if cfg.DBPath != nil && strings.TrimSpace(*cfg.DBPath) == "" {
		return fmt.Errorf("invalid config file %q: db_path must be non-empty when provided", path)
	}
	if cfg.BaseURL != nil {
		if err := ValidateBaseURL(*cfg.BaseURL); err != nil {
			return fmt.Errorf("invalid config file %q: base_url: %w", path, err)
		}
	}
	if cfg.PageSize != nil && *cfg.PageSize < 1 {
		return fmt.Errorf("invalid config file %q: page_size must be >= 1", path)
	}
	if cfg.InitialLoadSize != nil && *cfg.InitialLoadSize < 1 {
		return fmt.Errorf("invalid config file %q: initial_load_size must be >= 1", path)
	}
	if cfg.HTTPTimeoutSeconds != nil && *cfg.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid config file %q: http_timeout_seconds must be > 0", path)
	}
	if cfg.LogLevel != nil {
		if _, err := logrus.ParseLevel(*cfg.LogLevel); err != nil {
			return fmt.Errorf("invalid config file %q: log_level: %w", path, err)
		}
	}
	return nil
}

// ValidateBaseURL requires an absolute http(s) URL.
func ValidateBaseURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("must be non-empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}

func applyFileConfig(cfg *Config, fileCfg fileConfig) {
	if fileCfg.DBPath != nil {
		cfg.DBPath = *fileCfg.DBPath
	}
	if fileCfg.BaseURL != nil {
		cfg.BaseURL = strings.TrimSpace(*fileCfg.BaseURL)
	}
	if fileCfg.PageSize != nil {
		cfg.PageSize = *fileCfg.PageSize
		if fileCfg.InitialLoadSize == nil {
			cfg.InitialLoadSize = *fileCfg.PageSize * 3
		}
	}
	if fileCfg.InitialLoadSize != nil {
		cfg.InitialLoadSize = *fileCfg.InitialLoadSize
	}
	if fileCfg.HTTPTimeoutSeconds != nil {
		cfg.HTTPTimeout = time.Duration(*fileCfg.HTTPTimeoutSeconds) * time.Second
	}
	if fileCfg.APIKey != nil {
		cfg.APIKey = *fileCfg.APIKey
	}
	if fileCfg.LogLevel != nil {
		cfg.LogLevel = *fileCfg.LogLevel
	}
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("FEEDSYNC_DB_PATH"); ok && v != "" {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv("FEEDSYNC_BASE_URL"); ok && v != "" {
		if ValidateBaseURL(v) == nil {
			cfg.BaseURL = strings.TrimSpace(v)
		}
	}
	if v, ok := os.LookupEnv("FEEDSYNC_PAGE_SIZE"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			cfg.PageSize = n
		}
	}
	if v, ok := os.LookupEnv("FEEDSYNC_INITIAL_LOAD_SIZE"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			cfg.InitialLoadSize = n
		}
	}
	if v, ok := os.LookupEnv("FEEDSYNC_HTTP_TIMEOUT_SECONDS"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPTimeout = time.Duration(n) * time.Second
		}
	}
	if v, ok := os.LookupEnv("FEEDSYNC_USER_AGENT"); ok && v != "" {
		cfg.UserAgent = v
	}
	if v, ok := os.LookupEnv("FEEDSYNC_API_KEY"); ok {
		cfg.APIKey = v
	}
	if v, ok := os.LookupEnv("FEEDSYNC_LOG_LEVEL"); ok && v != "" {
		if _, err := logrus.ParseLevel(v); err == nil {
			cfg.LogLevel = v
		}
	}
}
