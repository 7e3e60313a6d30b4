package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

var Version string

func SetVersion(version string) {
	Version = version
}

const (
	KeyCacheDirectory   = "cache-directory"
	KeyMultiMCDirectory = "multimc-directory"
	KeyLogLevel         = "log-level"
	KeyCurseforgeURL    = "curseforge-url"
	KeyMetaURL          = "meta-url"
	KeyMetaAPI          = "meta-api"
	KeyUserAgent        = "user-agent"
	KeyExclude          = "exclude"
	KeyOverrideIgnore   = "override-ignore"
	KeyProgress         = "progress"

	EnvPrefix = "MCCDL"
	AppName   = "mccdl"
)

type Config struct {
	CacheDirectory   string   `mapstructure:"cache-directory"`
	MultiMCDirectory string   `mapstructure:"multimc-directory"`
	LogLevel         string   `mapstructure:"log-level"`
	CurseforgeURL    string   `mapstructure:"curseforge-url"`
	MetaURL          string   `mapstructure:"meta-url"`
	MetaAPI          string   `mapstructure:"meta-api"`
	UserAgent        string   `mapstructure:"user-agent"`
	Exclude          string   `mapstructure:"exclude"`
	OverrideIgnore   []string `mapstructure:"override-ignore"`
	Progress         bool     `mapstructure:"progress"`
}

func (c Config) DownloadDirectory() string {
	return filepath.Join(c.CacheDirectory, "download")
}

func (c Config) UnpackDirectory() string {
	return filepath.Join(c.CacheDirectory, "unpack")
}

func DefaultConfigFile() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.toml")
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyCacheDirectory, filepath.Join(xdg.CacheHome, AppName))
	v.SetDefault(KeyMultiMCDirectory, filepath.Join(xdg.DataHome, "multimc5"))
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyCurseforgeURL, "http://minecraft.curseforge.com")
	v.SetDefault(KeyMetaURL, "https://v1.meta.multimc.org/net.minecraftforge")
	v.SetDefault(KeyMetaAPI, "v1")
	v.SetDefault(KeyUserAgent, "leocov-dev/mccdl")
	v.SetDefault(KeyExclude, "")
	v.SetDefault(KeyOverrideIgnore, []string{})
	v.SetDefault(KeyProgress, true)
}

// Load layers defaults, the config file, MCCDL_* environment variables and any flags
// already bound to v, in increasing priority. A missing default config file is not an error;
// a missing explicit one is.
func Load(v *viper.Viper, configFile string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, AppName))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}
	if cfg.MetaAPI != "v1" && cfg.MetaAPI != "v0" {
		return Config{}, fmt.Errorf("invalid meta-api %q, must be v1 or v0", cfg.MetaAPI)
	}
	return cfg, nil
}

// ParseLogLevel accepts charm log level names plus "warning" and "critical".
func ParseLogLevel(level string) (log.Level, error) {
	switch strings.ToLower(level) {
	case "warning":
		return log.WarnLevel, nil
	case "critical":
		return log.FatalLevel, nil
	}
	l, err := log.ParseLevel(level)
	if err != nil {
		return l, fmt.Errorf("invalid log level %q", level)
	}
	return l, nil
}
