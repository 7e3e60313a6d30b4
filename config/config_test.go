package config

import (
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T) (*viper.Viper, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	v := viper.New()
	v.SetFs(fs)
	return v, fs
}

func TestLoadDefaults(t *testing.T) {
	v, _ := newViper(t)

	cfg, err := Load(v, "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(xdg.CacheHome, "mccdl"), cfg.CacheDirectory)
	assert.Equal(t, filepath.Join(xdg.CacheHome, "mccdl", "download"), cfg.DownloadDirectory())
	assert.Equal(t, filepath.Join(xdg.CacheHome, "mccdl", "unpack"), cfg.UnpackDirectory())
	assert.Equal(t, filepath.Join(xdg.DataHome, "multimc5"), cfg.MultiMCDirectory)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http://minecraft.curseforge.com", cfg.CurseforgeURL)
	assert.Equal(t, "v1", cfg.MetaAPI)
	assert.True(t, cfg.Progress)
	assert.Empty(t, cfg.Exclude)
}

func TestLoadConfigFile(t *testing.T) {
	v, fs := newViper(t)
	require.NoError(t, afero.WriteFile(fs, "/etc/mccdl.toml", []byte(`
cache-directory = "/tmp/mccdl-cache"
log-level = "debug"
meta-api = "v0"
override-ignore = ["journeymap/", "options.txt"]
progress = false
`), 0o644))

	cfg, err := Load(v, "/etc/mccdl.toml")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/mccdl-cache", cfg.CacheDirectory)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "v0", cfg.MetaAPI)
	assert.Equal(t, []string{"journeymap/", "options.txt"}, cfg.OverrideIgnore)
	assert.False(t, cfg.Progress)
}

func TestLoadExplicitConfigMissing(t *testing.T) {
	v, _ := newViper(t)
	_, err := Load(v, "/nope/config.toml")
	assert.Error(t, err)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("MCCDL_LOG_LEVEL", "warning")
	t.Setenv("MCCDL_MULTIMC_DIRECTORY", "/games/multimc")
	v, _ := newViper(t)

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "warning", cfg.LogLevel)
	assert.Equal(t, "/games/multimc", cfg.MultiMCDirectory)
}

func TestLoadOverridesFromSet(t *testing.T) {
	v, _ := newViper(t)
	v.Set(KeyExclude, "^jei$")

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "^jei$", cfg.Exclude)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	v, _ := newViper(t)
	v.Set(KeyLogLevel, "loud")
	_, err := Load(v, "")
	assert.Error(t, err)

	v, _ = newViper(t)
	v.Set(KeyMetaAPI, "v2")
	_, err = Load(v, "")
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warning", log.WarnLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"critical", log.FatalLevel},
		{"CRITICAL", log.FatalLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
}
