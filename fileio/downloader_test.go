package fileio

import (
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leocov-dev/mccdl/core"
	"github.com/leocov-dev/mccdl/internal/testutil"
)

const modURL = "http://example.com/projects/x/files/1/download"

func newTestDownloader(t *testing.T, transport core.Transport) (*CachingDownloader, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	logger, _ := testutil.NewLogger()
	return NewCachingDownloader(fs, "/cache/download", transport, nil, logger), fs
}

func TestFetchCachesByURL(t *testing.T) {
	transport := testutil.NewFakeTransport().
		AddRedirect(modURL, "http://cdn.example.com/files/mod-1.0.jar?token=abc", "jar bytes", http.StatusOK)
	d, fs := newTestDownloader(t, transport)

	first, err := d.Fetch(modURL, "")
	require.NoError(t, err)
	assert.Equal(t, Fetched, first.Outcome)

	key, err := core.HashString("sha256", modURL)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/cache/download", key, "mod-1.0.jar"), first.Path)

	second, err := d.Fetch(modURL, "")
	require.NoError(t, err)
	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, 1, transport.Calls(modURL))

	data, err := afero.ReadFile(fs, second.Path)
	require.NoError(t, err)
	assert.Equal(t, "jar bytes", string(data))
}

func TestFetchNotFound(t *testing.T) {
	transport := testutil.NewFakeTransport()
	d, fs := newTestDownloader(t, transport)

	result, err := d.Fetch(modURL, "")
	require.NoError(t, err)
	assert.Equal(t, NotFound, result.Outcome)
	assert.Empty(t, result.Path)

	exists, _ := afero.DirExists(fs, "/cache/download")
	assert.False(t, exists)

	_, err = d.Download(modURL, "")
	var dlErr *core.DownloadError
	require.True(t, errors.As(err, &dlErr))
	assert.Equal(t, http.StatusNotFound, dlErr.StatusCode)
	assert.ErrorIs(t, err, core.ErrDownload)
}

func TestFetchServerError(t *testing.T) {
	transport := testutil.NewFakeTransport().Add(modURL, http.StatusInternalServerError, "boom")
	d, _ := newTestDownloader(t, transport)

	_, err := d.Fetch(modURL, "")
	var dlErr *core.DownloadError
	require.True(t, errors.As(err, &dlErr))
	assert.Equal(t, http.StatusInternalServerError, dlErr.StatusCode)
	assert.Equal(t, modURL, dlErr.URL)
}

func TestFetchToDestination(t *testing.T) {
	transport := testutil.NewFakeTransport().
		AddRedirect(modURL, "http://cdn.example.com/files/mod%201.0.jar", "jar bytes", http.StatusOK)
	d, fs := newTestDownloader(t, transport)

	t.Run("Existing directory receives cached name", func(t *testing.T) {
		require.NoError(t, fs.MkdirAll("/inst/mods", 0o755))
		path, err := d.Download(modURL, "/inst/mods")
		require.NoError(t, err)
		assert.Equal(t, "/inst/mods/mod 1.0.jar", filepath.ToSlash(path))
		data, err := afero.ReadFile(fs, path)
		require.NoError(t, err)
		assert.Equal(t, "jar bytes", string(data))
	})

	t.Run("File path with missing parents", func(t *testing.T) {
		path, err := d.Download(modURL, "/inst/patches/net.minecraftforge.json")
		require.NoError(t, err)
		assert.Equal(t, "/inst/patches/net.minecraftforge.json", filepath.ToSlash(path))
		data, err := afero.ReadFile(fs, path)
		require.NoError(t, err)
		assert.Equal(t, "jar bytes", string(data))
	})

	assert.Equal(t, 1, transport.TotalCalls())
}

func TestFetchTieBreak(t *testing.T) {
	transport := testutil.NewFakeTransport()
	d, fs := newTestDownloader(t, transport)

	key, err := core.HashString("sha256", modURL)
	require.NoError(t, err)
	entry := filepath.Join("/cache/download", key)
	require.NoError(t, afero.WriteFile(fs, filepath.Join(entry, "b.jar"), []byte("b"), 0o644))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(entry, "a.jar"), []byte("a"), 0o644))

	result, err := d.Fetch(modURL, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(entry, "a.jar"), result.Path)
	assert.Equal(t, 0, transport.TotalCalls())
}

func TestFetchEmptyEntryIsMiss(t *testing.T) {
	transport := testutil.NewFakeTransport().Add(modURL, http.StatusOK, "fresh")
	d, fs := newTestDownloader(t, transport)

	key, err := core.HashString("sha256", modURL)
	require.NoError(t, err)
	require.NoError(t, fs.MkdirAll(filepath.Join("/cache/download", key), 0o755))

	result, err := d.Fetch(modURL, "")
	require.NoError(t, err)
	assert.Equal(t, "download", filepath.Base(result.Path))
	assert.Equal(t, 1, transport.Calls(modURL))
}

func TestFileNameFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"Plain", "http://x/files/a.jar", "a.jar"},
		{"Query ignored", "http://x/files/a.jar?x=1", "a.jar"},
		{"Escaped", "http://x/files/a%20b.jar", "a b.jar"},
		{"Root", "http://x/", "download"},
		{"No path", "http://x", "download"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fileNameFromURL(tt.url))
		})
	}
}
