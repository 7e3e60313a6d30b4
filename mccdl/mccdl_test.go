package mccdl

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leocov-dev/mccdl/config"
	"github.com/leocov-dev/mccdl/fileio"
	"github.com/leocov-dev/mccdl/internal/testutil"
)

const testManifest = `{
  "minecraft": {"version": "1.7.10", "modLoaders": [{"id": "forge-10.13.4.1614", "primary": true}]},
  "manifestType": "minecraftModpack",
  "manifestVersion": 1,
  "name": "Invasion Pack",
  "version": "2.0",
  "files": [{"projectID": 42, "fileID": 4200, "required": true}],
  "overrides": "overrides"
}`

func testConfig() config.Config {
	return config.Config{
		CacheDirectory:   "/cache",
		MultiMCDirectory: "/multimc",
		LogLevel:         "debug",
		CurseforgeURL:    "http://cf.test",
		MetaURL:          "http://meta.test/net.minecraftforge",
		MetaAPI:          "v1",
	}
}

func newTestApp(t *testing.T) (*App, *testutil.FakeTransport) {
	t.Helper()
	logger, _ := testutil.NewLogger()
	transport := testutil.NewFakeTransport()
	archive := testutil.ZipBytes(map[string]string{
		"manifest.json":          testManifest,
		"overrides/config/x.cfg": "x",
	})
	transport.
		AddRedirect("http://cf.test/projects/invasion/files/2402833/download", "http://cdn.test/invasion-2.0.zip", string(archive), http.StatusOK).
		AddRedirect("http://cf.test/projects/invasion/files/latest", "http://cdn.test/invasion-2.0.zip", string(archive), http.StatusOK).
		Add("http://cf.test/projects/invasion", http.StatusOK, `<div class="avatar-wrapper"><img src="http://media.test/invasion.png"></div>`).
		Add("http://media.test/invasion.png", http.StatusOK, "png").
		Add("http://meta.test/net.minecraftforge/10.13.4.1614.json", http.StatusOK, "{}").
		AddRedirect("http://cf.test/projects/42/files/4200/download", "http://cdn.test/mod-42.jar", "jar", http.StatusOK)

	app, err := New(testConfig(), logger,
		WithFs(afero.NewMemMapFs()),
		WithTransport(transport),
		WithProgress(fileio.NoProgress{}),
		WithClock(func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }),
	)
	require.NoError(t, err)
	return app, transport
}

func TestRunInstallWithDefaultName(t *testing.T) {
	app, _ := newTestApp(t)

	name, err := app.Run(Request{Locator: "https://minecraft.curseforge.com/projects/invasion/files/2402833/download"})
	require.NoError(t, err)
	assert.Equal(t, "Invasion", name)

	exists, err := afero.Exists(app.Fs, "/multimc/instances/Invasion/minecraft/mods/mod-42.jar")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = afero.Exists(app.Fs, "/multimc/instances/Invasion/minecraft/config/x.cfg")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRunFileOverride(t *testing.T) {
	app, transport := newTestApp(t)

	_, err := app.Run(Request{Locator: "invasion", InstanceName: "Inv", FileID: "2402833"})
	require.NoError(t, err)
	assert.Equal(t, 0, transport.Calls("http://cf.test/projects/invasion/files/latest"))
	assert.Equal(t, 1, transport.Calls("http://cf.test/projects/invasion/files/2402833/download"))
}

func TestRunInstallThenUpgrade(t *testing.T) {
	app, _ := newTestApp(t)

	_, err := app.Run(Request{Locator: "invasion", InstanceName: "Inv"})
	require.NoError(t, err)

	_, err = app.Run(Request{Locator: "invasion", InstanceName: "Inv"})
	assert.True(t, errors.Is(err, ErrInstanceExists))

	_, err = app.Run(Request{Locator: "invasion", InstanceName: "Inv", Upgrade: true})
	require.NoError(t, err)
}

func TestRunInvalidLocator(t *testing.T) {
	app, transport := newTestApp(t)

	_, err := app.Run(Request{Locator: "https://www.google.com"})
	assert.ErrorIs(t, err, ErrInvalidLocator)
	assert.Equal(t, 0, transport.TotalCalls())
}

func TestProjectPageURL(t *testing.T) {
	app, _ := newTestApp(t)

	url, err := app.ProjectPageURL("https://www.feed-the-beast.com/modpacks/minecraft/261783-ftb-beyond")
	require.NoError(t, err)
	assert.Equal(t, "http://cf.test/projects/261783", url)
}

func TestListInstances(t *testing.T) {
	app, _ := newTestApp(t)
	require.NoError(t, app.Fs.MkdirAll("/multimc/instances/Manual", 0o755))

	_, err := app.Run(Request{Locator: "invasion", InstanceName: "Inv"})
	require.NoError(t, err)

	summaries, err := app.ListInstances()
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Inv (Invasion Pack 2.0, minecraft 1.7.10)", fmt.Sprint(summaries[0]))
	assert.Equal(t, "Manual", fmt.Sprint(summaries[1]))
}

func TestNewRejectsBadExclude(t *testing.T) {
	logger, _ := testutil.NewLogger()
	cfg := testConfig()
	cfg.Exclude = "("
	_, err := New(cfg, logger, WithFs(afero.NewMemMapFs()))
	assert.Error(t, err)
}
