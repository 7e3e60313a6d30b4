package mccdl

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/leocov-dev/mccdl/config"
	"github.com/leocov-dev/mccdl/core"
	"github.com/leocov-dev/mccdl/fileio"
	"github.com/leocov-dev/mccdl/multimc"
	"github.com/leocov-dev/mccdl/sources"
)

// App wires the cache, unpacker, instance manager and CurseForge client from a Config.
type App struct {
	Config    config.Config
	Log       *log.Logger
	Fs        afero.Fs
	Progress  fileio.Progress
	Cache     *fileio.CachingDownloader
	Unpacker  *fileio.Unpacker
	Instances *multimc.Manager
	Client    *sources.CfClient
}

type options struct {
	fs          afero.Fs
	transport   core.Transport
	scraper     sources.PageScraper
	progress    fileio.Progress
	progressOut io.Writer
	now         func() time.Time
}

type Option func(*options)

func WithFs(fs afero.Fs) Option {
	return func(o *options) { o.fs = fs }
}

func WithTransport(t core.Transport) Option {
	return func(o *options) { o.transport = t }
}

func WithScraper(s sources.PageScraper) Option {
	return func(o *options) { o.scraper = s }
}

func WithProgress(p fileio.Progress) Option {
	return func(o *options) { o.progress = p }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func New(cfg config.Config, logger *log.Logger, opts ...Option) (*App, error) {
	o := options{progressOut: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}
	if o.fs == nil {
		o.fs = afero.NewOsFs()
	}
	if o.transport == nil {
		o.transport = core.NewHTTPTransport(cfg.UserAgent)
	}
	if o.progress == nil {
		if cfg.Progress {
			o.progress = fileio.NewBarProgress(o.progressOut)
		} else {
			o.progress = fileio.NoProgress{}
		}
	}

	cache := fileio.NewCachingDownloader(o.fs, cfg.DownloadDirectory(), o.transport, o.progress, logger)
	unpacker := fileio.NewUnpacker(o.fs, cfg.UnpackDirectory(), fileio.NewZipExtractor(o.fs), logger)
	instances := multimc.NewManager(o.fs, cfg.MultiMCDirectory, cache, multimc.Options{
		MetaURL: cfg.MetaURL,
		MetaAPI: cfg.MetaAPI,
	}, logger)

	client, err := sources.NewCfClient(sources.CfClientConfig{
		Fs:             o.fs,
		Transport:      o.transport,
		Cache:          cache,
		Unpacker:       unpacker,
		Scraper:        o.scraper,
		Instances:      instances,
		Logger:         logger,
		BaseURL:        cfg.CurseforgeURL,
		Exclude:        cfg.Exclude,
		OverrideIgnore: cfg.OverrideIgnore,
		Now:            o.now,
	})
	if err != nil {
		return nil, err
	}

	return &App{
		Config:    cfg,
		Log:       logger,
		Fs:        o.fs,
		Progress:  o.progress,
		Cache:     cache,
		Unpacker:  unpacker,
		Instances: instances,
		Client:    client,
	}, nil
}

type Request struct {
	// Locator is a CurseForge URL or project slug.
	Locator string
	// InstanceName defaults to a name derived from the project.
	InstanceName string
	// FileID overrides the file named by Locator.
	FileID  string
	Upgrade bool
}

// Run resolves the request and installs or upgrades the modpack. It returns the instance name used.
func (a *App) Run(req Request) (string, error) {
	projectID, fileID, err := sources.ResolveModpackLocator(req.Locator)
	if err != nil {
		return "", err
	}
	if req.FileID != "" {
		fileID = req.FileID
	}
	name := req.InstanceName
	if name == "" {
		name = core.InstanceNameFromProject(projectID)
		a.Log.Info("no instance name given", "instance", name)
	}

	mode := sources.ModeInstall
	if req.Upgrade {
		mode = sources.ModeUpgrade
	}
	err = a.Client.SetupModpack(mode, projectID, fileID, name)
	a.Progress.Wait()
	if err != nil {
		return name, err
	}
	a.Log.Info("modpack ready", "instance", name)
	return name, nil
}

// ProjectPageURL returns the CurseForge page for the project a locator points at.
func (a *App) ProjectPageURL(locator string) (string, error) {
	projectID, _, err := sources.ResolveModpackLocator(locator)
	if err != nil {
		return "", err
	}
	return a.Client.Project(projectID).URL(), nil
}

type InstanceSummary struct {
	Name    string
	Receipt *core.Receipt
}

func (s InstanceSummary) String() string {
	if s.Receipt == nil {
		return s.Name
	}
	pack := s.Receipt.Name
	if pack == "" {
		pack = s.Receipt.ProjectID
	}
	if s.Receipt.Version != "" {
		pack += " " + s.Receipt.Version
	}
	return fmt.Sprintf("%s (%s, minecraft %s)", s.Name, pack, s.Receipt.MinecraftVersion())
}

// ListInstances lists every instance, with its install receipt when mccdl installed it.
func (a *App) ListInstances() ([]InstanceSummary, error) {
	names, err := a.Instances.List()
	if err != nil {
		return nil, err
	}
	summaries := make([]InstanceSummary, 0, len(names))
	for _, name := range names {
		receipt, err := a.Instances.Instance(name).ReadReceipt()
		if err != nil {
			a.Log.Warn("ignoring unreadable receipt", "instance", name, "err", err)
		}
		summaries = append(summaries, InstanceSummary{Name: name, Receipt: receipt})
	}
	return summaries, nil
}
