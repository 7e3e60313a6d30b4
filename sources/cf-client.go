package sources

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dlclark/regexp2"
	"github.com/spf13/afero"
	"github.com/unascribed/FlexVer/go/flexver"

	"github.com/leocov-dev/mccdl/core"
	"github.com/leocov-dev/mccdl/fileio"
)

const DefaultBaseURL = "http://minecraft.curseforge.com"

type SetupMode string

const (
	ModeInstall SetupMode = "install"
	ModeUpgrade SetupMode = "upgrade"
)

// Cache is the content-addressed download cache.
type Cache interface {
	Fetch(url string, destination string) (fileio.FetchResult, error)
	Download(url string, destination string) (string, error)
}

type Unpacker interface {
	Unpack(archivePath string) (string, error)
}

type CfClientConfig struct {
	Fs        afero.Fs
	Transport core.Transport
	Cache     Cache
	Unpacker  Unpacker
	Scraper   PageScraper
	Instances core.InstanceManager
	Logger    *log.Logger

	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
	// Exclude is a regexp2 pattern; optional components whose project id matches are not installed.
	Exclude string
	// OverrideIgnore holds gitignore style patterns skipped when installing overrides.
	OverrideIgnore []string
	// Now defaults to time.Now.
	Now func() time.Time
}

// CfClient installs and upgrades CurseForge modpacks into launcher instances.
type CfClient struct {
	fs             afero.Fs
	transport      core.Transport
	cache          Cache
	unpacker       Unpacker
	scraper        PageScraper
	instances      core.InstanceManager
	baseURL        string
	exclude        *regexp2.Regexp
	overrideIgnore []string
	now            func() time.Time
	log            *log.Logger
}

func NewCfClient(cfg CfClientConfig) (*CfClient, error) {
	c := &CfClient{
		fs:             cfg.Fs,
		transport:      cfg.Transport,
		cache:          cfg.Cache,
		unpacker:       cfg.Unpacker,
		scraper:        cfg.Scraper,
		instances:      cfg.Instances,
		baseURL:        cfg.BaseURL,
		overrideIgnore: cfg.OverrideIgnore,
		now:            cfg.Now,
		log:            cfg.Logger.WithPrefix("curseforge"),
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.scraper == nil {
		c.scraper = HTMLScraper{}
	}
	if cfg.Exclude != "" {
		expr, err := regexp2.Compile(cfg.Exclude, 0)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern: %w", err)
		}
		c.exclude = expr
	}
	return c, nil
}

func (c *CfClient) URL(path ...any) string {
	return core.JoinURL(c.baseURL, path...)
}

func (c *CfClient) Project(projectID string) *CfProject {
	return &CfProject{
		client: c,
		id:     projectID,
		log:    c.log.With("project", projectID),
	}
}

func (c *CfClient) InstallModpack(projectID, fileID, instanceName string) error {
	return c.SetupModpack(ModeInstall, projectID, fileID, instanceName)
}

func (c *CfClient) UpgradeModpack(projectID, fileID, instanceName string) error {
	return c.SetupModpack(ModeUpgrade, projectID, fileID, instanceName)
}

// SetupModpack downloads the modpack, prepares the instance and installs every component
// followed by the overrides. Components are processed one at a time in manifest order.
func (c *CfClient) SetupModpack(mode SetupMode, projectID, fileID, instanceName string) error {
	if mode != ModeInstall && mode != ModeUpgrade {
		return fmt.Errorf("unknown setup mode %q", mode)
	}
	action := map[SetupMode]string{ModeInstall: "installing", ModeUpgrade: "upgrading"}[mode]
	c.log.Info(action+" modpack", "project", projectID, "file", fileID, "instance", instanceName)

	project := c.Project(projectID)
	unpackDir, err := project.DownloadAndUnpackFile(fileID)
	if err != nil {
		return fmt.Errorf("failed to fetch modpack: %w", err)
	}

	pack, err := core.LoadModpack(c.fs, unpackDir)
	if err != nil {
		return err
	}
	for _, field := range pack.Defaulted() {
		c.log.Warn("manifest field missing, using default", "field", field)
	}
	pack.SetOverrideIgnore(c.overrideIgnore)

	mcVersion := pack.MinecraftVersion()
	loaderVersion := pack.LoaderVersion()
	instance := c.instances.Instance(instanceName)

	switch mode {
	case ModeInstall:
		icon, err := project.DownloadIcon()
		if err != nil {
			return fmt.Errorf("failed to fetch project icon: %w", err)
		}
		if err := instance.Create(mcVersion, loaderVersion, icon); err != nil {
			return err
		}
	case ModeUpgrade:
		if err := c.checkUpgrade(instance, projectID, mcVersion); err != nil {
			return err
		}
		if err := instance.Upgrade(mcVersion, loaderVersion); err != nil {
			return err
		}
	}

	components, err := c.installComponents(pack, instance)
	if err != nil {
		return err
	}

	c.log.Info("installing modpack overrides")
	if err := pack.InstallOverrides(instance.MinecraftDir()); err != nil {
		return fmt.Errorf("failed to install overrides: %w", err)
	}

	return instance.WriteReceipt(core.Receipt{
		ProjectID:   projectID,
		FileID:      fileID,
		Name:        pack.Name(),
		Version:     pack.Version(),
		Author:      pack.Author(),
		Mode:        string(mode),
		InstalledAt: c.now().UTC(),
		Versions: map[string]string{
			"minecraft":       mcVersion,
			pack.LoaderName(): loaderVersion,
		},
		Components: components,
	})
}

func (c *CfClient) installComponents(pack *core.Modpack, instance core.Instance) ([]core.ReceiptComponent, error) {
	components := make([]core.ReceiptComponent, 0, pack.FileCount())
	for ref := range pack.Files() {
		component := core.ReceiptComponent{
			ProjectID: ref.ProjectID,
			FileID:    ref.FileID,
			Required:  ref.Required,
		}
		if c.excluded(ref) {
			component.Skipped = true
			components = append(components, component)
			continue
		}

		path, err := c.Project(ref.ProjectID).DownloadFile(ref.FileID, instance.ModsDir(), pack.MinecraftVersion())
		if err != nil {
			return nil, fmt.Errorf("failed to fetch file %s of project %s: %w", ref.FileID, ref.ProjectID, err)
		}
		component.FileName = filepath.Base(path)
		components = append(components, component)
	}
	return components, nil
}

func (c *CfClient) excluded(ref core.ComponentReference) bool {
	if c.exclude == nil {
		return false
	}
	matched, err := c.exclude.MatchString(ref.ProjectID)
	if err != nil {
		c.log.Warn("exclude pattern failed", "project", ref.ProjectID, "err", err)
		return false
	}
	if !matched {
		return false
	}
	if ref.Required {
		c.log.Warn("required component matches exclude pattern, installing it anyway", "project", ref.ProjectID)
		return false
	}
	c.log.Info("skipping excluded component", "project", ref.ProjectID, "file", ref.FileID)
	return true
}

// checkUpgrade logs hints about the instance about to be upgraded. It never blocks the upgrade.
func (c *CfClient) checkUpgrade(instance core.Instance, projectID, mcVersion string) error {
	exists, err := instance.Exists()
	if err != nil {
		return err
	}
	if !exists {
		suggestions, err := c.instances.Suggest(instance.Name())
		if err != nil {
			return err
		}
		if len(suggestions) > 0 {
			c.log.Warn("instance does not exist and will be created", "instance", instance.Name(), "suggestions", strings.Join(suggestions, ", "))
		} else {
			c.log.Warn("instance does not exist and will be created", "instance", instance.Name())
		}
		return nil
	}

	previous, err := instance.ReadReceipt()
	if err != nil {
		c.log.Warn("ignoring unreadable install receipt", "err", err)
		return nil
	}
	if previous == nil {
		return nil
	}
	if previous.ProjectID != projectID {
		c.log.Warn("instance was installed from a different project", "previous", previous.ProjectID, "project", projectID)
	}
	if prev := previous.MinecraftVersion(); prev != "" && flexver.Less(mcVersion, prev) {
		c.log.Warn("upgrade downgrades minecraft", "from", prev, "to", mcVersion)
	}
	return nil
}

func (c *CfClient) getPage(url string) (io.ReadCloser, error) {
	resp, err := c.transport.Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &core.DownloadError{URL: url, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}
