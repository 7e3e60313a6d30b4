package multimc

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/afero"

	"github.com/leocov-dev/mccdl/core"
)

const (
	InstancesDirName = "instances"
	IconsDirName     = "icons"

	DefaultMetaURL = "https://v1.meta.multimc.org/net.minecraftforge"
	MetaAPIV1      = "v1"
	MetaAPILegacy  = "v0"
)

type Options struct {
	// MetaURL is the base URL loader version metadata is fetched from.
	MetaURL string
	// MetaAPI selects the metadata file naming: "v1" uses {loader}.json, "v0" uses {minecraft}-{loader}.json.
	MetaAPI string
}

// Manager resolves instance names to directories below a MultiMC data directory.
type Manager struct {
	fs      afero.Fs
	dir     string
	fetcher core.Fetcher
	metaURL string
	metaAPI string
	log     *log.Logger
}

func NewManager(fs afero.Fs, dir string, fetcher core.Fetcher, opts Options, logger *log.Logger) *Manager {
	if opts.MetaURL == "" {
		opts.MetaURL = DefaultMetaURL
	}
	if opts.MetaAPI == "" {
		opts.MetaAPI = MetaAPIV1
	}
	return &Manager{
		fs:      fs,
		dir:     dir,
		fetcher: fetcher,
		metaURL: opts.MetaURL,
		metaAPI: opts.MetaAPI,
		log:     logger.WithPrefix("multimc"),
	}
}

func (m *Manager) Dir() string {
	return m.dir
}

func (m *Manager) InstancesDir() string {
	return filepath.Join(m.dir, InstancesDirName)
}

func (m *Manager) IconsDir() string {
	return filepath.Join(m.dir, IconsDirName)
}

// Instance returns a handle for the named instance whether or not it exists yet.
func (m *Manager) Instance(name string) core.Instance {
	return &Instance{
		manager: m,
		name:    name,
		root:    filepath.Join(m.InstancesDir(), name),
		log:     m.log.With("instance", name),
	}
}

// List returns the names of all instance directories, sorted.
func (m *Manager) List() ([]string, error) {
	infos, err := afero.ReadDir(m.fs, m.InstancesDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, info := range infos {
		if info.IsDir() {
			names = append(names, info.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Suggest returns up to three existing instance names resembling name, best match first.
func (m *Manager) Suggest(name string) ([]string, error) {
	names, err := m.List()
	if err != nil {
		return nil, err
	}

	matches := fuzzy.Find(name, names)
	var out []string
	for i, match := range matches {
		if i == 3 {
			break
		}
		out = append(out, match.Str)
	}
	return out, nil
}

func (m *Manager) metaFileName(mcVersion, loaderVersion string) string {
	if m.metaAPI == MetaAPILegacy {
		return mcVersion + "-" + loaderVersion + ".json"
	}
	return loaderVersion + ".json"
}
