package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/mitchellh/mapstructure"
	gitignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/afero"
)

const (
	ManifestFileName     = "manifest.json"
	ModpackManifestType  = "minecraftModpack"
	DefaultOverridesPath = "overrides"
)

var ManifestVersionAccepted = mustParseConstraint("~1")

func mustParseConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ComponentReference is one entry of the manifest's files list.
type ComponentReference struct {
	ProjectID string
	FileID    string
	Required  bool
}

type manifestLoader struct {
	ID      string `json:"id"`
	Primary bool   `json:"primary"`
}

type manifestFile struct {
	ProjectID string `json:"projectID"`
	FileID    string `json:"fileID"`
	Required  *bool  `json:"required"`
}

type manifest struct {
	Minecraft struct {
		Version    string           `json:"version"`
		ModLoaders []manifestLoader `json:"modLoaders"`
	} `json:"minecraft"`
	ManifestType    string         `json:"manifestType"`
	ManifestVersion string         `json:"manifestVersion"`
	Name            string         `json:"name"`
	Version         string         `json:"version"`
	Author          string         `json:"author"`
	Files           []manifestFile `json:"files"`
	Overrides       string         `json:"overrides"`
}

// Modpack is an unpacked CurseForge modpack and its parsed manifest.
type Modpack struct {
	fs        afero.Fs
	dir       string
	manifest  manifest
	loader    manifestLoader
	ignore    *gitignore.GitIgnore
	defaulted []string
}

// LoadModpack reads manifest.json from an unpacked modpack directory.
func LoadModpack(fsys afero.Fs, dir string) (*Modpack, error) {
	data, err := afero.ReadFile(fsys, filepath.Join(dir, ManifestFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w in %s", ErrManifestNotFound, dir)
		}
		return nil, err
	}

	m, defaulted, err := parseManifest(data)
	if err != nil {
		return nil, err
	}

	pack := &Modpack{fs: fsys, dir: dir, manifest: m, defaulted: defaulted}
	pack.loader = m.Minecraft.ModLoaders[0]
	for _, l := range m.Minecraft.ModLoaders {
		if l.Primary {
			pack.loader = l
			break
		}
	}
	return pack, nil
}

func parseManifest(data []byte) (manifest, []string, error) {
	var m manifest
	var raw map[string]interface{}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return m, nil, fmt.Errorf("%w: %w", ErrManifestParse, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return m, nil, fmt.Errorf("%w: trailing data after manifest", ErrManifestParse)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &m,
	})
	if err != nil {
		return m, nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return m, nil, fmt.Errorf("%w: %w", ErrManifestParse, err)
	}

	var defaulted []string
	if m.ManifestType != "" && m.ManifestType != ModpackManifestType {
		return m, nil, fmt.Errorf("%w: unsupported manifest type %q", ErrManifestParse, m.ManifestType)
	}
	if m.ManifestVersion == "" {
		m.ManifestVersion = "1"
		defaulted = append(defaulted, "manifestVersion")
	}
	ver, err := semver.NewVersion(m.ManifestVersion)
	if err != nil {
		return m, nil, fmt.Errorf("%w: invalid manifest version %q: %w", ErrManifestParse, m.ManifestVersion, err)
	}
	if !ManifestVersionAccepted.Check(ver) {
		return m, nil, fmt.Errorf("%w: manifest version %s is not supported", ErrManifestParse, m.ManifestVersion)
	}
	if m.Minecraft.Version == "" {
		return m, nil, fmt.Errorf("%w: no minecraft version specified", ErrManifestParse)
	}
	if len(m.Minecraft.ModLoaders) == 0 {
		return m, nil, fmt.Errorf("%w: no mod loader specified", ErrManifestParse)
	}
	if m.Overrides == "" {
		m.Overrides = DefaultOverridesPath
		defaulted = append(defaulted, "overrides")
	}
	// overrides must stay inside the unpacked archive
	if !filepath.IsLocal(filepath.FromSlash(m.Overrides)) {
		return m, nil, fmt.Errorf("%w: overrides path %q escapes the modpack directory", ErrManifestParse, m.Overrides)
	}
	for i, f := range m.Files {
		if f.ProjectID == "" || f.FileID == "" {
			return m, nil, fmt.Errorf("%w: file entry %d is missing projectID or fileID", ErrManifestParse, i)
		}
	}
	return m, defaulted, nil
}

// SetOverrideIgnore sets gitignore style patterns excluded from InstallOverrides.
func (m *Modpack) SetOverrideIgnore(patterns []string) {
	if len(patterns) == 0 {
		m.ignore = nil
		return
	}
	m.ignore = gitignore.CompileIgnoreLines(patterns...)
}

// Files yields the manifest's components in order. The sequence can be iterated more than once.
func (m *Modpack) Files() iter.Seq[ComponentReference] {
	return func(yield func(ComponentReference) bool) {
		for _, f := range m.manifest.Files {
			required := true
			if f.Required != nil {
				required = *f.Required
			}
			if !yield(ComponentReference{ProjectID: f.ProjectID, FileID: f.FileID, Required: required}) {
				return
			}
		}
	}
}

func (m *Modpack) FileCount() int {
	return len(m.manifest.Files)
}

func (m *Modpack) MinecraftVersion() string {
	return m.manifest.Minecraft.Version
}

// LoaderName is the loader family, e.g. "forge" for "forge-12.18.3.2254".
func (m *Modpack) LoaderName() string {
	name, _, ok := strings.Cut(m.loader.ID, "-")
	if !ok {
		return ""
	}
	return name
}

// LoaderVersion is the loader id with its family prefix removed, e.g. "12.18.3.2254".
func (m *Modpack) LoaderVersion() string {
	_, version, ok := strings.Cut(m.loader.ID, "-")
	if !ok {
		return m.loader.ID
	}
	return version
}

func (m *Modpack) Name() string {
	return m.manifest.Name
}

func (m *Modpack) Version() string {
	return m.manifest.Version
}

func (m *Modpack) Author() string {
	return m.manifest.Author
}

func (m *Modpack) Dir() string {
	return m.dir
}

func (m *Modpack) Overrides() string {
	return m.manifest.Overrides
}

// Defaulted lists manifest fields that were missing and filled with defaults.
func (m *Modpack) Defaulted() []string {
	return m.defaulted
}

// InstallOverrides merges the overrides directory into destination.
// A modpack without an overrides directory installs nothing.
func (m *Modpack) InstallOverrides(destination string) error {
	src := filepath.Join(m.dir, filepath.FromSlash(m.manifest.Overrides))
	exists, err := afero.DirExists(m.fs, src)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	return CopyTree(m.fs, src, destination, m.ignore)
}
