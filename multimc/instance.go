package multimc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/leocov-dev/mccdl/core"
	"github.com/leocov-dev/mccdl/fileio"
)

const (
	InstanceConfigFile = "instance.cfg"
	PatchesDirName     = "patches"
	ForgePatchFile     = "net.minecraftforge.json"
	MinecraftDirName   = "minecraft"
	ModsDirName        = "mods"
	IconPrefix         = "mccdl_"
)

type Instance struct {
	manager *Manager
	name    string
	root    string
	log     *log.Logger
}

func (i *Instance) Name() string {
	return i.name
}

func (i *Instance) Root() string {
	return i.root
}

func (i *Instance) MinecraftDir() string {
	return filepath.Join(i.root, MinecraftDirName)
}

func (i *Instance) ModsDir() string {
	return filepath.Join(i.MinecraftDir(), ModsDirName)
}

func (i *Instance) Exists() (bool, error) {
	return afero.Exists(i.manager.fs, i.root)
}

func (i *Instance) Create(mcVersion, loaderVersion, iconPath string) error {
	exists, err := i.Exists()
	if err != nil {
		return err
	}
	if exists {
		return &core.InstanceExistsError{Path: i.root}
	}

	i.log.Info("creating instance", "minecraft", mcVersion, "forge", loaderVersion)
	if err := i.manager.fs.MkdirAll(i.ModsDir(), os.ModePerm); err != nil {
		return err
	}

	iconKey := ""
	if iconPath != "" {
		iconKey, err = i.installIcon(iconPath)
		if err != nil {
			return err
		}
	}
	return i.configure(mcVersion, loaderVersion, iconKey)
}

func (i *Instance) Upgrade(mcVersion, loaderVersion string) error {
	i.log.Info("upgrading instance", "minecraft", mcVersion, "forge", loaderVersion)
	if err := i.manager.fs.RemoveAll(i.ModsDir()); err != nil {
		return fmt.Errorf("failed to clear mods directory: %w", err)
	}
	if err := i.manager.fs.MkdirAll(i.ModsDir(), os.ModePerm); err != nil {
		return err
	}
	return i.configure(mcVersion, loaderVersion, "")
}

func (i *Instance) configure(mcVersion, loaderVersion, iconKey string) error {
	if err := i.writeConfig(mcVersion, iconKey); err != nil {
		return err
	}
	return i.installLoaderPatch(mcVersion, loaderVersion)
}

func (i *Instance) configPath() string {
	return filepath.Join(i.root, InstanceConfigFile)
}

func (i *Instance) readConfig() (*core.InstanceConfig, error) {
	data, err := afero.ReadFile(i.manager.fs, i.configPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.DefaultInstanceConfig(i.name), nil
		}
		return nil, err
	}
	return core.ParseInstanceConfig(string(data)), nil
}

func (i *Instance) writeConfig(mcVersion, iconKey string) error {
	cfg, err := i.readConfig()
	if err != nil {
		return err
	}

	i.setConfig(cfg, "IntendedVersion", mcVersion)
	if iconKey != "" {
		i.setConfig(cfg, "iconKey", iconKey)
	}
	return afero.WriteFile(i.manager.fs, i.configPath(), []byte(cfg.String()), 0o644)
}

func (i *Instance) setConfig(cfg *core.InstanceConfig, key, value string) {
	if !cfg.Set(key, value) {
		i.log.Warn("key missing from instance.cfg, not setting it", "key", key)
	}
}

// installIcon copies the icon into the shared icons directory and returns its icon key.
func (i *Instance) installIcon(iconPath string) (string, error) {
	name := IconPrefix + filepath.Base(iconPath)
	dest := filepath.Join(i.manager.IconsDir(), name)
	if err := core.CopyFile(i.manager.fs, iconPath, dest); err != nil {
		return "", fmt.Errorf("failed to install icon: %w", err)
	}
	i.log.Debug("installed icon", "path", dest)
	return strings.TrimSuffix(name, filepath.Ext(name)), nil
}

func (i *Instance) installLoaderPatch(mcVersion, loaderVersion string) error {
	url := core.JoinURL(i.manager.metaURL, i.manager.metaFileName(mcVersion, loaderVersion))
	dest := filepath.Join(i.root, PatchesDirName, ForgePatchFile)
	if _, err := i.manager.fetcher.Download(url, dest); err != nil {
		return fmt.Errorf("failed to fetch forge %s metadata: %w", loaderVersion, err)
	}
	return nil
}

func (i *Instance) receiptPath() string {
	return filepath.Join(i.root, core.ReceiptFileName)
}

// ReadReceipt returns the receipt of the last install, or nil if there is none.
func (i *Instance) ReadReceipt() (*core.Receipt, error) {
	receipt, err := fileio.LoadReceipt(i.manager.fs, i.receiptPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", i.receiptPath(), err)
	}
	return &receipt, nil
}

func (i *Instance) WriteReceipt(receipt core.Receipt) error {
	_, hash, err := fileio.WriteHashable(i.manager.fs, i.receiptPath(), &receipt)
	if err != nil {
		return err
	}
	i.log.Debug("wrote receipt", "hash", hash)
	return nil
}
