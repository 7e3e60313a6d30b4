package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLocator   = errors.New("invalid modpack locator")
	ErrDownload         = errors.New("download failed")
	ErrManifest         = errors.New("invalid modpack manifest")
	ErrManifestNotFound = fmt.Errorf("%w: manifest.json not found", ErrManifest)
	ErrManifestParse    = fmt.Errorf("%w: manifest.json could not be parsed", ErrManifest)
	ErrInstanceExists   = errors.New("instance already exists")
	ErrNoCompatibleFile = errors.New("no compatible file found")
)

// InvalidLocatorError is returned when a modpack URL matches none of the known patterns.
type InvalidLocatorError struct {
	Locator string
}

func (e *InvalidLocatorError) Error() string {
	return fmt.Sprintf("could not extract a project from %q", e.Locator)
}

func (e *InvalidLocatorError) Unwrap() error {
	return ErrInvalidLocator
}

// DownloadError carries the HTTP status of a failed fetch.
type DownloadError struct {
	URL        string
	StatusCode int
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download %s: HTTP %d", e.URL, e.StatusCode)
}

func (e *DownloadError) Unwrap() error {
	return ErrDownload
}

type InstanceExistsError struct {
	Path string
}

func (e *InstanceExistsError) Error() string {
	return fmt.Sprintf("instance %s already exists, use --upgrade to update it", e.Path)
}

func (e *InstanceExistsError) Unwrap() error {
	return ErrInstanceExists
}
