package fileio

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/leocov-dev/mccdl/core"
)

type Outcome int

const (
	Fetched Outcome = iota
	NotFound
)

func (o Outcome) String() string {
	if o == NotFound {
		return "not found"
	}
	return "fetched"
}

// FetchResult is the outcome of a cache lookup. Path is empty when Outcome is NotFound.
type FetchResult struct {
	Outcome Outcome
	Path    string
}

// CachingDownloader stores every downloaded URL under root/<sha256(url)>/<filename>.
// A non-empty entry is authoritative forever; nothing is ever revalidated or evicted.
type CachingDownloader struct {
	fs        afero.Fs
	root      string
	transport core.Transport
	progress  Progress
	log       *log.Logger
}

func NewCachingDownloader(fs afero.Fs, root string, transport core.Transport, progress Progress, logger *log.Logger) *CachingDownloader {
	if progress == nil {
		progress = NoProgress{}
	}
	return &CachingDownloader{
		fs:        fs,
		root:      root,
		transport: transport,
		progress:  progress,
		log:       logger.WithPrefix("cache"),
	}
}

func (d *CachingDownloader) Root() string {
	return d.root
}

// Download is Fetch with a 404 reported as a *core.DownloadError.
func (d *CachingDownloader) Download(url string, destination string) (string, error) {
	result, err := d.Fetch(url, destination)
	if err != nil {
		return "", err
	}
	if result.Outcome == NotFound {
		return "", &core.DownloadError{URL: url, StatusCode: http.StatusNotFound}
	}
	return result.Path, nil
}

// Fetch returns the cached file for url, downloading it first on a miss.
// If destination is set the file is copied there; an existing directory receives
// the file under its cached name.
func (d *CachingDownloader) Fetch(url string, destination string) (FetchResult, error) {
	entryDir, err := d.entryDir(url)
	if err != nil {
		return FetchResult{}, err
	}

	cached, err := d.cachedFile(entryDir)
	if err != nil {
		return FetchResult{}, err
	}
	if cached != "" {
		d.log.Debug("cache hit", "url", url, "path", cached)
	} else {
		d.log.Debug("cache miss", "url", url)
		result, err := d.fetchToCache(url, entryDir)
		if err != nil || result.Outcome == NotFound {
			return result, err
		}
		cached = result.Path
	}

	if destination == "" {
		return FetchResult{Outcome: Fetched, Path: cached}, nil
	}

	target := destination
	isDir, err := afero.DirExists(d.fs, destination)
	if err != nil {
		return FetchResult{}, err
	}
	if isDir {
		target = filepath.Join(destination, filepath.Base(cached))
	}
	if err := core.CopyFile(d.fs, cached, target); err != nil {
		return FetchResult{}, err
	}
	return FetchResult{Outcome: Fetched, Path: target}, nil
}

func (d *CachingDownloader) entryDir(url string) (string, error) {
	key, err := core.HashString("sha256", url)
	if err != nil {
		return "", err
	}
	return filepath.Join(d.root, key), nil
}

// cachedFile returns the lexicographically first regular file in entryDir, or "" on a miss.
func (d *CachingDownloader) cachedFile(entryDir string) (string, error) {
	infos, err := afero.ReadDir(d.fs, entryDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read cache entry %s: %w", entryDir, err)
	}
	for _, info := range infos {
		if info.Mode().IsRegular() {
			return filepath.Join(entryDir, info.Name()), nil
		}
	}
	return "", nil
}

func (d *CachingDownloader) fetchToCache(url string, entryDir string) (FetchResult, error) {
	resp, err := d.transport.Get(url)
	if err != nil {
		return FetchResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		d.log.Debug("not found", "url", url)
		return FetchResult{Outcome: NotFound}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return FetchResult{}, &core.DownloadError{URL: url, StatusCode: resp.StatusCode}
	}

	name := fileNameFromURL(resp.FinalURL)
	dest := filepath.Join(entryDir, name)

	f, err := CreateFile(d.fs, dest)
	if err != nil {
		return FetchResult{}, err
	}

	tracker := d.progress.Track(name, resp.ContentLength)
	_, err = io.Copy(f, tracker.Wrap(resp.Body))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	tracker.Done(err)
	if err != nil {
		// a partial file would otherwise count as a hit on the next run
		_ = d.fs.RemoveAll(entryDir)
		return FetchResult{}, fmt.Errorf("failed to download %s: %w", url, err)
	}

	d.log.Info("downloaded", "file", name)
	return FetchResult{Outcome: Fetched, Path: dest}, nil
}

// fileNameFromURL is the unescaped last path segment of rawURL, ignoring any query.
func fileNameFromURL(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	name := path.Base(p)
	if name == "" || name == "." || name == "/" || name == ".." {
		return "download"
	}
	return name
}
