package sources

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/slices"

	"github.com/leocov-dev/mccdl/core"
	"github.com/leocov-dev/mccdl/fileio"
)

// CfProject is a single CurseForge project addressed by slug or numeric id.
type CfProject struct {
	client *CfClient
	id     string
	log    *log.Logger
}

func (p *CfProject) ID() string {
	return p.id
}

// URL builds base/projects/<id>/<path...>.
func (p *CfProject) URL(path ...any) string {
	return p.client.URL(append([]any{"projects", p.id}, path...)...)
}

func (p *CfProject) FileURL(fileID string) string {
	if fileID == LatestFile {
		return p.URL("files", fileID)
	}
	return p.URL("files", fileID, "download")
}

// DownloadFile fetches a file through the cache. If the file is gone, the next newer file
// published for gameVersion is used instead; an empty gameVersion accepts any version.
func (p *CfProject) DownloadFile(fileID string, destination string, gameVersion string) (string, error) {
	p.log.Info("fetching file", "file", fileID)
	fileURL := p.FileURL(fileID)
	p.log.Debug("file url", "file", fileID, "url", fileURL)

	result, err := p.client.cache.Fetch(fileURL, destination)
	if err != nil {
		return "", err
	}
	if result.Outcome == fileio.Fetched {
		return result.Path, nil
	}

	next, err := p.nextFileAfter(fileID, gameVersion)
	if err != nil {
		return "", err
	}
	p.log.Warn("file not found, using the next available file instead", "file", fileID, "replacement", next.FileID)
	return p.client.cache.Download(p.FileURL(strconv.Itoa(next.FileID)), destination)
}

func (p *CfProject) DownloadAndUnpackFile(fileID string) (string, error) {
	archive, err := p.DownloadFile(fileID, "", "")
	if err != nil {
		return "", err
	}
	return p.client.unpacker.Unpack(archive)
}

// DownloadIcon fetches the project avatar into the cache and returns its path.
func (p *CfProject) DownloadIcon() (string, error) {
	pageURL := p.URL()
	body, err := p.client.getPage(pageURL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	src, err := p.client.scraper.AvatarURL(body)
	if err != nil {
		return "", fmt.Errorf("project %s: %w", p.id, err)
	}
	iconURL, err := resolveReference(pageURL, src)
	if err != nil {
		return "", err
	}
	return p.client.cache.Download(iconURL, "")
}

// Files lists the project's published files in ascending id order, optionally only those for gameVersion.
func (p *CfProject) Files(gameVersion string) ([]FileListing, error) {
	body, err := p.client.getPage(p.URL("files"))
	if err != nil {
		return nil, err
	}
	defer body.Close()

	rows, err := p.client.scraper.FileRows(body, p.id)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", p.id, err)
	}

	files := make([]FileListing, 0, len(rows))
	for _, row := range rows {
		if gameVersion == "" || row.GameVersion == gameVersion {
			files = append(files, row)
		}
	}
	slices.SortStableFunc(files, func(a, b FileListing) int {
		return a.FileID - b.FileID
	})

	ids := make([]string, len(files))
	for i, f := range files {
		ids[i] = strconv.Itoa(f.FileID)
	}
	p.log.Debug("project files", "files", strings.Join(ids, ", "))
	return files, nil
}

func (p *CfProject) nextFileAfter(fileID string, gameVersion string) (FileListing, error) {
	id, err := strconv.Atoi(fileID)
	if err != nil {
		return FileListing{}, fmt.Errorf("%w: file %s of project %s is not available", core.ErrNoCompatibleFile, fileID, p.id)
	}

	files, err := p.Files(gameVersion)
	if err != nil {
		return FileListing{}, err
	}
	i := slices.IndexFunc(files, func(f FileListing) bool {
		return f.FileID > id
	})
	if i < 0 {
		return FileListing{}, fmt.Errorf("%w: no file of project %s newer than %s for game version %q", core.ErrNoCompatibleFile, p.id, fileID, gameVersion)
	}
	return files[i], nil
}

func resolveReference(base string, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid icon url %q: %w", ref, err)
	}
	return baseURL.ResolveReference(refURL).String(), nil
}
