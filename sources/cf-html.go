package sources

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var ErrPageStructure = errors.New("unexpected page structure")

// FileListing is one row of a project's published files table.
type FileListing struct {
	ProjectID   string
	FileID      int
	GameVersion string
}

// PageScraper extracts fields from CurseForge project pages.
type PageScraper interface {
	// AvatarURL returns the src of the project avatar image on a landing page.
	AvatarURL(page io.Reader) (string, error)
	// FileRows returns every row of a files listing page in page order.
	FileRows(page io.Reader, projectID string) ([]FileListing, error)
}

type HTMLScraper struct{}

func (HTMLScraper) AvatarURL(page io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return "", err
	}
	src, ok := doc.Find("div.avatar-wrapper img").First().Attr("src")
	if !ok || strings.TrimSpace(src) == "" {
		return "", fmt.Errorf("%w: no project avatar found", ErrPageStructure)
	}
	return strings.TrimSpace(src), nil
}

func (HTMLScraper) FileRows(page io.Reader, projectID string) ([]FileListing, error) {
	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return nil, err
	}

	var files []FileListing
	var rowErr error
	doc.Find("tr.project-file-list-item").EachWithBreak(func(i int, row *goquery.Selection) bool {
		// hrefs look like /projects/<project>/files/<file id>
		href, ok := row.Find("a.overflow-tip").First().Attr("href")
		if !ok {
			rowErr = fmt.Errorf("%w: file row %d has no link", ErrPageStructure, i)
			return false
		}
		segments := strings.Split(strings.TrimRight(href, "/"), "/")
		fileID, err := strconv.Atoi(segments[len(segments)-1])
		if err != nil {
			rowErr = fmt.Errorf("%w: file row %d links to %q", ErrPageStructure, i, href)
			return false
		}
		label := row.Find("span.version-label").First()
		if label.Length() == 0 {
			rowErr = fmt.Errorf("%w: file row %d has no game version", ErrPageStructure, i)
			return false
		}
		files = append(files, FileListing{
			ProjectID:   projectID,
			FileID:      fileID,
			GameVersion: strings.TrimSpace(label.Text()),
		})
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return files, nil
}
