package sources

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func landingPage(avatar string) string {
	return fmt.Sprintf(`<html><body>
<div class="project-header">
  <div class="avatar-wrapper"><a href="/projects/x"><img src="%s" alt="avatar"></a></div>
</div>
</body></html>`, avatar)
}

type listingRow struct {
	id      int
	version string
}

func listingPage(project string, rows ...listingRow) string {
	b := &strings.Builder{}
	b.WriteString(`<html><body><table class="listing"><tbody>`)
	for _, r := range rows {
		fmt.Fprintf(b, `<tr class="project-file-list-item">
  <td><a class="overflow-tip twitch-link" href="/projects/%s/files/%d">file %d</a></td>
  <td><span class="version-label"> %s </span></td>
</tr>`, project, r.id, r.id, r.version)
	}
	b.WriteString(`</tbody></table></body></html>`)
	return b.String()
}

func TestHTMLScraperAvatarURL(t *testing.T) {
	src, err := HTMLScraper{}.AvatarURL(strings.NewReader(landingPage("https://media.example.com/avatars/1.png")))
	require.NoError(t, err)
	assert.Equal(t, "https://media.example.com/avatars/1.png", src)

	_, err = HTMLScraper{}.AvatarURL(strings.NewReader("<html><img src='x.png'></html>"))
	assert.ErrorIs(t, err, ErrPageStructure)
}

func TestHTMLScraperFileRows(t *testing.T) {
	page := listingPage("x", listingRow{30, "1.11"}, listingRow{10, "1.10"}, listingRow{20, "1.10"})

	rows, err := HTMLScraper{}.FileRows(strings.NewReader(page), "x")
	require.NoError(t, err)
	assert.Equal(t, []FileListing{
		{ProjectID: "x", FileID: 30, GameVersion: "1.11"},
		{ProjectID: "x", FileID: 10, GameVersion: "1.10"},
		{ProjectID: "x", FileID: 20, GameVersion: "1.10"},
	}, rows)
}

func TestHTMLScraperFileRowsEmpty(t *testing.T) {
	rows, err := HTMLScraper{}.FileRows(strings.NewReader("<html></html>"), "x")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestHTMLScraperFileRowsMalformed(t *testing.T) {
	tests := []struct {
		name string
		page string
	}{
		{"Missing link", `<table><tr class="project-file-list-item"><td><span class="version-label">1.10</span></td></tr></table>`},
		{"Non numeric id", `<table><tr class="project-file-list-item"><td><a class="overflow-tip" href="/projects/x/files/abc">f</a><span class="version-label">1.10</span></td></tr></table>`},
		{"Missing version", `<table><tr class="project-file-list-item"><td><a class="overflow-tip" href="/projects/x/files/1">f</a></td></tr></table>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HTMLScraper{}.FileRows(strings.NewReader(tt.page), "x")
			assert.ErrorIs(t, err, ErrPageStructure)
		})
	}
}
