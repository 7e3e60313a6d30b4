package sources

import (
	"regexp"

	"github.com/leocov-dev/mccdl/core"
)

const LatestFile = "latest"

var locatorRegexes = [...]*regexp.Regexp{
	regexp.MustCompile(`/projects/(?P<projectID>[^/]*)(?:/files/(?P<fileID>[0-9]+)/)?`),
	regexp.MustCompile(`/modpacks/minecraft/(?P<projectID>[0-9]+)-`),
	regexp.MustCompile(`^(?P<projectID>[\dA-Za-z][\dA-Za-z\-_]{0,127})$`),
}

// ResolveModpackLocator extracts the project and file id from a CurseForge URL or bare project slug.
// The file id is "latest" when the locator does not name one.
func ResolveModpackLocator(locator string) (projectID string, fileID string, err error) {
	for _, r := range locatorRegexes {
		matches := r.FindStringSubmatch(locator)
		if matches == nil {
			continue
		}
		projectID = matches[r.SubexpIndex("projectID")]
		if projectID == "" {
			continue
		}
		if i := r.SubexpIndex("fileID"); i >= 0 {
			fileID = matches[i]
		}
		if fileID == "" {
			fileID = LatestFile
		}
		return projectID, fileID, nil
	}
	return "", "", &core.InvalidLocatorError{Locator: locator}
}
