package core

import (
	"strings"

	"github.com/fatih/camelcase"
	"github.com/igorsobreira/titlecase"
)

// InstanceNameFromProject derives a display name from a project slug, e.g. "ftb-beyond" -> "Ftb Beyond".
func InstanceNameFromProject(projectID string) string {
	words := strings.Join(camelcase.Split(projectID), " ")
	words = strings.ReplaceAll(strings.ReplaceAll(words, " - ", " "), " _ ", " ")
	return strings.TrimSpace(titlecase.Title(words))
}
