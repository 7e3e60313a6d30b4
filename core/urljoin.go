package core

import (
	"fmt"
	"strings"
)

// JoinURL appends each part to base separated by exactly one slash.
// Parts are stringified with fmt.Sprint so numeric ids can be passed directly.
func JoinURL(base string, parts ...any) string {
	url := base
	for _, part := range parts {
		url = strings.TrimRight(url, "/") + "/" + strings.TrimLeft(fmt.Sprint(part), "/")
	}
	return url
}
