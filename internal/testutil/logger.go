package testutil

import (
	"bytes"

	"github.com/charmbracelet/log"
)

// NewLogger returns a debug level logger writing into the returned buffer.
func NewLogger() (*log.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := log.NewWithOptions(buf, log.Options{Level: log.DebugLevel})
	return logger, buf
}
