package shared

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

func Exitf(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, format, a...)
	os.Exit(1)
}

func Exitln(a ...interface{}) {
	fmt.Fprintln(os.Stderr, a...)
	os.Exit(1)
}

// ExitErr logs err at error level and exits with status 1.
func ExitErr(logger *log.Logger, err error) {
	logger.Error(err)
	os.Exit(1)
}
