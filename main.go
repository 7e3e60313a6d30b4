package main

import (
	"github.com/leocov-dev/mccdl/cmd"
	"github.com/leocov-dev/mccdl/config"
)

var Version string

func main() {
	config.SetVersion(Version)
	cmd.Execute()
}
