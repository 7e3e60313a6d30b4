package mccdl

import (
	"github.com/leocov-dev/mccdl/core"
	"github.com/leocov-dev/mccdl/sources"
)

type Modpack = core.Modpack
type Receipt = core.Receipt

var (
	ResolveModpackLocator   = sources.ResolveModpackLocator
	LoadModpack             = core.LoadModpack
	JoinURL                 = core.JoinURL
	InstanceNameFromProject = core.InstanceNameFromProject
)

var (
	ErrInvalidLocator   = core.ErrInvalidLocator
	ErrDownload         = core.ErrDownload
	ErrManifest         = core.ErrManifest
	ErrInstanceExists   = core.ErrInstanceExists
	ErrNoCompatibleFile = core.ErrNoCompatibleFile
)
