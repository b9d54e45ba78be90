package geostore

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var versionFile string

// Version is the current version of the geostore library.
var Version = strings.TrimSpace(versionFile)
