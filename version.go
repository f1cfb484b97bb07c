package idset

import _ "embed"

// Version is the release version of idset.
//
//go:embed VERSION
var Version string
