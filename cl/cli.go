package cl

import (
	"time"

	"github.com/teamstools/teams-cache-clear/localize"
	"github.com/teamstools/teams-cache-clear/purge"
)

// globals, get your globals here!

type CLI struct {
	AppName       string
	VersionString string

	Localizer *localize.Localizer

	Timeout    time.Duration
	NoKill     bool
	NoRelaunch bool
	// nil means every variant
	Variants purge.VariantSet

	Silent     bool
	AutoRun    bool
	JSON       bool
	ReportPath string
	LogPath    string
	Lang       string
}
