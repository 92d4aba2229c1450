package driver

import (
	"soyc/internal/backend"
	"soyc/internal/backend/jssrc"
	"soyc/internal/backend/pysrc"
	"soyc/internal/backend/swiftsrc"
	"soyc/internal/plugin"
)

var targets = map[plugin.Backend]backend.Target{
	plugin.JSSrc:    jssrc.Target{},
	plugin.PySrc:    pysrc.Target{},
	plugin.SwiftSrc: swiftsrc.Target{},
}

// TargetFor returns the lowering target of b.
func TargetFor(b plugin.Backend) (backend.Target, bool) {
	t, ok := targets[b]
	return t, ok
}
