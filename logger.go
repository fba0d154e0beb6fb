package reactor

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/latticerun/reactor/internal"
)

// SetLogger replaces the logiface backend used for every dev-mode warning
// (spec.md 4.J's warn gate) — both for the calling goroutine's runtime,
// immediately, and for every runtime created afterward on any goroutine.
func SetLogger(lg *logiface.Logger[*stumpy.Event]) {
	internal.SetDefaultBackend(lg)
	internal.GetRuntime().Logger().SetBackend(lg)
}

// SetDev toggles dev-mode (warnings, debug-info attachment, the committed-
// graph cycle check) for the calling goroutine's runtime and every runtime
// created afterward. Dev mode defaults to on.
func SetDev(dev bool) {
	internal.SetDefaultDev(dev)
	internal.GetRuntime().Logger().SetDev(dev)
}
