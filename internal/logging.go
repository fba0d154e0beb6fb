package internal

import (
	"fmt"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger wraps the logiface/stumpy stack used for every dev-mode warning in
// the engine (spec.md 4.J: "use a single warn(cond, msg) gate; prefix
// [Reactive Atom]; never thrown").
type Logger struct {
	l   *logiface.Logger[*stumpy.Event]
	dev bool
}

// backendOverride and devOverride let SetLogger/SetDev in the public
// package apply to every runtime created from this point forward (each
// goroutine gets its own Runtime lazily, so there is no single instance to
// mutate in place for ones not yet created).
var (
	backendOverride *logiface.Logger[*stumpy.Event]
	devOverride     *bool
)

func defaultLogger() *Logger {
	l := &Logger{
		l: stumpy.L.New(
			stumpy.L.WithStumpy(),
			stumpy.L.WithLevel(logiface.LevelWarning),
		),
		dev: true,
	}
	if backendOverride != nil {
		l.l = backendOverride
	}
	if devOverride != nil {
		l.dev = *devOverride
	}
	return l
}

// SetDefaultBackend overrides the logiface backend used by every runtime
// created from now on. It does not touch existing runtimes; the public
// SetLogger also updates the calling goroutine's runtime via
// Runtime.Logger().SetBackend.
func SetDefaultBackend(lg *logiface.Logger[*stumpy.Event]) {
	backendOverride = lg
}

// SetDefaultDev overrides the dev-mode flag used by every runtime created
// from now on.
func SetDefaultDev(dev bool) {
	devOverride = &dev
}

// SetDev toggles the 4.J dev-mode gate: warnings and debug-info attachment
// are no-ops when dev is false, matching "no-op in production builds".
func (l *Logger) SetDev(dev bool) { l.dev = dev }

func (l *Logger) Dev() bool { return l.dev }

// SetBackend replaces the underlying logiface logger (e.g. to point at
// zerolog/logrus in a host that already uses one of the other
// logiface backends), keeping the dev flag.
func (l *Logger) SetBackend(lg *logiface.Logger[*stumpy.Event]) {
	l.l = lg
}

// warn is the single gate every warning in the engine funnels through. cond
// must already have been evaluated true by the caller; warn emits whenever
// dev mode is on and does nothing when it is off (mirrors spec.md's
// warn(cond, msg) being called only at truthy call sites).
func (l *Logger) warn(node *Node, msg string) {
	if !l.dev {
		return
	}
	b := l.l.Warning()
	if node != nil {
		b = b.Str("node_kind", node.kind.String()).Int("node_id", int(node.id))
	}
	b.Log("[Reactive Atom] " + msg)
}

func (r *Runtime) warnf(node *Node, format string, args ...any) {
	r.logger.warn(node, fmt.Sprintf(format, args...))
}

// Warn is the exported single-gate entry point other internal files use.
func (r *Runtime) Warn(node *Node, msg string) {
	r.logger.warn(node, msg)
}

// Logger exposes the runtime's logger for the public SetLogger hook.
func (r *Runtime) Logger() *Logger { return r.logger }
