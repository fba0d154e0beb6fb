package reactor

// AtomOption configures Atom at construction time — spec.md 6's
// `atom(initial, options?)` where `options = { equal? }`.
type AtomOption[T any] func(*atomConfig[T])

type atomConfig[T any] struct {
	equal func(a, b T) bool
}

// WithAtomEqual supplies a custom equality comparator, overriding the
// default reference/primitive (`==`) comparison (spec.md 4.E).
func WithAtomEqual[T any](equal func(a, b T) bool) AtomOption[T] {
	return func(c *atomConfig[T]) { c.equal = equal }
}

// ComputedOption configures Computed at construction time — spec.md 6's
// `computed(fn, options?)` where `options = { equal?, defaultValue?, lazy?,
// onError? }`. defaultValue has no Go analogue (the zero value of T already
// serves that role before the first successful recompute) and is omitted.
type ComputedOption[T any] func(*computedConfig[T])

type computedConfig[T any] struct {
	equal   func(a, b T) bool
	lazy    bool
	onError func(error)
}

// WithComputedEqual supplies a custom equality comparator for the cached
// result.
func WithComputedEqual[T any](equal func(a, b T) bool) ComputedOption[T] {
	return func(c *computedConfig[T]) { c.equal = equal }
}

// WithLazy overrides the default (true): false makes the computed recompute
// eagerly, on the next flush after a dependency changes, rather than
// waiting to be read.
func WithLazy[T any](lazy bool) ComputedOption[T] {
	return func(c *computedConfig[T]) { c.lazy = lazy }
}

// WithComputedOnError registers a callback invoked (in addition to the
// rethrow-on-read behavior) whenever the computed's function panics.
func WithComputedOnError[T any](fn func(error)) ComputedOption[T] {
	return func(c *computedConfig[T]) { c.onError = fn }
}

// EffectOption configures Effect at construction time — spec.md 6's
// `effect(fn, options?)` where `options = { sync?, maxExecutionsPerSecond?,
// trackModifications? }`.
type EffectOption func(*effectConfig)

type effectConfig struct {
	sync                   bool
	maxExecutionsPerSecond float64
	trackModifications     bool
	onError                func(error)
}

// WithSync overrides the default (false): true runs the effect inline
// during the scheduler's flush rather than deferring it to the end of that
// flush (spec.md 4.H's "sync mode runs synchronously at scheduler flush").
func WithSync(sync bool) EffectOption {
	return func(c *effectConfig) { c.sync = sync }
}

// WithMaxExecutionsPerSecond overrides the default (100). A value of 0
// disables the loop-guard entirely.
func WithMaxExecutionsPerSecond(n float64) EffectOption {
	return func(c *effectConfig) { c.maxExecutionsPerSecond = n }
}

// WithTrackModifications enables a warning when a single run both reads
// and writes the same atom, ahead of the rate limiter actually tripping.
func WithTrackModifications(track bool) EffectOption {
	return func(c *effectConfig) { c.trackModifications = track }
}

// WithEffectOnError registers a callback invoked when the effect's function
// or its cleanup panics, or when the rate limiter disposes the effect.
func WithEffectOnError(fn func(error)) EffectOption {
	return func(c *effectConfig) { c.onError = fn }
}
