package joinchart

import "github.com/joinchart/joinchart/internal/engine"

// Hooks is the host-facing diagnostic callback surface: one optional field
// per hook, each falling back in a documented chain -- the four
// specific-error hooks default to ReportError, the two info hooks default
// to ReportInfo, and both of those default to Log, which is a no-op unless
// set.
type Hooks = engine.Hooks

// MessageFactory defers a diagnostic message's formatting until a hook that
// actually wants it runs.
type MessageFactory = engine.MessageFactory

// WithHooks installs h as a Chart's diagnostic hook set.
func WithHooks(h Hooks) engine.Option {
	return engine.WithHooks(h)
}
