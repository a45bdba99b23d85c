package engine

// WithHooks installs the diagnostic hook set a host supplies. Unset fields
// keep their documented defaults.
func WithHooks(h Hooks) Option {
	return func(e *Engine) {
		e.hooks = resolveHooks(h)
	}
}
