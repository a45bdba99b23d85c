package joinchart

import (
	"github.com/joinchart/joinchart/internal/engine"
	"github.com/joinchart/joinchart/internal/model"
)

// ErrNotInitiated is returned by Chart.Process (in addition to the
// Hooks.ReportNotInitiated diagnostic firing) when called while the chart
// is not initiated: before Chart.Initiate succeeds, or after
// Chart.Terminate.
var ErrNotInitiated = engine.ErrNotInitiated

// ErrAlreadyInitiated is returned by Chart.Initiate when the chart is
// already running.
var ErrAlreadyInitiated = engine.ErrAlreadyInitiated

// ConfigError is returned by Builder.Build when the declared tree violates
// one of the tree's structural invariants: an unreachable node, a
// composite with no initial child, a joint whose guards can never be
// simultaneously active, and so on.
type ConfigError = model.ConfigError
