package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/signalmesh/dagengine/internal/manager"
	"github.com/signalmesh/dagengine/internal/telemetry"
	"github.com/signalmesh/dagengine/pkg/block"
)

// AppContext bundles the long-lived services created at startup.
type AppContext struct {
	Logger    *telemetry.Logger
	Manager   *manager.Manager
	Libraries *block.Manager
	Registry  *block.Registry
	Business  string
}

// CommandContext returns the command's context (falling back to
// Background), wrapped with the manager's configured run timeout when
// one is set, together with a component-scoped logger. The returned
// cancel func must always be called (typically via defer) to release
// the timeout's resources even when the run finishes early.
func (a *AppContext) CommandContext(cmd *cobra.Command, component string) (context.Context, context.CancelFunc, *telemetry.Logger) {
	ctx := context.Background()
	if cmd != nil && cmd.Context() != nil {
		ctx = cmd.Context()
	}

	cancel := func() {}
	if a.Manager != nil {
		if timeout := a.Manager.Config().Timeout(); timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, timeout)
		}
	}

	return ctx, cancel, a.LoggerFor(component)
}

// LoggerFor derives a child logger with the supplied component name.
func (a *AppContext) LoggerFor(component string) *telemetry.Logger {
	if a == nil || a.Logger == nil {
		return nil
	}
	return a.Logger.With("component", component)
}
