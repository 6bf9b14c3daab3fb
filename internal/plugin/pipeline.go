package plugin

import (
	"context"
	"errors"
	"log/slog"
)

// Run executes the registry's plugins. Lifecycle plugins are initialized
// first. Tag plugins then execute in registration order so they attach to
// their generator before any HTML generator runs. Cleanup always runs.
func (r *Registry) Run(ctx context.Context, pluginCtx *PluginContext) (err error) {
	all := r.List()

	var initialized []PluginLifecycle
	defer func() {
		for i := len(initialized) - 1; i >= 0; i-- {
			if cerr := initialized[i].Cleanup(); cerr != nil {
				pluginCtx.Logger.Warn("Plugin cleanup failed",
					slog.String("plugin", initialized[i].Metadata().Name),
					slog.String("error", cerr.Error()))
				err = errors.Join(err, NewPluginError(initialized[i].Metadata().Name, "cleanup", cerr))
			}
		}
	}()

	for _, p := range all {
		lc, ok := p.(PluginLifecycle)
		if !ok {
			continue
		}
		if ierr := lc.Init(pluginCtx); ierr != nil {
			return NewPluginError(p.Metadata().Name, "init", ierr)
		}
		initialized = append(initialized, lc)
	}

	for _, phase := range []PluginType{PluginTypeTags, PluginTypeHTML} {
		for _, p := range all {
			if p.Metadata().Type != phase {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			pluginCtx.Logger.Debug("Executing plugin", slog.String("plugin", p.Metadata().String()))
			if xerr := p.Execute(ctx, pluginCtx); xerr != nil {
				return NewPluginError(p.Metadata().Name, "execute", xerr)
			}
		}
	}
	return nil
}
