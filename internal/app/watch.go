package app

import (
	"context"

	"github.com/dshills/mdenhance/internal/config"
)

// WatchSettings reloads the settings file whenever it changes, until ctx
// is done. The log level takes effect immediately; feature flag changes
// are reported and apply on the next start. onReload, when non-nil, sees
// every reload outcome.
func (app *Application) WatchSettings(ctx context.Context, onReload config.ReloadFunc) error {
	if app.opts.ConfigPath == "" {
		return ErrNoPath
	}

	w, err := config.NewWatcher(app.opts.ConfigPath, func(s *config.Settings, err error) {
		if err == nil {
			app.applySettings(s)
		}
		if onReload != nil {
			onReload(s, err)
		}
	}, config.WithWatcherLogger(app.logger.With("component", "config")))
	if err != nil {
		return err
	}
	defer w.Close()

	app.logger.Info("watching settings", "path", w.Path())
	<-ctx.Done()
	return nil
}

// applySettings adopts reloaded settings.
func (app *Application) applySettings(s *config.Settings) {
	app.mu.Lock()
	prev := app.settings
	next := s.Clone()
	if app.opts.LogLevel != "" {
		next.LogLevel = app.opts.LogLevel
	}
	app.settings = next
	app.mu.Unlock()

	app.level.Set(next.Level())

	prevFlags := prev.Flags()
	for i, f := range next.Flags() {
		if *f.Value != *prevFlags[i].Value {
			app.logger.Info("feature flag changed, restart to apply", "flag", f.Name, "enabled", *f.Value)
		}
	}
}
