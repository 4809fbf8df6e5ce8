package app

// Shutdown stops the watcher, closes the Lua state, removes event
// subscriptions, and closes the log file, in that order. It is safe to
// call more than once; later calls return nil.
func (app *Application) Shutdown() error {
	if !app.closed.CompareAndSwap(false, true) {
		return nil
	}

	var errs ErrorList
	if app.watcher != nil {
		errs.Add(app.watcher.Stop())
	}
	if app.script != nil {
		errs.Add(app.script.Close())
	}
	if app.subscriptions != nil {
		app.subscriptions.unsubscribeAll()
	}

	snap := app.metrics.Snapshot()
	app.Logger().Info("richedit stopped",
		"uptime", snap.Uptime,
		"changes", snap.TotalChanges(),
		"scripts", snap.ScriptCount,
		"revision", app.Editor().Revision(),
	)

	if app.logging != nil {
		errs.Add(app.logging.Close())
	}
	return errs.AsError()
}

// IsClosed reports whether Shutdown has been called.
func (app *Application) IsClosed() bool {
	return app.closed.Load()
}
