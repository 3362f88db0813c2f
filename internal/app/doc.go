// Package app is the composition root of floorcheck. It loads the
// configuration, builds the logger and OpenTelemetry providers, wires the
// dataset cache, session store, recipient store, mailer, websocket hub and
// services, and mounts them on a chi router.
//
// Startup order:
//
//  1. configuration (defaults, YAML file, FLOORCHECK_* environment)
//  2. logging and observability
//  3. dataset cache and watcher, sessions, recipients, mailer
//  4. services and HTTP handlers
//  5. HTTP server, run until interrupted, graceful shutdown
//
// Typical use:
//
//	app, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return app.Run(ctx)
package app
