// Package app wires the COQ dashboard service together and manages its
// lifecycle.
//
// New builds, in order: OpenTelemetry providers and business metrics, the
// workbook loader and chat client, the services, the chi router with its
// middleware chain, and the http.Server. Run starts the server and blocks
// until SIGINT or SIGTERM, then shuts the server and telemetry down within
// the configured shutdown timeout.
//
//	application, err := app.NewApplication()
//	if err != nil {
//		// handle
//	}
//	err = application.Run()
//
// Tests use New directly with a config.Config and inject a workbook loader
// or chat backend through WithWorkbookLoader and WithChatBackend.
package app
