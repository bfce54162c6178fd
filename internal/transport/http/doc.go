// Package http implements the HTTP handlers of the COQ dashboard service.
// Handlers stay thin: they parse and validate the request, call a service,
// and render JSON with go-chi/render. Failures go through the shared
// ErrorHandler so every error response is an RFC 7807 problem document.
//
// # Routes
//
//	GET  /api/overview                 full overview (include_skipped=true keeps dropped rows)
//	GET  /api/overview/ratios          ratio series with year ticks
//	GET  /api/overview/recent          recent-window summary
//	GET  /api/overview/efficiency      efficiency series and yearly timeline
//	GET  /api/optimization/targets     reference mixes and improvement steps
//	POST /api/optimization/simulate    simulate a prevention/appraisal/failure mix
//	POST /api/chat                     chat pass-through
//	GET  /api/health[/live|/ready]     health probes
//	GET  /api/version                  build information
//	GET  /metrics                      Prometheus exposition
//
// Every overview response carries its data source (LIVE or FALLBACK), both in
// the body and in the X-Data-Source header.
package http
