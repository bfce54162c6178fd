// Package services implements the business logic between the HTTP handlers
// and the workbook, aggregation and chat packages.
//
// # Available Services
//
//   - DashboardService: loads the workbook and builds the overview, collapsing
//     concurrent loads and falling back to placeholder data when allowed
//   - ChatService: forwards chat messages and records their outcome
//   - HealthService: liveness, readiness and version reporting
//
// # Error Handling
//
// Workbook failures surface as internal/errors AppError values (FETCH,
// PARSING, SCHEMA). With fallback enabled DashboardService converts them into
// a FALLBACK overview carrying the reason; other errors are returned as is.
package services
