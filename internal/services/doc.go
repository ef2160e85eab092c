// Package services implements the business logic layer between the HTTP
// handlers and the dataset pipeline. Services own their dependencies via
// constructor injection, propagate context for cancellation and tracing,
// and log through slog.
//
// DashboardService drives the analysis pipeline: it loads the normalized
// table through the dataset loader, applies filter criteria, and assembles
// metric snapshots, insights, aggregation views and exports.
//
// HealthService reports liveness and runtime information for the health
// and version endpoints.
package services
