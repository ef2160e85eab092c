// Package app wires the application together: configuration, logging,
// observability, the dataset loader, services, HTTP handlers and the server
// lifecycle. All components are assembled with constructor injection at
// startup; nothing in this package holds business logic.
//
// The initialization sequence is:
//
//	1. Load configuration from environment and optional YAML file
//	2. Initialize the slog logger and OpenTelemetry providers
//	3. Create the dataset loader and the dashboard/health services
//	4. Build the chi router with the shared middleware chain
//	5. Start the HTTP server; optionally warm the dataset in the background
//
// Shutdown handles SIGINT and SIGTERM: the server drains in-flight requests
// within the configured timeout, then telemetry providers are flushed and
// the log file is closed. Initialization errors are returned to the caller;
// this package never calls os.Exit.
package app
