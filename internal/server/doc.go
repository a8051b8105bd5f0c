// Package server provides the MCP server context, health checks, and
// the dedicated metrics server for the teamscribe application.
//
// # Key Components
//
// ServerContext wires the backend clients (auth, transcript, analyze)
// and the fetch/analyze orchestrator to a single persisted session
// cookie. It is shared by the CLI commands and the MCP tool handlers.
//
// HealthChecker serves the /healthz and /readyz endpoints for
// Kubernetes-style liveness and readiness probes.
//
// MetricsServer serves Prometheus metrics on a dedicated port. This
// isolates metrics from the main application traffic, preventing
// unauthorized access to operational metrics.
package server
