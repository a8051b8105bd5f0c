// Package logging provides structured logging utilities for the teamscribe application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (email and join URL anonymization)
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "transcript.fetch")
//	logger.Info("fetching transcript",
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("processing meeting",
//	    logging.UserHash(email),
//	    logging.MeetingHash(joinURL))
//
// # Security Considerations
//
// This package is designed with security in mind:
//   - User emails are hashed to prevent PII leakage while allowing correlation
//   - Meeting join URLs are hashed, as they embed tenant and organizer identifiers
//   - Session cookies are never logged
package logging
