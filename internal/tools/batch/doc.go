// Package batch provides common utilities for batch operations across all MCP tools.
//
// This package includes helpers for:
//   - Parsing parameters that accept both single values and arrays
//   - Formatting batch results in a consistent structure
//   - Processing several meetings in one tool call
//   - Handling partial failures in batch operations
package batch
