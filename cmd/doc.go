// Package cmd implements the command-line interface for teamscribe.
//
// This package provides the following commands:
//   - status: Show the backend session state
//   - login: Print the backend login URL and optionally wait for sign-in
//   - logout: End the backend session and discard the local cookie
//   - fetch: Fetch a meeting transcript and print or export it
//   - process: Fetch transcripts and forward them to the analyze endpoints
//   - doctor: Diagnose backend and analyze endpoint connectivity
//   - serve: Start the MCP server to provide tools for AI assistants
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
package cmd
