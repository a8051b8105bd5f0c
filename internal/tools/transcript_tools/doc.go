// Package transcript_tools provides MCP tools for working with Microsoft Teams
// meeting transcripts through the transcript backend.
//
// This package registers tools that allow MCP clients to check the backend
// session, fetch and export meeting transcripts, and forward transcripts to
// the configured analyze endpoints.
//
// Available tools:
//
// Session (Read):
//   - teams_auth_status - Check whether the backend session is authenticated
//
// Transcripts (Read):
//   - teams_fetch_transcript - Fetch a meeting transcript as plain text
//   - teams_probe_analyze - Report which analyze endpoint would receive transcripts
//
// Transcripts (Write):
//   - teams_process_meeting - Fetch a transcript and forward it to the analyze
//     endpoints; accepts a single join URL or a JSON array for batch processing
//   - teams_export_transcript - Fetch a transcript and write it to a text file
//
// Write tools are disabled in read-only mode and return an informational
// error instead.
//
// Tool handlers identify meetings by their join URL. Join URLs never appear
// in logs or metrics; they are reduced to an anonymized meeting hash first.
package transcript_tools
