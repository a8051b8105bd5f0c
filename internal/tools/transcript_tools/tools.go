package transcript_tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teamscribe/teamscribe/internal/instrumentation"
	"github.com/teamscribe/teamscribe/internal/orchestrate"
	"github.com/teamscribe/teamscribe/internal/server"
	"github.com/teamscribe/teamscribe/internal/tools/batch"
	"github.com/teamscribe/teamscribe/internal/tools/common"
	"github.com/teamscribe/teamscribe/internal/transcript"
)

// RegisterTranscriptTools registers all Teams transcript tools with the MCP server
func RegisterTranscriptTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Auth status tool
	authStatusTool := mcp.NewTool("teams_auth_status",
		mcp.WithDescription("Check whether the backend session is authenticated and report the signed-in user"),
	)

	s.AddTool(authStatusTool, common.InstrumentedToolHandlerWithService(
		"teams_auth_status", instrumentation.ServiceAuth, instrumentation.OperationStatus, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAuthStatus(ctx, request, sc)
		}))

	// Fetch transcript tool
	fetchTool := mcp.NewTool("teams_fetch_transcript",
		mcp.WithDescription("Fetch the transcript for a Microsoft Teams meeting and return it as plain text"),
		mcp.WithString("join_url",
			mcp.Required(),
			mcp.Description("Teams meeting join URL identifying the meeting"),
		),
		mcp.WithBoolean("include_metadata",
			mcp.Description("Include meeting subject, time range and attendees before the transcript text (default: true)"),
		),
	)

	s.AddTool(fetchTool, common.InstrumentedToolHandlerWithService(
		"teams_fetch_transcript", instrumentation.ServiceTranscript, instrumentation.OperationFetch, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFetchTranscript(ctx, request, sc)
		}))

	// Process meeting tool (fetch + analyze)
	processTool := mcp.NewTool("teams_process_meeting",
		mcp.WithDescription("Fetch a meeting transcript and forward it to the configured analyze endpoints. "+
			"Accepts a single join URL or a JSON array of join URLs for batch processing."),
		mcp.WithString("join_url",
			mcp.Required(),
			mcp.Description("Teams meeting join URL, or a JSON array of join URLs (e.g., '[\"url1\", \"url2\"]')"),
		),
	)

	// Processing triggers the analyze endpoint's side effect, so it is a
	// write operation.
	if readOnly {
		s.AddTool(processTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultError("Cannot process meetings in read-only mode. Use --yolo flag to enable write operations."), nil
		})
	} else {
		s.AddTool(processTool, common.InstrumentedToolHandlerWithService(
			"teams_process_meeting", instrumentation.ServiceAnalyze, instrumentation.OperationAnalyze, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleProcessMeeting(ctx, request, sc)
			}))
	}

	// Export transcript tool
	exportTool := mcp.NewTool("teams_export_transcript",
		mcp.WithDescription("Fetch a meeting transcript and write it to a text file on disk"),
		mcp.WithString("join_url",
			mcp.Required(),
			mcp.Description("Teams meeting join URL identifying the meeting"),
		),
		mcp.WithString("output_dir",
			mcp.Description("Directory to write the export to (default: current directory)"),
		),
	)

	if readOnly {
		s.AddTool(exportTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultError("Cannot write export files in read-only mode. Use --yolo flag to enable write operations."), nil
		})
	} else {
		s.AddTool(exportTool, common.InstrumentedToolHandlerWithService(
			"teams_export_transcript", instrumentation.ServiceTranscript, instrumentation.OperationExport, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleExportTranscript(ctx, request, sc)
			}))
	}

	// Probe analyze candidates tool
	probeTool := mcp.NewTool("teams_probe_analyze",
		mcp.WithDescription("Check which configured analyze endpoint would receive transcripts, without sending one"),
	)

	s.AddTool(probeTool, common.InstrumentedToolHandlerWithService(
		"teams_probe_analyze", instrumentation.ServiceAnalyze, instrumentation.OperationProbe, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleProbeAnalyze(ctx, request, sc)
		}))

	return nil
}

func handleAuthStatus(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	status := sc.AuthClient().CheckStatus(ctx)

	authResult := instrumentation.AuthResultUnauthenticated
	if status.Authenticated {
		authResult = instrumentation.AuthResultAuthenticated
	}
	if m := sc.Metrics(); m != nil {
		m.RecordAuthStatusCheck(ctx, authResult)
	}

	if !status.Authenticated {
		result := "Not authenticated.\n"
		if status.LoginURL != "" {
			result += fmt.Sprintf("Open the following URL in a browser to sign in:\n%s\n", status.LoginURL)
		} else {
			result += fmt.Sprintf("Open the following URL in a browser to sign in:\n%s\n", sc.AuthClient().LoginURL())
		}
		return mcp.NewToolResultText(result), nil
	}

	result := "Authenticated.\n"
	if status.User != nil {
		if status.User.DisplayName != "" {
			result += fmt.Sprintf("User: %s\n", status.User.DisplayName)
		}
		if status.User.Email != "" {
			result += fmt.Sprintf("Email: %s\n", status.User.Email)
		}
	}
	return mcp.NewToolResultText(result), nil
}

func handleFetchTranscript(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	joinURL, ok := args["join_url"].(string)
	if !ok || joinURL == "" {
		return mcp.NewToolResultError("join_url is required"), nil
	}

	includeMetadata := true
	if v, ok := args["include_metadata"].(bool); ok {
		includeMetadata = v
	}

	resp, err := sc.TranscriptClient().Fetch(ctx, joinURL)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch transcript: %v", err)), nil
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "backend declined the fetch"
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch transcript: %s", msg)), nil
	}
	if resp.Data == nil {
		return mcp.NewToolResultError("Backend returned no transcript data"), nil
	}

	var sb strings.Builder
	if includeMetadata {
		writeMeetingInfo(&sb, resp.Data.MeetingInfo)
		sb.WriteString("\n")
	}
	if err := transcript.WriteText(&sb, resp.Data); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to render transcript: %v", err)), nil
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleProcessMeeting(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	joinURLs, err := batch.ParseStringOrArray(args["join_url"], "join_url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Single meeting: return the detailed outcome directly
	if len(joinURLs) == 1 {
		result := sc.Orchestrator().Process(ctx, joinURLs[0])
		return mcp.NewToolResultText(formatProcessResult(result)), nil
	}

	results := batch.ProcessBatch(joinURLs, func(joinURL string) (string, error) {
		result := sc.Orchestrator().Process(ctx, joinURL)
		if !result.Success {
			return "", fmt.Errorf("%s", result.Err)
		}
		msg := "processed"
		if result.Err != "" {
			msg = "processed (analysis degraded: " + result.Err + ")"
		}
		return msg, nil
	})

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

func handleExportTranscript(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	joinURL, ok := args["join_url"].(string)
	if !ok || joinURL == "" {
		return mcp.NewToolResultError("join_url is required"), nil
	}

	outputDir := "."
	if v, ok := args["output_dir"].(string); ok && v != "" {
		outputDir = v
	}

	resp, err := sc.TranscriptClient().Fetch(ctx, joinURL)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch transcript: %v", err)), nil
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "backend declined the fetch"
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch transcript: %s", msg)), nil
	}
	if resp.Data == nil {
		return mcp.NewToolResultError("Backend returned no transcript data"), nil
	}

	var sb strings.Builder
	if err := transcript.WriteText(&sb, resp.Data); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to render transcript: %v", err)), nil
	}

	path := filepath.Join(outputDir, transcript.ExportFilename(resp.Data))
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to write export: %v", err)), nil
	}

	result := fmt.Sprintf("Transcript exported to %s\n", path)
	if resp.Data.MeetingInfo.Subject != "" {
		result += fmt.Sprintf("Meeting: %s\n", resp.Data.MeetingInfo.Subject)
	}
	result += fmt.Sprintf("Sections: %d\n", len(resp.Data.Transcripts))
	return mcp.NewToolResultText(result), nil
}

func handleProbeAnalyze(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	candidates := sc.Orchestrator().Candidates()
	if len(candidates) == 0 {
		return mcp.NewToolResultText("No analyze endpoints configured. Transcripts are fetched but not forwarded.\n"), nil
	}

	responder, err := sc.Orchestrator().ProbeCandidates(ctx)
	if err != nil {
		result := fmt.Sprintf("No analyze endpoint reachable (%d configured):\n", len(candidates))
		for i, candidate := range candidates {
			result += fmt.Sprintf("%d. %s\n", i+1, candidate)
		}
		result += fmt.Sprintf("\n%v\n", err)
		return mcp.NewToolResultError(result), nil
	}

	result := fmt.Sprintf("Analyze endpoints (%d configured, attempted in order):\n", len(candidates))
	for i, candidate := range candidates {
		marker := ""
		if candidate == responder {
			marker = "  [FIRST RESPONDER]"
		}
		result += fmt.Sprintf("%d. %s%s\n", i+1, candidate, marker)
	}
	return mcp.NewToolResultText(result), nil
}

// writeMeetingInfo renders the meeting header shown before the transcript
// text.
func writeMeetingInfo(sb *strings.Builder, info transcript.MeetingInfo) {
	if info.Subject != "" {
		fmt.Fprintf(sb, "Meeting: %s\n", info.Subject)
	}
	if info.StartDateTime != "" || info.EndDateTime != "" {
		fmt.Fprintf(sb, "Time: %s - %s\n", info.StartDateTime, info.EndDateTime)
	}
	if len(info.Attendees) > 0 {
		names := make([]string, 0, len(info.Attendees))
		for _, a := range info.Attendees {
			name := a.Name
			if name == "" {
				name = a.Email
			}
			if name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			fmt.Fprintf(sb, "Attendees: %s\n", strings.Join(names, ", "))
		}
	}
}

// formatProcessResult renders a single Process outcome for tool output.
func formatProcessResult(result orchestrate.Result) string {
	if !result.Success {
		return fmt.Sprintf("Processing failed: %s\n", result.Err)
	}

	out := "Transcript fetched.\n"
	if result.Data != nil {
		if result.Data.MeetingInfo.Subject != "" {
			out += fmt.Sprintf("Meeting: %s\n", result.Data.MeetingInfo.Subject)
		}
		out += fmt.Sprintf("Sections: %d\n", len(result.Data.Transcripts))
	}

	switch {
	case result.Err != "":
		out += fmt.Sprintf("Analysis degraded: %s\n", result.Err)
	case result.Analysis != nil:
		out += "Analysis completed.\n"
		if d := result.Analysis.Data; d != nil {
			if d.Mode != "" {
				out += fmt.Sprintf("Mode: %s\n", d.Mode)
			}
			if d.PageURL != "" {
				out += fmt.Sprintf("Page: %s\n", d.PageURL)
			}
		}
	}
	return out
}
