package common

import (
	"github.com/teamscribe/teamscribe/internal/logging"
)

// MeetingHashFromArgs extracts the meeting join URL from request arguments
// and returns its anonymized form for metrics and audit logging. Join URLs
// embed tenant and organizer identifiers and must never appear in logs.
//
// Returns an empty string when the request carries no join URL.
func MeetingHashFromArgs(args map[string]interface{}) string {
	joinURL, ok := args["join_url"].(string)
	if !ok || joinURL == "" {
		return ""
	}
	return "meeting:" + logging.Anonymize(joinURL)
}
