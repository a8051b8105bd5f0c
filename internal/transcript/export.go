package transcript

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Defaults applied when an entry omits a field. Every consumer treats an
// absent field as unknown rather than invalid.
const (
	defaultTime    = "00:00"
	sectionDivider = "---"
)

// WriteText renders the transcript as the plain-text export format: one
// block per transcript section, each line
//
//	[<startTime> - <endTime>] <speaker: ><text>
//
// with blocks separated by a literal "---" line.
func WriteText(w io.Writer, data *TranscriptData) error {
	if data == nil {
		return fmt.Errorf("no transcript data")
	}

	for i, section := range data.Transcripts {
		if i > 0 {
			if _, err := fmt.Fprintln(w, sectionDivider); err != nil {
				return err
			}
		}
		for _, entry := range section.Entries {
			if _, err := fmt.Fprintln(w, FormatEntry(entry)); err != nil {
				return err
			}
		}
	}
	return nil
}

// FormatEntry renders a single transcript line. Missing timestamps default
// to "00:00"; a missing speaker omits the "speaker: " prefix entirely.
func FormatEntry(entry Entry) string {
	start := entry.StartTime
	if start == "" {
		start = defaultTime
	}
	end := entry.EndTime
	if end == "" {
		end = defaultTime
	}

	speaker := ""
	if entry.Speaker != "" {
		speaker = entry.Speaker + ": "
	}
	return fmt.Sprintf("[%s - %s] %s%s", start, end, speaker, entry.Text)
}

// ExportFilename returns the artifact filename for a meeting.
func ExportFilename(data *TranscriptData) string {
	id := "meeting"
	if data != nil && data.MeetingInfo.ID != "" {
		id = data.MeetingInfo.ID
	}
	return fmt.Sprintf("transcript-%s.txt", id)
}

// ParseText reads an export back into sections of formatted lines. It is
// the inverse of WriteText at the block/line level; the meeting metadata is
// not part of the export and cannot be recovered.
func ParseText(r io.Reader) ([][]string, error) {
	sections := [][]string{}
	current := []string{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == sectionDivider {
			sections = append(sections, current)
			current = []string{}
			continue
		}
		if line == "" {
			continue
		}
		current = append(current, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}

	if len(current) > 0 || len(sections) > 0 {
		sections = append(sections, current)
	}
	return sections, nil
}
