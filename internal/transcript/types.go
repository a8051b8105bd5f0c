package transcript

// TranscriptData is the payload returned by the backend for a meeting.
// It is immutable once received; consumers default any missing field
// rather than rejecting the document.
type TranscriptData struct {
	MeetingInfo MeetingInfo  `json:"meetingInfo"`
	Transcripts []Transcript `json:"transcripts"`
}

// MeetingInfo describes the meeting a transcript belongs to.
type MeetingInfo struct {
	ID            string     `json:"id"`
	Subject       string     `json:"subject"`
	StartDateTime string     `json:"startDateTime"`
	EndDateTime   string     `json:"endDateTime"`
	Attendees     []Attendee `json:"attendees"`
}

// Attendee is a meeting participant.
type Attendee struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Transcript is one transcript section of a meeting. Long meetings may
// produce several sections.
type Transcript struct {
	ID              string  `json:"id"`
	CreatedDateTime string  `json:"createdDateTime"`
	Entries         []Entry `json:"entries"`
}

// Entry is a single timestamped utterance.
type Entry struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Text      string `json:"text"`
	Speaker   string `json:"speaker,omitempty"`
}

// FetchResponse is the backend envelope for POST /transcript/fetch.
type FetchResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    *TranscriptData `json:"data,omitempty"`
}
