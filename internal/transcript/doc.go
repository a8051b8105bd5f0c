// Package transcript defines the meeting transcript model, the backend
// fetch client, and the plain-text export format.
//
// The export format is one block of "[start - end] speaker: text" lines per
// transcript section, blocks separated by a literal "---" line. ParseText
// reads the format back so exports can be verified round-trip.
package transcript
