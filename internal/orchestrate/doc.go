// Package orchestrate coordinates the two-phase meeting workflow.
//
// Phase one fetches the transcript for a meeting join URL; phase two hands
// the transcript to an ordered list of analyze candidates. The candidate
// loop follows a "first responder wins" rule: a transport failure advances
// to the next candidate, while any HTTP response, 2xx or not, ends the
// loop. Analysis failures never demote the result once the transcript has
// been fetched; they surface as a warning on an otherwise successful
// Result.
package orchestrate
