// Package analyze submits fetched transcripts to analyze candidate
// endpoints.
//
// The client separates the two failure classes the orchestration layer
// cares about: a transport error means the candidate never answered and
// the next one should be tried, while a *StatusError means the candidate
// answered with a non-2xx status and the fallback must stop there.
package analyze
