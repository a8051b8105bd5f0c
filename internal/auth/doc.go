// Package auth provides the session client for the transcript backend.
//
// The backend manages authentication itself via an OAuth flow; this client
// only inspects and terminates the resulting cookie session. CheckStatus is
// deliberately total: an unreachable backend reads as "not logged in"
// rather than an error, because the two are equivalent from the user's
// point of view.
package auth
