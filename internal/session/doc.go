// Package session persists the backend session cookie between runs.
//
// The backend authenticates with a cookie-based session established by its
// OAuth login flow. A browser keeps that cookie in its cookie store; the CLI
// keeps it in a small JSON file under the user cache directory instead. Jar
// implements http.CookieJar so the auth and transcript clients can share one
// credentialed http.Client.
package session
