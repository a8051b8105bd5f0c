package auth

// AuthStatus describes the current backend session state.
type AuthStatus struct {
	// Authenticated reports whether the backend recognizes the session.
	Authenticated bool `json:"authenticated"`

	// User is the signed-in user, present only when Authenticated is true.
	User *UserInfo `json:"user,omitempty"`

	// LoginURL is the backend's OAuth entry URL, usually present when
	// Authenticated is false.
	LoginURL string `json:"loginUrl,omitempty"`
}

// UserInfo identifies the signed-in user.
type UserInfo struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}
