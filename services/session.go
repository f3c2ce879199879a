package services

// SessionState is the resolved authentication state of a caller
type SessionState string

const (
	// SessionLoading is the initial client-side state before resolution finishes
	SessionLoading         SessionState = "loading"
	SessionAuthenticated   SessionState = "authenticated"
	SessionUnauthenticated SessionState = "unauthenticated"
	SessionError           SessionState = "error"
)
