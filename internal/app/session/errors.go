package session

// AuthenticationError is a user-visible credential failure: invalid
// credentials on login, or a rejected registration without field detail.
// Recoverable by retrying the action.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

// ValidationError is a server-rejected field validation failure,
// kept distinct from AuthenticationError so screens can render
// per-field messages without losing the other entered fields.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }
