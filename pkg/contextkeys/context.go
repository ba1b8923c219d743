package contextkeys

// ContextKey is the type for values stored in request contexts.
type ContextKey string

const (
	// UserIDContextKey carries the authenticated user id set by the auth middleware.
	UserIDContextKey ContextKey = "userID"
)
