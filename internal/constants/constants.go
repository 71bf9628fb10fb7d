package constants

// Session / context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyPrincipal = "principal"
	SessionCookieName   = "task_session"
)

// Validation limits
const (
	MinPasswordLength = 8
	MaxNameLength     = 255
)

// Pagination defaults
const (
	MinPageSize     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)
