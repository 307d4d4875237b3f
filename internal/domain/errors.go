package domain

// Kind classifies a domain error so the HTTP boundary can map it to a status
// code and an exposure policy without matching on message strings.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindNotFound
	KindConflict
	KindRateLimited
)

// FieldError points a validation failure at a single request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a domain error safe to show to clients. Anything that is not an
// *Error collapses to a generic internal error at the boundary.
type Error struct {
	Kind    Kind
	Message string
	Details []FieldError
}

func (e *Error) Error() string { return e.Message }

func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrEmailTaken          = &Error{Kind: KindConflict, Message: "Email already registered"}
	ErrInvalidCredentials  = &Error{Kind: KindUnauthenticated, Message: "Invalid email or password"}
	ErrInvalidRefreshToken = &Error{Kind: KindUnauthenticated, Message: "Invalid refresh token"}
	ErrTokenInvalid        = &Error{Kind: KindUnauthenticated, Message: "Token is invalid or expired"}
	ErrUnauthorized        = &Error{Kind: KindUnauthenticated, Message: "Unauthorized"}
	ErrUserNotFound        = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrTaskNotFound        = &Error{Kind: KindNotFound, Message: "Task not found"}
	ErrInvalidTaskID       = &Error{Kind: KindValidation, Message: "Invalid task ID"}
)
