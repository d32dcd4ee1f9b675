package domain

import "errors"

// Error classes. Transport maps each class to one HTTP status.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

var (
	ErrInvalidQuantity    = &ValidationError{Msg: "Quantity must be a positive number"}
	ErrInvalidPrice       = &ValidationError{Msg: "Price must be a positive number"}
	ErrInsufficientStock  = &ValidationError{Msg: "Insufficient quantity in stock"}
	ErrInvalidCredentials = &classError{class: ErrUnauthenticated, msg: "Invalid email or password"}
	ErrEmailTaken         = &classError{class: ErrConflict, msg: "User with this email already exists"}
	ErrSweetNotFound      = &classError{class: ErrNotFound, msg: "Sweet not found"}
	ErrAdminSignupClosed  = &classError{class: ErrForbidden, msg: "Admin registration is disabled"}

	ErrInvalidPurchaseAmount = &ValidationError{Msg: "Purchase quantity must be a positive number", Kind: ErrInvalidQuantity}
	ErrInvalidRestockAmount  = &ValidationError{Msg: "Restock quantity must be a positive number", Kind: ErrInvalidQuantity}
)

// ClientError is implemented by every domain error whose message may be shown
// to API clients as is. Wrapping with %w keeps it reachable via errors.As.
type ClientError interface {
	error
	ClientMessage() string
}

// ValidationError is a client-facing input error; its message is safe to return.
// It matches ErrInvalidInput and, when set, Kind.
type ValidationError struct {
	Msg  string
	Kind error
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) ClientMessage() string { return e.Msg }

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput || (e.Kind != nil && target == e.Kind)
}

// Invalid builds a ValidationError.
func Invalid(msg string) error { return &ValidationError{Msg: msg} }

type classError struct {
	class error
	msg   string
}

func (e *classError) Error() string { return e.msg }

func (e *classError) ClientMessage() string { return e.msg }

func (e *classError) Is(target error) bool { return target == e.class }
