package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidInput     = errors.New("invalid input")
	ErrBadRequest       = errors.New("bad request")
	ErrParentNotFound   = errors.New("parent not found")
	ErrParentNotAFolder = errors.New("parent is not a folder")
	ErrFileNotFound     = errors.New("file not found")
)

// Fault pairs a sentinel kind with the message shown to API clients.
type Fault struct {
	Kind    error
	Message string
}

// NewFault returns a Fault of the given kind.
func NewFault(kind error, message string) *Fault {
	return &Fault{Kind: kind, Message: message}
}

func (f *Fault) Error() string { return f.Message }

func (f *Fault) Unwrap() error { return f.Kind }
