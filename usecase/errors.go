package usecase

import "errors"

// Sentinel errors the handlers map to stable API error codes.
var (
	ErrMissingTimezone = errors.New("timezone is required")
	ErrInvalidTimezone = errors.New("unknown timezone")
	ErrUserNotFound    = errors.New("user not found")
	ErrBucketNotFound  = errors.New("no habit entry recorded for this day")
	ErrNegativeCount   = errors.New("habit count cannot be negative")

	ErrUsernameTaken      = errors.New("username already in use")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrUsernameTooShort   = errors.New("username must be at least 3 characters")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// StoreError wraps a storage-layer fault. Full detail is logged internally;
// callers only see a generic retryable failure.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string {
	return "storage temporarily unavailable"
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreError reports whether err is a (wrapped) storage fault.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
