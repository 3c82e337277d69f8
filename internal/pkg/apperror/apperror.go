package apperror

import "maps"

// AppError is a custom error type that includes an HTTP status code and an optional internal error code.
type AppError struct {
	Code    int            // HTTP Status Code (e.g., 400, 404)
	Message string         // User-facing error message
	Fields  map[string]any // Extra user-facing detail rendered next to the message
	Err     error          // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError with the same code and message.
// Attached fields and wrapped causes do not take part in the comparison,
// so errors.Is(ErrX.With(...), ErrX) holds.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// With returns a copy of the error carrying an extra field.
// The receiver is left untouched, so package-level sentinels stay immutable.
func (e *AppError) With(key string, value any) *AppError {
	cp := *e
	cp.Fields = make(map[string]any, len(e.Fields)+1)
	maps.Copy(cp.Fields, e.Fields)
	cp.Fields[key] = value
	return &cp
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WrapAs wraps err using the code and message of an existing sentinel,
// keeping errors.Is(result, sentinel) true.
func WrapAs(err error, sentinel *AppError) *AppError {
	cp := *sentinel
	cp.Err = err
	return &cp
}
