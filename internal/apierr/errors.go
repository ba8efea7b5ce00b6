package apierr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedNumber       = errors.New("malformed number")
	ErrMalformedIdentifier   = errors.New("malformed identifier")
	ErrEmptyCollection       = errors.New("empty collection")
	ErrUnknownVariant        = errors.New("unknown variant")
	ErrUnsupportedQueryField = errors.New("unsupported query field")
	ErrValidationFailed      = errors.New("validation failed")
)

// Kind values reported by ErrorKind.
const (
	KindDecode     = "decode"
	KindValidation = "validation"
	KindTransport  = "transport"
	KindAPI        = "api"
)

// Classifier is implemented by errors that declare their failure class.
type Classifier interface {
	ErrorKind() string
}

// KindOf returns the classification of err, or "" when nothing in the chain
// declares one. Bare sentinels from this package are classified too.
func KindOf(err error) string {
	var classifier Classifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	switch {
	case errors.Is(err, ErrValidationFailed), errors.Is(err, ErrUnsupportedQueryField):
		return KindValidation
	case errors.Is(err, ErrMalformedNumber),
		errors.Is(err, ErrMalformedIdentifier),
		errors.Is(err, ErrEmptyCollection),
		errors.Is(err, ErrUnknownVariant):
		return KindDecode
	}
	return ""
}

// Malformed wraps a parse failure of input under the given sentinel.
func Malformed(marker error, input string, reason string) error {
	if reason == "" {
		return fmt.Errorf("%w: %q", marker, input)
	}
	return fmt.Errorf("%w: %q: %s", marker, input, reason)
}

// UnknownVariantError reports a wire string or storage token that matched no
// declared variant of Enum.
type UnknownVariantError struct {
	Enum string
	Name string
}

func (e *UnknownVariantError) Error() string {
	if e.Enum == "" {
		return fmt.Sprintf("unknown variant %q", e.Name)
	}
	return fmt.Sprintf("unknown %s variant %q", e.Enum, e.Name)
}

func (e *UnknownVariantError) Is(target error) bool { return target == ErrUnknownVariant }

func (e *UnknownVariantError) ErrorKind() string { return KindDecode }

// ValidationError reports a field a factory rejected. Field is a dotted path
// such as "definition[2].framerate".
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

// Invalid builds a ValidationError for field.
func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// InvalidCause builds a ValidationError for field whose reason is the
// underlying error, which stays reachable through errors.Is.
func InvalidCause(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Reason: err.Error(), Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidationFailed }

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) ErrorKind() string { return KindValidation }

// Within prefixes the field path of a ValidationError with parent. Errors of
// other types are wrapped into a ValidationError for parent.
func Within(parent string, err error) error {
	if err == nil {
		return nil
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return &ValidationError{Field: joinField(parent, verr.Field), Reason: verr.Reason, Err: verr.Err}
	}
	return InvalidCause(parent, err)
}

func joinField(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	case strings.HasPrefix(child, "["):
		return parent + child
	default:
		return parent + "." + child
	}
}

// QueryFieldError reports a struct field whose shape cannot be flattened into
// a query parameter.
type QueryFieldError struct {
	Field string
	Kind  string
}

func (e *QueryFieldError) Error() string {
	return fmt.Sprintf("unsupported query field %q: %s values are body-only", e.Field, e.Kind)
}

func (e *QueryFieldError) Is(target error) bool { return target == ErrUnsupportedQueryField }

func (e *QueryFieldError) ErrorKind() string { return KindValidation }
