// Package apierr defines the error taxonomy shared by every contract package.
//
// Each failure class has an exported sentinel so callers can branch with
// errors.Is, and a structured type (UnknownVariantError, ValidationError,
// QueryFieldError) carrying the offending name or field for errors.As. All of
// them classify themselves through ErrorKind so higher layers can decide
// between reporting a decode problem and rejecting caller input.
package apierr
