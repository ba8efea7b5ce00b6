package client

import (
	"encoding/json"
	"errors"
	"fmt"

	"vidctl/internal/apierr"
)

var (
	// ErrApplicationIDMissing is returned by calls scoped to an application
	// when the client was built without one.
	ErrApplicationIDMissing = errors.New("application id is missing")
	// ErrGatewayIDMissing is returned by calls scoped to the client's own
	// gateway when the client was built without one.
	ErrGatewayIDMissing = errors.New("gateway id is missing")
	// ErrEmptyResponse reports a failed call whose body was empty.
	ErrEmptyResponse = errors.New("empty error response")

	ErrGatewayDeleted     = errors.New("gateway deleted")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrResourceNotFound   = errors.New("resource not found")
)

// Error codes the API reports in failure bodies.
const (
	CodeGatewayDeleted     = "gateway-deleted"
	CodeInvalidCredentials = "invalid-credentials"
	CodeResourceNotFound   = "resource-not-found"
)

// ResourceDeployment is the resource named by a missing deployment.
const ResourceDeployment = "deployment"

// Details identifies the call that failed. Status is zero when no response
// was received.
type Details struct {
	Method string
	Path   string
	Status int
}

func (d Details) String() string {
	if d.Status == 0 {
		return fmt.Sprintf("%s request to `%s` failed", d.Method, d.Path)
	}
	return fmt.Sprintf("%s request to `%s` failed with status code %d", d.Method, d.Path, d.Status)
}

// RequestError wraps every failure returned by the client.
type RequestError struct {
	Details Details
	Err     error
}

func (e *RequestError) Error() string {
	return e.Details.String() + ": " + e.Err.Error()
}

func (e *RequestError) Unwrap() error { return e.Err }

// ErrorKind reports "api" for decoded API failures, the kind of the wrapped
// error when it declares one, and "transport" otherwise.
func (e *RequestError) ErrorKind() string {
	var apiErr *APIError
	if errors.As(e.Err, &apiErr) {
		return apierr.KindAPI
	}
	if kind := apierr.KindOf(e.Err); kind != "" {
		return kind
	}
	return apierr.KindTransport
}

// APIError is a failure body decoded from the API:
// {"code": "...", "message": "...", "context": {...}}.
type APIError struct {
	Code    string
	Message string
	// Resource is set for resource-not-found errors whose context names one.
	Resource string
}

type apiErrorBody struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Context json.RawMessage `json:"context,omitempty"`
}

func decodeAPIError(body []byte) (*APIError, error) {
	var raw apiErrorBody
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode error body: %w", err)
	}
	out := &APIError{Code: raw.Code, Message: raw.Message}
	if raw.Code == CodeResourceNotFound && len(raw.Context) > 0 {
		var ctx struct {
			Resource string `json:"resource"`
		}
		if json.Unmarshal(raw.Context, &ctx) == nil {
			out.Resource = ctx.Resource
		}
	}
	return out, nil
}

func (e *APIError) Error() string {
	switch e.Code {
	case CodeGatewayDeleted:
		return "the gateway this access token belonged to has been deleted (`gateway-deleted`)"
	case CodeInvalidCredentials:
		return "user credentials are invalid (`invalid-credentials`)"
	case CodeResourceNotFound:
		if e.Resource != "" {
			return fmt.Sprintf("resource not found (`resource-not-found`), resource: %s", e.Resource)
		}
	}
	return fmt.Sprintf("%s (`%s`)", e.Message, e.Code)
}

// Is matches the sentinel for each known code.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrGatewayDeleted:
		return e.Code == CodeGatewayDeleted
	case ErrInvalidCredentials:
		return e.Code == CodeInvalidCredentials
	case ErrResourceNotFound:
		return e.Code == CodeResourceNotFound
	}
	return false
}

// IsNotFound reports whether err is a resource-not-found failure for
// resource. An empty resource matches any.
func IsNotFound(err error, resource string) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != CodeResourceNotFound {
		return false
	}
	return resource == "" || apiErr.Resource == resource
}
