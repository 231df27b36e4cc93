package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/rshade/pagedview/internal/metrics"
)

// Kind classifies a fetch failure.
type Kind int

// Fetch failure kinds.
const (
	// KindNetwork covers transport failures, cancellation and timeouts.
	KindNetwork Kind = iota + 1

	// KindResponse is a non-success HTTP status.
	KindResponse

	// KindMalformed is a success status whose body or total count cannot be interpreted.
	KindMalformed
)

// Sentinel errors matched with errors.Is.
var (
	ErrNetwork   = errors.New("network error")
	ErrResponse  = errors.New("response error")
	ErrMalformed = errors.New("malformed response")
	ErrTimeout   = errors.New("request timed out")
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindResponse:
		return "response"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindNetwork:
		return ErrNetwork
	case KindResponse:
		return ErrResponse
	case KindMalformed:
		return ErrMalformed
	default:
		return nil
	}
}

// FetchError describes why a page could not be fetched.
type FetchError struct {
	Kind Kind

	// StatusCode is set for KindResponse and KindMalformed.
	StatusCode int

	Err error
}

func (e *FetchError) Error() string {
	switch {
	case e.Kind == KindResponse && e.Err == nil:
		return fmt.Sprintf("%s: status %d", e.Kind.sentinel(), e.StatusCode)
	case e.Kind == KindResponse:
		return fmt.Sprintf("%s: status %d: %v", e.Kind.sentinel(), e.StatusCode, e.Err)
	case e.Err == nil:
		return fmt.Sprint(e.Kind.sentinel())
	default:
		return fmt.Sprintf("%s: %v", e.Kind.sentinel(), e.Err)
	}
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *FetchError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Soft reports whether the failure is a malformed response rather than a hard failure.
// Soft failures are shown the same way but can be told apart by callers.
func (e *FetchError) Soft() bool {
	return e.Kind == KindMalformed
}

// NetworkError wraps a transport failure.
func NetworkError(err error) *FetchError {
	return &FetchError{Kind: KindNetwork, Err: err}
}

// ResponseError records a non-success status.
func ResponseError(status int, err error) *FetchError {
	return &FetchError{Kind: KindResponse, StatusCode: status, Err: err}
}

// MalformedError records an uninterpretable success response.
func MalformedError(status int, err error) *FetchError {
	return &FetchError{Kind: KindMalformed, StatusCode: status, Err: err}
}

// KindOf returns the kind of a *FetchError anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}

// IsSoft reports whether err is a soft (malformed response) failure.
func IsSoft(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Soft()
}

// Outcome maps a fetch result to its metrics label.
func Outcome(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	if errors.Is(err, context.Canceled) {
		return metrics.OutcomeCanceled
	}
	kind, _ := KindOf(err)
	switch kind {
	case KindResponse:
		return metrics.OutcomeResponse
	case KindMalformed:
		return metrics.OutcomeMalformed
	default:
		return metrics.OutcomeNetwork
	}
}

// classifyTransport turns a client.Do or limiter error into a network FetchError,
// marking deadline expiry as a timeout.
func classifyTransport(err error) *FetchError {
	if errors.Is(err, context.DeadlineExceeded) {
		return NetworkError(fmt.Errorf("%w: %w", ErrTimeout, err))
	}
	return NetworkError(err)
}

// Classify returns err as a *FetchError when it is a bare context error,
// so sources that do not classify their own failures still report timeouts.
// Other errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := KindOf(err); ok {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return classifyTransport(err)
	}
	return err
}
