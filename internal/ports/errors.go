package ports

import "fmt"

// InferenceErrorKind classifies a failed completion call.
type InferenceErrorKind string

const (
	InferenceTimeout         InferenceErrorKind = "timeout"
	InferenceRateLimited     InferenceErrorKind = "rate_limited"
	InferenceInvalidResponse InferenceErrorKind = "invalid_response"
	InferenceVendorError     InferenceErrorKind = "vendor_error"
)

// InferenceError wraps a failure from the model adapter.
type InferenceError struct {
	Kind InferenceErrorKind
	Err  error
}

func (e *InferenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("inference %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("inference %s", e.Kind)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// RetrievalErrorKind classifies a failed data fetch.
type RetrievalErrorKind string

const (
	RetrievalUnavailable RetrievalErrorKind = "unavailable"
	RetrievalRateLimited RetrievalErrorKind = "rate_limited"
	RetrievalStaleOnly   RetrievalErrorKind = "stale_only"
)

// RetrievalError wraps a failure from a data provider adapter.
type RetrievalError struct {
	Kind RetrievalErrorKind
	Err  error
}

func (e *RetrievalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("retrieval %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("retrieval %s", e.Kind)
}

func (e *RetrievalError) Unwrap() error { return e.Err }
