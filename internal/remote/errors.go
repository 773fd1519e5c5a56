package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork wraps transport failures: DNS, refused connections, timeouts.
	ErrNetwork = errors.New("network failure")
	// ErrMalformed wraps bodies that do not decode or break the response contract.
	ErrMalformed = errors.New("malformed response")
)

// StatusError is returned for any non-2xx answer.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: http status %d", e.Method, e.Path, e.Code)
}

// Failure names the three ways a remote call can fail.
type Failure int

const (
	FailureNone Failure = iota
	FailureNetwork
	FailureStatus
	FailureMalformed
	FailureOther
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureNetwork:
		return "network"
	case FailureStatus:
		return "status"
	case FailureMalformed:
		return "malformed"
	default:
		return "other"
	}
}

// Classify maps an error returned by Client onto the failure taxonomy.
func Classify(err error) Failure {
	if err == nil {
		return FailureNone
	}
	var se *StatusError
	switch {
	case errors.As(err, &se):
		return FailureStatus
	case errors.Is(err, ErrMalformed):
		return FailureMalformed
	case errors.Is(err, ErrNetwork):
		return FailureNetwork
	}
	return FailureOther
}
