package todos

// Outcome is the result of one remote call: a value or the reason it failed.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Succeeded wraps a successful value.
func Succeeded[T any](v T) Outcome[T] { return Outcome[T]{Value: v} }

// Failed wraps a failure. A nil err is still treated as a failure.
func Failed[T any](err error) Outcome[T] {
	if err == nil {
		err = errUnknownFailure
	}
	return Outcome[T]{Err: err}
}

// From builds an outcome from the usual (value, error) pair.
func From[T any](v T, err error) Outcome[T] {
	if err != nil {
		return Failed[T](err)
	}
	return Succeeded(v)
}

// OK reports whether the call succeeded.
func (o Outcome[T]) OK() bool { return o.Err == nil }

// Done is the payload of calls that only report success (update, delete).
type Done struct{}
