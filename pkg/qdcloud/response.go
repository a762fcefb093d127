package qdcloud

// Response is the outcome of a Qodana Cloud operation. It holds either a
// value or a classified error (*OfflineError or *ResponseError), never both.
//
// Use Get to unwrap it in straight-line code:
//
//	info, err := userAPI.GetUserInfo(ctx).Get()
//	if err != nil {
//		return qdcloud.FromError[string](err)
//	}
//
// FromError keeps the classification of err, so the first failure in a
// chain of dependent calls becomes the result of the whole chain.
type Response[T any] struct {
	value T
	err   error
}

// Success returns a successful response holding value.
func Success[T any](value T) Response[T] {
	return Response[T]{value: value}
}

// Offline returns a response for a call that got no classifiable answer
// from the server.
func Offline[T any](cause error) Response[T] {
	return Response[T]{err: &OfflineError{Cause: cause}}
}

// Failure returns a response for a call rejected by the server or by a
// local check. statusCode is 0 when no HTTP status is known.
func Failure[T any](message string, statusCode int, cause error) Response[T] {
	return Response[T]{err: &ResponseError{Message: message, StatusCode: statusCode, Cause: cause}}
}

// FromError returns a failed response for err. Offline and response errors
// anywhere in the chain of err are kept as they are; any other error
// becomes a ResponseError without status code.
func FromError[T any](err error) Response[T] {
	return Response[T]{err: classify(err)}
}

// IsSuccess reports whether the response holds a value.
func (r Response[T]) IsSuccess() bool {
	return r.err == nil
}

// Get returns the value, or the classified error.
func (r Response[T]) Get() (T, error) {
	if r.err != nil {
		var zero T

		return zero, r.err
	}

	return r.value, nil
}

// Value returns the value and true on success, the zero value and false otherwise.
func (r Response[T]) Value() (T, bool) {
	return r.value, r.err == nil
}

// OrElse returns the value on success and fallback otherwise.
func (r Response[T]) OrElse(fallback T) T {
	if r.err != nil {
		return fallback
	}

	return r.value
}

// Err returns nil on success, otherwise an *OfflineError or a *ResponseError.
func (r Response[T]) Err() error {
	return r.err
}

// AsOffline returns the offline error when the response is offline.
func (r Response[T]) AsOffline() (*OfflineError, bool) {
	offline, ok := r.err.(*OfflineError)

	return offline, ok
}

// AsFailure returns the response error when the server or a local check
// rejected the call.
func (r Response[T]) AsFailure() (*ResponseError, bool) {
	failure, ok := r.err.(*ResponseError)

	return failure, ok
}

// Map applies fn to the value of a successful response.
func Map[T, U any](r Response[T], fn func(T) U) Response[U] {
	if r.err != nil {
		return Response[U]{err: r.err}
	}

	return Success(fn(r.value))
}

// Then runs the dependent call fn on success; a failure skips fn and is
// returned unchanged.
func Then[T, U any](r Response[T], fn func(T) Response[U]) Response[U] {
	if r.err != nil {
		return Response[U]{err: r.err}
	}

	return fn(r.value)
}
