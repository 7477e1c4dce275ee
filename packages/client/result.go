package client

// Kind discriminates the variants of a Result.
type Kind int

const (
	KindSuccess Kind = iota
	KindResponseFailure
	KindNetworkFailure
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindResponseFailure:
		return "response_failure"
	case KindNetworkFailure:
		return "network_failure"
	default:
		return "unknown"
	}
}

// Result is the outcome of one request. Exactly one variant is populated:
// a payload of type S, a ResponseError whose body decodes into F, or a
// NetworkError.
type Result[S, F any] struct {
	kind          Kind
	payload       S
	responseError *ResponseError[F]
	networkError  *NetworkError
}

// Success builds a successful Result carrying payload.
func Success[S, F any](payload S) Result[S, F] {
	return Result[S, F]{kind: KindSuccess, payload: payload}
}

// ResponseFailure builds a Result for a response with a failing status.
func ResponseFailure[S, F any](err *ResponseError[F]) Result[S, F] {
	return Result[S, F]{kind: KindResponseFailure, responseError: err}
}

// NetworkFailure builds a Result for a request that received no response.
func NetworkFailure[S, F any](err *NetworkError) Result[S, F] {
	return Result[S, F]{kind: KindNetworkFailure, networkError: err}
}

func (r Result[S, F]) Kind() Kind {
	return r.kind
}

func (r Result[S, F]) Succeeded() bool {
	return r.kind == KindSuccess
}

// ResponseReceived reports whether the server answered, successfully or not.
func (r Result[S, F]) ResponseReceived() bool {
	return r.kind != KindNetworkFailure
}

// Payload returns the success payload, or the zero value of S for failures.
func (r Result[S, F]) Payload() S {
	return r.payload
}

// ResponseError is non-nil only for KindResponseFailure.
func (r Result[S, F]) ResponseError() *ResponseError[F] {
	return r.responseError
}

// NetworkError is non-nil only for KindNetworkFailure.
func (r Result[S, F]) NetworkError() *NetworkError {
	return r.networkError
}

// Err returns the failure as an error, or nil on success.
func (r Result[S, F]) Err() error {
	switch r.kind {
	case KindResponseFailure:
		return r.responseError
	case KindNetworkFailure:
		return r.networkError
	default:
		return nil
	}
}

// passFailure re-types a failed Result for a different payload type.
func passFailure[T, S, F any](r Result[S, F]) Result[T, F] {
	return Result[T, F]{
		kind:          r.kind,
		responseError: r.responseError,
		networkError:  r.networkError,
	}
}
