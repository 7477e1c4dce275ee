package client

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

var (
	// ErrUnsupportedMethod is returned for methods other than GET, PUT, POST and DELETE.
	ErrUnsupportedMethod = errors.New("unsupported request method")
	// ErrNilURL is returned when a request is issued without a URL.
	ErrNilURL = errors.New("request URL is nil")
)

// ResponseError wraps a response whose status signals failure. F is the type
// the failure body is expected to decode into.
type ResponseError[F any] struct {
	response *Response
}

// NewResponseError wraps resp.
func NewResponseError[F any](resp *Response) *ResponseError[F] {
	return &ResponseError[F]{response: resp}
}

func (e *ResponseError[F]) Error() string {
	return fmt.Sprintf("api response returned a %d status code", e.response.StatusCode)
}

// Response returns the response that produced the error.
func (e *ResponseError[F]) Response() *Response {
	return e.response
}

func (e *ResponseError[F]) StatusCode() int {
	return e.response.StatusCode
}

// JSON decodes the response body. Unlike the verb helpers it does not fall
// back to an empty value: a body that is not valid JSON for F is an error.
func (e *ResponseError[F]) JSON() (F, error) {
	var v F
	if err := json.Unmarshal(e.response.Body, &v); err != nil {
		var zero F
		return zero, fmt.Errorf("decode %d response body: %w", e.response.StatusCode, err)
	}
	return v, nil
}

// NetworkError describes a request for which no response was received.
type NetworkError struct {
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	return e.Message
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
