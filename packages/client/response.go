package client

import (
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// JSONObject is a decoded JSON object.
type JSONObject map[string]any

// Headers maps header names to values.
type Headers map[string]string

// Params maps query parameter names to values.
type Params map[string]string

// Response is a received HTTP response. The body is read in full before the
// Response is handed out, so it can be decoded any number of times.
type Response struct {
	StatusCode int
	Status     string
	Headers    map[string]string
	Body       []byte
	Duration   time.Duration
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

func (r *Response) Header(key string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

func (r *Response) IsJSON() bool {
	return strings.Contains(r.ContentType(), "application/json")
}

// IsSuccess reports whether the status is in the 200..299 range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}
