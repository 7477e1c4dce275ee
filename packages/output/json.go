package output

import (
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/fetchclient/packages/client"
	"github.com/goccy/go-json"
)

// JSONExchange mirrors the result shape: payload on success, responseError
// when a failing response arrived, networkError when none did.
type JSONExchange struct {
	Method           string             `json:"method"`
	URL              string             `json:"url"`
	Kind             string             `json:"kind"`
	Succeeded        bool               `json:"succeeded"`
	ResponseReceived bool               `json:"responseReceived"`
	Payload          client.JSONObject  `json:"payload"`
	ResponseError    *JSONResponseError `json:"responseError,omitempty"`
	NetworkError     *JSONNetworkError  `json:"networkError,omitempty"`
	Duration         float64            `json:"duration"`
	Captures         map[string]any     `json:"captures,omitempty"`
	SchemaViolations []string           `json:"schemaViolations,omitempty"`
}

type JSONResponseError struct {
	StatusCode int               `json:"statusCode"`
	Status     string            `json:"status"`
	Message    string            `json:"message"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       any               `json:"body,omitempty"`
	BodyIsJSON bool              `json:"bodyIsJSON"`
}

type JSONNetworkError struct {
	Message string `json:"message"`
}

type JSONFormatter struct {
	writer  io.Writer
	verbose bool
}

func newJSONFormatter(o options) *JSONFormatter {
	f := &JSONFormatter{
		writer:  o.writer,
		verbose: o.verbose,
	}
	if f.writer == nil {
		f.writer = os.Stdout
	}
	return f
}

// ToJSONExchange converts an exchange into its serializable form.
func ToJSONExchange(ex *Exchange, includeHeaders bool) *JSONExchange {
	r := ex.Result
	out := &JSONExchange{
		Method:           ex.Method,
		URL:              ex.URL,
		Kind:             r.Kind().String(),
		Succeeded:        r.Succeeded(),
		ResponseReceived: r.ResponseReceived(),
		Payload:          r.Payload(),
		Duration:         float64(ex.Duration.Microseconds()) / 1000,
		Captures:         ex.Captures,
		SchemaViolations: ex.SchemaViolations,
	}

	if respErr := r.ResponseError(); respErr != nil {
		body, isJSON := failureBody(respErr)
		out.ResponseError = &JSONResponseError{
			StatusCode: respErr.StatusCode(),
			Status:     respErr.Response().Status,
			Message:    respErr.Error(),
			Body:       body,
			BodyIsJSON: isJSON,
		}
		if includeHeaders {
			out.ResponseError.Headers = respErr.Response().Headers
		}
	}

	if netErr := r.NetworkError(); netErr != nil {
		out.NetworkError = &JSONNetworkError{Message: netErr.Message}
	}

	return out
}

func (f *JSONFormatter) FormatExchange(ex *Exchange) {
	data, err := json.MarshalIndent(ToJSONExchange(ex, f.verbose), "", "  ")
	if err != nil {
		f.FormatError(err)
		return
	}
	fmt.Fprintf(f.writer, "%s\n", data)
}

func (f *JSONFormatter) FormatError(err error) {
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	fmt.Fprintf(f.writer, "%s\n", data)
}
