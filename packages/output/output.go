package output

import (
	"fmt"
	"io"
	"time"

	"github.com/abdul-hamid-achik/fetchclient/packages/client"
)

// Exchange is one request together with its classified outcome.
type Exchange struct {
	Method           string
	URL              string
	Result           client.Result[client.JSONObject, client.JSONObject]
	Duration         time.Duration
	Captures         map[string]any
	SchemaViolations []string
}

// Formatter renders exchanges and command errors. The console formatter
// writes errors to its error writer; the JSON formatter keeps them on the
// main writer so the output stays machine-readable.
type Formatter interface {
	FormatExchange(ex *Exchange)
	FormatError(err error)
}

// New returns the formatter for format, "console" or "json".
func New(format string, opts ...Option) (Formatter, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	switch format {
	case "", "console":
		return newConsoleFormatter(o), nil
	case "json":
		return newJSONFormatter(o), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

type options struct {
	writer    io.Writer
	errWriter io.Writer
	verbose   bool
	noColor   bool
}

type Option func(*options)

func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// WithErrorWriter sets where the console formatter reports errors.
// Defaults to os.Stderr.
func WithErrorWriter(w io.Writer) Option {
	return func(o *options) {
		o.errWriter = w
	}
}

func WithVerbose(v bool) Option {
	return func(o *options) {
		o.verbose = v
	}
}

func WithNoColor(nc bool) Option {
	return func(o *options) {
		o.noColor = nc
	}
}

// failureBody decodes the failure body strictly and falls back to the raw
// text when it is not JSON.
func failureBody(e *client.ResponseError[client.JSONObject]) (any, bool) {
	body, err := e.JSON()
	if err != nil {
		return e.Response().BodyString(), false
	}
	return body, true
}
