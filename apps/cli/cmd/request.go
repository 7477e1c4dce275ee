package cmd

import (
	"context"
	"fmt"
	"net/http"
	neturl "net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/fetchclient/packages/capture"
	"github.com/abdul-hamid-achik/fetchclient/packages/client"
	"github.com/abdul-hamid-achik/fetchclient/packages/core/config"
	"github.com/abdul-hamid-achik/fetchclient/packages/output"
	"github.com/abdul-hamid-achik/fetchclient/packages/schema"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// RequestIDHeader is set when --request-id is given.
const RequestIDHeader = "X-Request-Id"

type requestFlags struct {
	query     []string
	data      string
	captures  []string
	schema    string
	requestID bool
}

func newRequestCmd(method string) *cobra.Command {
	f := &requestFlags{}
	name := strings.ToLower(method)

	cmd := &cobra.Command{
		Use:   name + " <path|url>",
		Short: fmt.Sprintf("Send a %s request", method),
		Long: fmt.Sprintf(`Send a %[1]s request and print the classified result.

A path is resolved against --origin; an absolute URL is used as is.

Examples:
  fetchclient %[2]s /api/users --origin https://app.example.com
  fetchclient %[2]s https://api.example.com/users -q page=2 -o json`, method, name),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, method, args[0], f)
		},
	}

	cmd.Flags().StringArrayVarP(&f.query, "query", "q", nil, "Query parameter key=value (repeatable)")
	if method == http.MethodPost || method == http.MethodPut {
		cmd.Flags().StringVarP(&f.data, "data", "d", "", "JSON request body, or @file to read it from a file")
	}
	if method != http.MethodDelete {
		cmd.Flags().StringArrayVar(&f.captures, "capture", nil, "Capture a payload value as name=path (gjson syntax, repeatable)")
		cmd.Flags().StringVar(&f.schema, "schema", "", "JSON Schema file the success payload must match")
	}
	cmd.Flags().BoolVar(&f.requestID, "request-id", false, "Send a random "+RequestIDHeader+" header")

	return cmd
}

func runRequest(cmd *cobra.Command, method, target string, f *requestFlags) error {
	cfg, err := loadSettings()
	if err != nil {
		return reportSettingsError(cmd, err)
	}
	configureLogging(cmd, cfg)

	formatter, err := newFormatter(cmd, cfg)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	c := client.New(append(cfg.ClientOptions(), client.WithLogger(logrus.StandardLogger()))...)

	prepared, err := prepareRequest(c, cfg, target, f)
	if err != nil {
		return reportError(formatter, ExitUsageError, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logrus.WithFields(logrus.Fields{"method": method, "url": prepared.url.String()}).Debug("sending request")

	start := time.Now()
	result, err := send(ctx, c, method, prepared)
	if err != nil {
		return reportError(formatter, ExitUsageError, err)
	}

	ex := &output.Exchange{
		Method:   method,
		URL:      prepared.url.String(),
		Result:   result,
		Duration: time.Since(start),
	}

	if result.Succeeded() {
		if len(prepared.captures) > 0 {
			ex.Captures, err = capture.ExtractAll(result.Payload(), prepared.captures)
			if err != nil {
				return reportError(formatter, ExitUsageError, err)
			}
		}
		if prepared.validator != nil {
			ex.SchemaViolations, err = prepared.validator.Validate(result.Payload())
			if err != nil {
				return reportError(formatter, ExitSchemaFailure, err)
			}
		}
	}

	formatter.FormatExchange(ex)

	switch {
	case result.Kind() == client.KindNetworkFailure:
		return withExitCode(ExitNetworkError, nil)
	case result.Kind() == client.KindResponseFailure:
		return withExitCode(ExitResponseFailure, nil)
	case len(ex.SchemaViolations) > 0:
		return withExitCode(ExitSchemaFailure, nil)
	}
	return nil
}

type preparedRequest struct {
	url       *neturl.URL
	headers   client.Headers
	body      any
	captures  []capture.Capture
	validator *schema.Validator
}

func prepareRequest(c *client.Client, cfg *config.Config, target string, f *requestFlags) (*preparedRequest, error) {
	params, err := parsePairs(f.query)
	if err != nil {
		return nil, err
	}

	u, err := c.ResolveURL(target, params)
	if err != nil {
		return nil, err
	}
	if err := client.ValidateURL(u.String()); err != nil {
		return nil, fmt.Errorf("%w (pass an absolute URL or set --origin)", err)
	}

	p := &preparedRequest{url: u}

	p.headers, err = requestHeaders(cfg, f.requestID)
	if err != nil {
		return nil, err
	}

	if f.data != "" {
		p.body, err = readBody(f.data)
		if err != nil {
			return nil, err
		}
	}

	for _, def := range f.captures {
		cp, err := capture.ParseCapture(def)
		if err != nil {
			return nil, err
		}
		p.captures = append(p.captures, cp)
	}

	if f.schema != "" {
		p.validator, err = schema.Load(f.schema)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// requestHeaders layers -H flags and the request id over the configured
// defaults. It returns nil when nothing is added so the client defaults apply.
func requestHeaders(cfg *config.Config, requestID bool) (client.Headers, error) {
	extra, err := parseHeaders(headerFlags)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 && !requestID {
		return nil, nil
	}

	headers := client.DefaultHeaders()
	if len(cfg.Headers) > 0 {
		headers = client.Headers{}
		for k, v := range cfg.Headers {
			headers[k] = v
		}
	}
	for k, v := range extra {
		headers[k] = v
	}
	if requestID {
		headers[RequestIDHeader] = uuid.NewString()
	}
	return headers, nil
}

// readBody parses a JSON body given inline or as @file.
func readBody(data string) (any, error) {
	raw := []byte(data)
	if path, ok := strings.CutPrefix(data, "@"); ok {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read body file: %w", err)
		}
	}

	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("request body is not valid JSON: %w", err)
	}
	return body, nil
}

func send(ctx context.Context, c *client.Client, method string, p *preparedRequest) (client.Result[client.JSONObject, client.JSONObject], error) {
	switch method {
	case http.MethodGet:
		return c.GetAsJSON(ctx, p.url, p.headers)
	case http.MethodPost:
		return c.Post(ctx, p.url, p.body, p.headers)
	case http.MethodPut:
		return c.Put(ctx, p.url, p.body, p.headers)
	case http.MethodDelete:
		return c.Delete(ctx, p.url, p.headers)
	default:
		return client.Result[client.JSONObject, client.JSONObject]{}, fmt.Errorf("%w: %s", client.ErrUnsupportedMethod, method)
	}
}
