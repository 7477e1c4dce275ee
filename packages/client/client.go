package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	neturl "net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

const (
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
	// DefaultCSRFHeader carries the CSRF token on state-changing requests
	DefaultCSRFHeader = "X-CSRF-Token"

	// maxRedirects matches the net/http default.
	maxRedirects = 10
)

// DefaultHeaders returns the headers sent when a call passes none.
func DefaultHeaders() Headers {
	return Headers{
		"Accept":       "application/json",
		"Content-Type": "application/json",
	}
}

type Client struct {
	httpClient     *http.Client
	origin         *neturl.URL
	defaultHeaders Headers
	credentials    Credentials
	csrfToken      string
	csrfHeader     string
	baseURL        func(Params) *neturl.URL
	logger         logrus.FieldLogger

	originRaw   string
	timeout     time.Duration
	transport   http.RoundTripper
	validateSSL bool
	proxyURL    string
	jar         http.CookieJar
}

type Option func(*Client)

// New builds a Client. The configuration is fixed once New returns, so a
// Client may be shared between goroutines.
func New(opts ...Option) *Client {
	c := &Client{
		defaultHeaders: DefaultHeaders(),
		credentials:    CredentialsSameOrigin,
		csrfHeader:     DefaultCSRFHeader,
		logger:         logrus.StandardLogger(),
		validateSSL:    true,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.originRaw != "" {
		origin, err := parseOrigin(c.originRaw)
		if err != nil {
			c.logger.WithError(err).Warn("ignoring invalid client origin")
		} else {
			c.origin = origin
		}
	}

	transport := c.transport
	if transport == nil {
		t := &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        DefaultMaxIdleConns,
			MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
			IdleConnTimeout:     DefaultIdleConnTimeout,
		}

		if !c.validateSSL {
			t.TLSClientConfig = &tls.Config{
				InsecureSkipVerify: true,
			}
		}

		if c.proxyURL != "" {
			proxyURL, err := neturl.Parse(c.proxyURL)
			if err == nil {
				t.Proxy = http.ProxyURL(proxyURL)
			}
		}
		transport = t
	}

	jar := c.jar
	if jar == nil {
		// cookiejar.New always returns a nil error.
		j, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		jar = j
	}

	c.httpClient = &http.Client{
		Transport:     transport,
		Timeout:       c.timeout,
		CheckRedirect: c.checkRedirect,
		Jar: &credentialJar{
			jar:    jar,
			policy: c.credentials,
			origin: c.origin,
		},
	}

	return c
}

// checkRedirect drops the CSRF header on hops the credentials policy does
// not admit. net/http re-copies headers from the first request on every hop,
// so a redirect back to the origin carries the token again.
func (c *Client) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	if !c.credentials.allows(c.origin, req.URL) {
		req.Header.Del(c.csrfHeader)
	}
	return nil
}

// WithOrigin sets the origin the client belongs to, e.g. "https://app.example.com".
// Only scheme and host are kept.
func WithOrigin(origin string) Option {
	return func(c *Client) {
		c.originRaw = origin
	}
}

// WithDefaultHeaders replaces the headers sent when a call passes none.
func WithDefaultHeaders(headers Headers) Option {
	return func(c *Client) {
		c.defaultHeaders = make(Headers, len(headers))
		for k, v := range headers {
			c.defaultHeaders[k] = v
		}
	}
}

func WithDefaultHeader(key, value string) Option {
	return func(c *Client) {
		c.defaultHeaders[key] = value
	}
}

func WithCredentials(policy Credentials) Option {
	return func(c *Client) {
		c.credentials = policy
	}
}

// WithCSRFToken attaches token to POST, PUT and DELETE requests that the
// credentials policy admits.
func WithCSRFToken(token string) Option {
	return func(c *Client) {
		c.csrfToken = token
	}
}

func WithCSRFHeader(name string) Option {
	return func(c *Client) {
		c.csrfHeader = name
	}
}

// WithBaseURLFunc replaces BaseURL, e.g. to target an API host other than
// the client origin.
func WithBaseURLFunc(fn func(Params) *neturl.URL) Option {
	return func(c *Client) {
		c.baseURL = fn
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout bounds each request. Zero, the default, means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithTransport replaces the transport. WithValidateSSL and WithProxy have
// no effect on a replaced transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithValidateSSL enables or disables SSL certificate validation
func WithValidateSSL(validate bool) Option {
	return func(c *Client) {
		c.validateSSL = validate
	}
}

// WithProxy sets the proxy URL for all requests
func WithProxy(proxyURL string) Option {
	return func(c *Client) {
		c.proxyURL = proxyURL
	}
}

// WithCookieJar sets the store credentials are kept in. The credentials
// policy still filters what is read from and written to it.
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.jar = jar
	}
}

// Origin returns a copy of the client origin, or nil if none is set.
func (c *Client) Origin() *neturl.URL {
	if c.origin == nil {
		return nil
	}
	u := *c.origin
	return &u
}

func (c *Client) Credentials() Credentials {
	return c.credentials
}

// BaseURL returns the client origin with params as its query string.
func (c *Client) BaseURL(params Params) *neturl.URL {
	if c.baseURL != nil {
		return c.baseURL(params)
	}
	return OriginURL(c.origin, params)
}

// OriginURL builds the root URL of origin with params as its query string.
// Keys are emitted in sorted order.
func OriginURL(origin *neturl.URL, params Params) *neturl.URL {
	u := &neturl.URL{Path: "/"}
	if origin != nil {
		u.Scheme = origin.Scheme
		u.Host = origin.Host
	}
	if len(params) > 0 {
		q := make(neturl.Values, len(params))
		for k, v := range params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u
}

// ResolveURL resolves ref, a path or an absolute URL, against BaseURL and
// sets params on the result.
func (c *Client) ResolveURL(ref string, params Params) (*neturl.URL, error) {
	parsed, err := neturl.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}

	u := c.BaseURL(nil).ResolveReference(parsed)
	if len(params) > 0 {
		q := u.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u, nil
}

// Request performs one exchange and classifies the outcome. A nil headers
// map sends the default headers; a non-nil map replaces them. A nil body
// sends no body, anything else is sent as JSON.
//
// The returned error is reserved for invalid input. Network and HTTP
// failures are reported through the Result.
func (c *Client) Request(ctx context.Context, method string, u *neturl.URL, headers Headers, body any) (Result[*Response, JSONObject], error) {
	method = strings.ToUpper(method)
	req, err := c.newRequest(ctx, method, u, headers, body)
	if err != nil {
		return Result[*Response, JSONObject]{}, err
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return c.networkFailure(method, u, err), nil
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return c.networkFailure(method, u, err), nil
	}

	respHeaders := make(map[string]string, len(httpResp.Header))
	for k := range httpResp.Header {
		respHeaders[k] = httpResp.Header.Get(k)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    respHeaders,
		Body:       respBody,
		Duration:   time.Since(start),
	}

	if resp.IsSuccess() {
		return Success[*Response, JSONObject](resp), nil
	}
	return ResponseFailure[*Response](NewResponseError[JSONObject](resp)), nil
}

func (c *Client) newRequest(ctx context.Context, method string, u *neturl.URL, headers Headers, body any) (*http.Request, error) {
	if u == nil {
		return nil, ErrNilURL
	}

	switch method {
	case http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}

	target := u.String()
	if err := ValidateURL(target); err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}

	if headers == nil {
		headers = c.defaultHeaders
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if c.csrfToken != "" && method != http.MethodGet && c.credentials.allows(c.origin, u) {
		req.Header.Set(c.csrfHeader, c.csrfToken)
	}

	return req, nil
}

func (c *Client) networkFailure(method string, u *neturl.URL, err error) Result[*Response, JSONObject] {
	// net/http decorates transport errors with the method and URL; keep the
	// transport's own error.
	cause := err
	if urlErr, ok := err.(*neturl.Error); ok && urlErr.Err != nil {
		cause = urlErr.Err
	}

	c.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    u.String(),
	}).WithError(cause).Error("api client error")

	return NetworkFailure[*Response, JSONObject](&NetworkError{
		Message: cause.Error(),
		Err:     cause,
	})
}

// payloadOrDefault decodes a successful JSON object body. Failing statuses,
// empty bodies and anything that is not a JSON object yield an empty object.
func payloadOrDefault(resp *Response) JSONObject {
	if !resp.IsSuccess() {
		return JSONObject{}
	}

	var payload JSONObject
	if err := resp.JSON(&payload); err != nil || payload == nil {
		return JSONObject{}
	}
	return payload
}

func decodePayload(r Result[*Response, JSONObject]) Result[JSONObject, JSONObject] {
	if r.Succeeded() {
		return Success[JSONObject, JSONObject](payloadOrDefault(r.Payload()))
	}
	return passFailure[JSONObject](r)
}

// GetAsJSON issues a GET and decodes a successful body.
func (c *Client) GetAsJSON(ctx context.Context, u *neturl.URL, headers Headers) (Result[JSONObject, JSONObject], error) {
	r, err := c.Request(ctx, http.MethodGet, u, headers, nil)
	if err != nil {
		return Result[JSONObject, JSONObject]{}, err
	}
	return decodePayload(r), nil
}

// Post sends body as JSON and decodes a successful body.
func (c *Client) Post(ctx context.Context, u *neturl.URL, body any, headers Headers) (Result[JSONObject, JSONObject], error) {
	r, err := c.Request(ctx, http.MethodPost, u, headers, body)
	if err != nil {
		return Result[JSONObject, JSONObject]{}, err
	}
	return decodePayload(r), nil
}

// Put sends body as JSON and decodes a successful body.
func (c *Client) Put(ctx context.Context, u *neturl.URL, body any, headers Headers) (Result[JSONObject, JSONObject], error) {
	r, err := c.Request(ctx, http.MethodPut, u, headers, body)
	if err != nil {
		return Result[JSONObject, JSONObject]{}, err
	}
	return decodePayload(r), nil
}

// Delete issues a DELETE. The body of a successful response is not decoded
// and the payload is always nil.
func (c *Client) Delete(ctx context.Context, u *neturl.URL, headers Headers) (Result[JSONObject, JSONObject], error) {
	r, err := c.Request(ctx, http.MethodDelete, u, headers, nil)
	if err != nil {
		return Result[JSONObject, JSONObject]{}, err
	}
	if r.Succeeded() {
		return Success[JSONObject, JSONObject](nil), nil
	}
	return passFailure[JSONObject](r), nil
}

func parseOrigin(raw string) (*neturl.URL, error) {
	u, err := neturl.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid origin: %v", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("origin %q must include a scheme and host", raw)
	}
	return &neturl.URL{Scheme: u.Scheme, Host: u.Host}, nil
}

// ValidateURL checks that a URL is well-formed and uses an allowed scheme
func ValidateURL(rawURL string) error {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}

	// Check for valid scheme
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s (only http and https are allowed)", u.Scheme)
	}

	// Check for valid host
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}

	return nil
}
