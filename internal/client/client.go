package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vidctl/internal/config"
	"vidctl/internal/ident"
	"vidctl/internal/logging"
	"vidctl/internal/query"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "vidctl api-client"
	maxErrorBody     = 1 << 20
)

// HTTPDoer describes the HTTP client used to reach the API.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Client.
type Options struct {
	BaseURL       string
	Token         string
	ApplicationID ident.ID
	GatewayID     ident.ID
	UserAgent     string
	Timeout       time.Duration
	HTTPClient    HTTPDoer
	Logger        *slog.Logger
	// OnError, when set, sees every error before it is returned.
	OnError func(error)
}

// Client calls the orchestration API on behalf of one application and,
// optionally, one gateway.
type Client struct {
	baseURL       string
	token         string
	applicationID ident.ID
	gatewayID     ident.ID
	userAgent     string
	timeout       time.Duration
	http          HTTPDoer
	logger        *slog.Logger
	onError       func(error)
}

// New validates opts and returns a client.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be an absolute http(s) url", opts.BaseURL)
	}
	c := &Client{
		baseURL:       base,
		token:         opts.Token,
		applicationID: opts.ApplicationID,
		gatewayID:     opts.GatewayID,
		userAgent:     opts.UserAgent,
		timeout:       opts.Timeout,
		http:          opts.HTTPClient,
		logger:        logging.NewComponentLogger(opts.Logger, "client"),
		onError:       opts.OnError,
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	return c, nil
}

// NewFromConfig builds a client from the [api] configuration section.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if err := cfg.RequireAPIToken(); err != nil {
		return nil, err
	}
	opts := Options{
		BaseURL:   cfg.API.BaseURL,
		Token:     cfg.API.Token,
		UserAgent: cfg.API.UserAgent,
		Timeout:   cfg.Timeout(),
		Logger:    logger,
	}
	if id, ok := cfg.ApplicationID(); ok {
		opts.ApplicationID = id
	}
	if id, ok := cfg.GatewayID(); ok {
		opts.GatewayID = id
	}
	return New(opts)
}

// ApplicationID returns the application the client is scoped to.
func (c *Client) ApplicationID() ident.ID { return c.applicationID }

func (c *Client) fail(err error) error {
	if c.onError != nil {
		c.onError(err)
	}
	return err
}

func (c *Client) appPath(format string, args ...any) (string, error) {
	if c.applicationID.IsZero() {
		return "", c.fail(ErrApplicationIDMissing)
	}
	return scopedPath(c.applicationID, format, args...), nil
}

// scopedPath builds a path under the given application.
func scopedPath(app ident.ID, format string, args ...any) string {
	return "/v1/apps/" + app.String() + fmt.Sprintf(format, args...)
}

func (c *Client) gatewayPath(suffix string) (string, error) {
	if c.gatewayID.IsZero() {
		return "", c.fail(ErrGatewayIDMissing)
	}
	return c.appPath("/gateways/%s%s", c.gatewayID, suffix)
}

// request describes one API call.
type request struct {
	method      string
	path        string
	rawQuery    string
	body        []byte
	contentType string
}

func jsonRequest(method, path string, body any) (request, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return request{}, &RequestError{Details: Details{Method: method, Path: path}, Err: fmt.Errorf("encode body: %w", err)}
	}
	return request{method: method, path: path, body: data, contentType: "application/json"}, nil
}

// do performs r and decodes a successful response into out when out is
// not nil.
func (c *Client) do(ctx context.Context, r request, out any) error {
	details := Details{Method: r.method, Path: r.path}
	logger := logging.WithContext(ctx, c.logger).With(logging.Request(r.method, r.path)...)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + r.path
	if r.rawQuery != "" {
		target += "?" + r.rawQuery
	}
	var body io.Reader = http.NoBody
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return c.fail(&RequestError{Details: details, Err: err})
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if id, ok := logging.CorrelationIDFromContext(ctx); ok {
		req.Header.Set("X-Request-ID", id)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug("api request failed", logging.Error(err))
		return c.fail(&RequestError{Details: details, Err: err})
	}
	defer resp.Body.Close()

	details.Status = resp.StatusCode
	logger.Debug("api request finished", logging.Status(resp.StatusCode), logging.Elapsed(time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.fail(&RequestError{Details: details, Err: readAPIError(resp.Body)})
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.fail(&RequestError{Details: details, Err: fmt.Errorf("decode response: %w", err)})
	}
	return nil
}

func readAPIError(r io.Reader) error {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return fmt.Errorf("read error body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ErrEmptyResponse
	}
	apiErr, err := decodeAPIError(data)
	if err != nil {
		return err
	}
	return apiErr
}

func (c *Client) get(ctx context.Context, path, rawQuery string, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, rawQuery: rawQuery}, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	r, err := jsonRequest(method, path, body)
	if err != nil {
		return c.fail(err)
	}
	return c.do(ctx, r, out)
}

func (c *Client) putText(ctx context.Context, path, text string) error {
	return c.do(ctx, request{
		method:      http.MethodPut,
		path:        path,
		body:        []byte(text),
		contentType: "text/plain; charset=utf-8",
	}, nil)
}

func (c *Client) delete(ctx context.Context, path, rawQuery string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: path, rawQuery: rawQuery}, nil)
}

// encodeQuery renders a parameter set, attributing failures to the call.
func (c *Client) encodeQuery(method, path string, values query.Values, err error) (string, error) {
	if err != nil {
		return "", c.fail(&RequestError{Details: Details{Method: method, Path: path}, Err: fmt.Errorf("encode query: %w", err)})
	}
	return values.Encode(), nil
}
