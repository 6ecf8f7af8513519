// Package zilliz implements the unified OpenAPI client for the Zilliz Cloud
// control plane and the per-cluster Milvus data plane. It is the only place
// in the repository that builds HTTP requests against either plane or
// interprets their responses: tool services above it see exactly one outcome
// shape, raw JSON data or an *APIError.
package zilliz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxResponseBytes bounds response reads (10 MiB). Protects against OOM
// from malformed or huge responses.
const maxResponseBytes = 10 << 20

// traceHeader is sent on every request so upstream request logs can be
// correlated with MCP traffic.
const traceHeader = "X-MCP-TRACE"

const defaultTimeout = 30 * time.Second

// Client is the stateless request executor. It holds no per-call state;
// the endpoint cache inside the resolver is the only shared mutable piece,
// and it is a pure memoization.
type Client struct {
	baseURL     string
	http        *http.Client
	timeout     time.Duration
	controlAuth AuthStrategy
	dataAuth    AuthStrategy
	resolver    EndpointResolver
	logger      *slog.Logger
	metrics     *Metrics
	tracer      trace.Tracer
	userAgent   string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests use the
// httptest server's client).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithResolver replaces the data-plane endpoint resolver entirely.
func WithResolver(r EndpointResolver) Option {
	return func(c *Client) { c.resolver = r }
}

// WithEndpointStore backs the default cached resolver with the given store
// instead of a fresh in-memory one.
func WithEndpointStore(s EndpointStore) Option {
	return func(c *Client) { c.resolver = NewCachedResolver(s, c.lookupConnectAddress) }
}

// WithEndpointTemplate resolves data-plane endpoints by filling the given
// template instead of asking the control plane.
func WithEndpointTemplate(template string) Option {
	return func(c *Client) { c.resolver = TemplateResolver{Template: template} }
}

// WithAuth replaces the per-plane credential strategies.
func WithAuth(control, data AuthStrategy) Option {
	return func(c *Client) {
		c.controlAuth = control
		c.dataAuth = data
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger.With("component", "zilliz") }
}

// WithMetrics enables prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithUserAgent overrides the User-Agent header (the CLI injects its
// build version here).
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a Client for the given control-plane base URL and API token.
// The default data-plane resolver caches control-plane describe-cluster
// lookups in memory for the life of the client.
func New(cloudURI, token string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		baseURL:     strings.TrimRight(cloudURI, "/"),
		http:        &http.Client{},
		timeout:     timeout,
		controlAuth: BearerAuth{Token: token},
		dataAuth:    ClusterAuth{Token: token},
		logger:      slog.Default().With("component", "zilliz"),
		tracer:      otel.Tracer("github.com/flemzord/zilliz-mcp/internal/zilliz"),
		userAgent:   "zilliz-mcp/dev",
	}
	c.resolver = NewCachedResolver(NewMemoryStore(), c.lookupConnectAddress)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolver exposes the endpoint resolver for the cache refresh job.
func (c *Client) Resolver() EndpointResolver { return c.resolver }

// Execute performs one remote call described by req and returns the
// envelope's data payload. Every failure is an *APIError; the client never
// retries — retry policy belongs to callers.
func (c *Client) Execute(ctx context.Context, req Request) (json.RawMessage, error) {
	ctx, span := c.tracer.Start(ctx, "zilliz.Execute", trace.WithAttributes(
		attribute.String("zilliz.plane", string(req.Plane)),
		attribute.String("http.method", req.Method),
		attribute.String("url.path", req.Path),
	))
	defer span.End()

	start := time.Now()
	data, err := c.execute(ctx, req)

	outcome := "success"
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			outcome = string(apiErr.Kind)
		} else {
			outcome = "error"
		}
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	}
	if c.metrics != nil {
		c.metrics.observe(req.Plane, outcome, time.Since(start))
	}

	return data, err
}

// Control performs a control-plane call.
func (c *Client) Control(ctx context.Context, method, path string, query Params, body any) (json.RawMessage, error) {
	return c.Execute(ctx, Request{
		Plane:  PlaneControl,
		Method: method,
		Path:   path,
		Query:  query,
		Body:   body,
	})
}

// Data performs a data-plane call against the given cluster.
func (c *Client) Data(ctx context.Context, method, path, clusterID, regionID string, query Params, body any) (json.RawMessage, error) {
	return c.Execute(ctx, Request{
		Plane:     PlaneData,
		Method:    method,
		Path:      path,
		Query:     query,
		Body:      body,
		ClusterID: clusterID,
		RegionID:  regionID,
	})
}

func (c *Client) execute(ctx context.Context, req Request) (json.RawMessage, error) {
	if req.Path == "" || !strings.HasPrefix(req.Path, "/") {
		return nil, fmt.Errorf("zilliz: request path must start with /, got %q", req.Path)
	}
	if req.Method == "" {
		return nil, fmt.Errorf("zilliz: request method is required")
	}

	base, auth, err := c.target(ctx, req)
	if err != nil {
		return nil, err
	}

	url := base + req.Path
	if q := req.Query.Encode(); q != "" {
		url += "?" + q
	}

	var bodyReader io.Reader
	hasBody := req.Body != nil
	if hasBody {
		raw, err := json.Marshal(stripNullKeys(req.Body))
		if err != nil {
			return nil, fmt.Errorf("zilliz: marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, req.Method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("zilliz: create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(traceHeader, "true")
	if hasBody {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	auth.Authorize(httpReq, req.ClusterID)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, transportError(err)
	}

	return classify(resp.StatusCode, respBody)
}

// target resolves the base URL and auth strategy for the request's plane.
// Data-plane calls are aborted here when the cluster id cannot be resolved;
// no data-plane request is ever attempted for an unresolvable cluster.
func (c *Client) target(ctx context.Context, req Request) (string, AuthStrategy, error) {
	switch req.Plane {
	case PlaneControl:
		return c.baseURL, c.controlAuth, nil
	case PlaneData:
		endpoint, err := c.resolver.Resolve(ctx, req.ClusterID, req.RegionID)
		if err != nil {
			return "", nil, err
		}
		if !strings.Contains(endpoint, "://") {
			endpoint = "https://" + endpoint
		}
		return strings.TrimRight(endpoint, "/"), c.dataAuth, nil
	default:
		return "", nil, fmt.Errorf("zilliz: unknown plane %q", req.Plane)
	}
}

// classify turns a raw HTTP outcome into data-or-APIError per the response
// envelope contract.
func classify(status int, body []byte) (json.RawMessage, error) {
	if status < 200 || status > 299 {
		// Best-effort enrichment: if the error body happens to be a valid
		// envelope, surface its message; the classification stays HTTP
		// either way.
		msg := strings.TrimSpace(string(body))
		if env, ok := decodeEnvelope(body); ok && env.Message != "" {
			msg = env.Message
		}
		if msg == "" {
			msg = http.StatusText(status)
		}
		return nil, newAPIError(KindHTTP, msg, int64(status), nil)
	}

	env, ok := decodeEnvelope(body)
	if !ok {
		return nil, newAPIError(KindDecode, "response body is not a valid envelope", 0, nil)
	}

	if !env.ok() {
		return nil, newAPIError(KindBusiness, env.Message, *env.Code, nil)
	}
	return env.Data, nil
}

// transportError maps a network-level failure onto KindTransport. Timeouts
// get the literal message "timeout" so callers and tests can rely on it.
func transportError(err error) *APIError {
	if errors.Is(err, context.DeadlineExceeded) {
		return newAPIError(KindTransport, "timeout", 0, err)
	}
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return newAPIError(KindTransport, "timeout", 0, err)
	}
	return newAPIError(KindTransport, err.Error(), 0, err)
}

// clusterDescription is the subset of the describe-cluster payload the
// resolver needs.
type clusterDescription struct {
	ConnectAddress string `json:"connectAddress"`
}

// lookupConnectAddress asks the control plane for a cluster's connect
// address. It is the default LookupFunc behind the cached resolver.
func (c *Client) lookupConnectAddress(ctx context.Context, clusterID string) (string, error) {
	data, err := c.Control(ctx, http.MethodGet, "/v2/clusters/"+clusterID, nil, nil)
	if err != nil {
		return "", err
	}

	var desc clusterDescription
	if err := json.Unmarshal(data, &desc); err != nil {
		return "", fmt.Errorf("describe cluster %s: %w", clusterID, err)
	}
	return desc.ConnectAddress, nil
}

// stripNullKeys removes map keys whose value is nil, recursively. Some
// upstream handlers treat an explicit null differently from an absent key,
// and "not set" here always means absent.
func stripNullKeys(body any) any {
	m, ok := body.(map[string]any)
	if !ok {
		return body
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		out[k] = stripNullKeys(v)
	}
	return out
}
