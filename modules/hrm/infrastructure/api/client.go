// Package api talks to the HR REST backend on behalf of the signed-in
// session.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/cams7/cadferias/pkg/composables"
	"github.com/cams7/cadferias/pkg/intl"
)

var tracer = otel.Tracer("cadferias-backend")

var backendDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "cadferias",
	Subsystem: "backend",
	Name:      "request_duration_seconds",
	Help:      "Latency of backend calls by operation and status.",
	Buckets:   prometheus.DefBuckets,
}, []string{"operation", "status"})

type ClientOptions struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logrus.Logger
	// RequestIDHeader is forwarded so backend logs can be correlated.
	RequestIDHeader string
}

type Client struct {
	baseURL         string
	http            *http.Client
	logger          *logrus.Logger
	requestIDHeader string
}

func NewClient(opts ClientOptions) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if opts.RequestIDHeader == "" {
		opts.RequestIDHeader = "X-Request-ID"
	}
	return &Client{
		baseURL:         strings.TrimRight(opts.BaseURL, "/"),
		http:            httpClient,
		logger:          logger,
		requestIDHeader: opts.RequestIDHeader,
	}
}

// Ping reports whether the backend answers at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return errors.Wrap(err, "build ping request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "ping backend")
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return errors.Errorf("backend answered %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Do sends in as JSON and decodes the answer into out. Either may be nil.
func (c *Client) Do(ctx context.Context, operation, method, path string, query url.Values, in, out any) (err error) {
	ctx, span := tracer.Start(ctx, "backend."+operation, trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	))
	defer span.End()

	start := time.Now()
	status := 0
	defer func() {
		backendDuration.WithLabelValues(operation, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	var body io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return errors.Wrapf(err, "%s: encode request", operation)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), body)
	if err != nil {
		return errors.Wrapf(err, "%s: build request", operation)
	}
	req.Header.Set("Accept", "application/hal+json, application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := composables.UseToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if locale, ok := intl.UseLocale(ctx); ok {
		req.Header.Set("Accept-Language", locale.String())
	}
	if requestID := composables.UseRequestID(ctx); requestID != "" {
		req.Header.Set(c.requestIDHeader, requestID)
	}
	propagation.TraceContext{}.Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s: send request", operation)
	}
	defer resp.Body.Close()
	status = resp.StatusCode
	span.SetAttributes(attribute.Int("http.status_code", status))

	if status >= http.StatusBadRequest {
		apiErr := decodeError(resp)
		composables.UseLogger(ctx).WithFields(logrus.Fields{
			"operation": operation,
			"status":    status,
			"exception": apiErr.ExceptionName,
		}).Warn("backend call failed")
		return apiErr
	}
	if out == nil || status == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errors.Wrapf(err, "%s: decode response", operation)
	}
	return nil
}

func decodeError(resp *http.Response) *Error {
	apiErr := &Error{Status: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(raw) == 0 {
		return apiErr
	}
	if err := json.Unmarshal(raw, apiErr); err != nil {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
