package middleware

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/cams7/cadferias/pkg/composables"
	"github.com/cams7/cadferias/pkg/constants"
	"github.com/cams7/cadferias/pkg/httpapi"
)

const redacted = "[REDACTED]"

type LoggerOptions struct {
	LogRequestBody  bool
	LogResponseBody bool
	MaxBodyLength   int
	// RedactFields are JSON and form keys whose values never reach the log,
	// matched case-insensitively at any depth.
	RedactFields []string
	// RequestIDHeader and RealIPHeader are trusted when a proxy sets them.
	RequestIDHeader string
	RealIPHeader    string
	Repanic         bool
}

func NewLoggerOptions(logRequestBody bool, logResponseBody bool, maxBodyLength int) LoggerOptions {
	return LoggerOptions{
		LogRequestBody:  logRequestBody,
		LogResponseBody: logResponseBody,
		MaxBodyLength:   maxBodyLength,
		RequestIDHeader: "X-Request-ID",
		RealIPHeader:    "X-Real-IP",
	}
}

func DefaultLoggerOptions() LoggerOptions {
	opts := NewLoggerOptions(true, false, 2048)
	opts.RedactFields = []string{"password", "token", "photo"}
	return opts
}

func (o LoggerOptions) redacts(key string) bool {
	for _, f := range o.RedactFields {
		if strings.EqualFold(f, key) {
			return true
		}
	}
	return false
}

// redact walks a decoded JSON value and masks the configured keys.
func (o LoggerOptions) redact(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, child := range v {
			if o.redacts(k) {
				v[k] = redacted
				continue
			}
			v[k] = o.redact(child)
		}
	case []any:
		for i, child := range v {
			v[i] = o.redact(child)
		}
	}
	return v
}

// describeBody renders a logged body. JSON is decoded so the redaction
// applies; anything else is truncated raw text.
func (o LoggerOptions) describeBody(contentType string, body []byte) any {
	if len(body) == 0 {
		return nil
	}
	if strings.Contains(contentType, "application/json") {
		var parsed any
		if err := json.Unmarshal(body, &parsed); err == nil {
			return o.redact(parsed)
		}
	}
	if strings.Contains(contentType, "application/x-www-form-urlencoded") {
		if values, err := url.ParseQuery(string(body)); err == nil {
			out := make(map[string]string, len(values))
			for k, vs := range values {
				if o.redacts(k) {
					out[k] = redacted
					continue
				}
				out[k] = strings.Join(vs, ",")
			}
			return out
		}
	}
	s := string(body)
	if o.MaxBodyLength > 0 && len(s) > o.MaxBodyLength {
		s = s[:o.MaxBodyLength] + "..."
	}
	return s
}

func loggable(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return strings.Contains(contentType, "application/json") ||
		strings.Contains(contentType, "application/x-www-form-urlencoded")
}

type responseCaptureWriter struct {
	http.ResponseWriter
	statusCode    int
	statusWritten bool
	capture       bool
	body          bytes.Buffer
}

func (w *responseCaptureWriter) WriteHeader(code int) {
	if !w.statusWritten {
		w.statusCode = code
		w.statusWritten = true
		w.ResponseWriter.WriteHeader(code)
	}
}

func (w *responseCaptureWriter) Status() int {
	if w.statusCode == 0 {
		return http.StatusOK
	}
	return w.statusCode
}

func (w *responseCaptureWriter) Write(b []byte) (int, error) {
	if !w.statusWritten {
		w.WriteHeader(http.StatusOK)
	}
	if w.capture {
		w.body.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

func (w *responseCaptureWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Hijack keeps websocket upgrades working behind the logger.
func (w *responseCaptureWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, errors.New("underlying ResponseWriter does not implement http.Hijacker")
}

func getRealIP(r *http.Request, header string) string {
	if header != "" {
		if ip := r.Header.Get(header); ip != "" {
			return ip
		}
	}
	return r.RemoteAddr
}

// clientIP prefers the address WithLogger resolved for the request.
func clientIP(r *http.Request) string {
	if params, ok := composables.UseParams(r.Context()); ok && params.IP != "" {
		return params.IP
	}
	return r.RemoteAddr
}

func getRequestID(r *http.Request, header string) string {
	if header != "" {
		if id := r.Header.Get(header); id != "" {
			return id
		}
	}
	return uuid.NewString()
}

var tracer = otel.Tracer("cadferias-middleware")

func TracedMiddleware(name string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracer.Start(
				r.Context(),
				"middleware."+name,
				trace.WithAttributes(
					attribute.String("middleware.name", name),
					attribute.String("http.method", r.Method),
					attribute.String("http.route", r.URL.Path),
				),
			)
			defer span.End()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithLogger opens the request span, puts a request scoped logger and the
// request params on the context, logs the exchange and turns handler panics
// into a JSON 500.
func WithLogger(logger *logrus.Logger, opts LoggerOptions) mux.MiddlewareFunc {
	propagator := propagation.TraceContext{}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := getRequestID(r, opts.RequestIDHeader)
			ip := getRealIP(r, opts.RealIPHeader)

			entry := logger.WithFields(logrus.Fields{
				"request-id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
			})

			reqContentType := r.Header.Get("Content-Type")
			if opts.LogRequestBody && r.Body != nil && r.Method != http.MethodGet && loggable(reqContentType) {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					entry.WithError(err).Warn("failed to read request body")
					_ = httpapi.WriteError(w, r, http.StatusBadRequest, httpapi.ErrCodeBadRequest, "unreadable request body")
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
				entry = entry.WithField("request-body", opts.describeBody(reqContentType, body))
			}

			ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(ctx, "http.request", trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", r.URL.Path),
				attribute.String("http.request_id", requestID),
				attribute.String("net.peer.ip", ip),
			))
			defer span.End()

			if sc := span.SpanContext(); sc.HasTraceID() {
				w.Header().Set("X-Trace-Id", sc.TraceID().String())
				entry = entry.WithField("trace-id", sc.TraceID().String())
			}
			w.Header().Set("X-Request-Id", requestID)
			entry.WithFields(logrus.Fields{"ip": ip, "user-agent": r.UserAgent()}).Info("request started")

			ctx = context.WithValue(ctx, constants.RequestStart, start)
			ctx = composables.WithParams(ctx, &composables.Params{
				IP:        ip,
				UserAgent: r.UserAgent(),
				RequestID: requestID,
				Request:   r,
				Writer:    w,
			})
			ctx = composables.WithLogger(ctx, entry)

			ww := &responseCaptureWriter{ResponseWriter: w, capture: opts.LogResponseBody}
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				entry.WithFields(logrus.Fields{
					"panic":    recovered,
					"stack":    string(debug.Stack()),
					"duration": time.Since(start),
				}).Error("panic recovered in request handler")
				if !ww.statusWritten {
					_ = httpapi.WriteError(ww, r, http.StatusInternalServerError, httpapi.ErrCodeInternal, "internal server error")
				}
				if opts.Repanic {
					panic(recovered)
				}
			}()

			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			duration := time.Since(start)
			span.SetAttributes(
				attribute.Int("http.status_code", status),
				attribute.Int64("http.request_duration_ms", duration.Milliseconds()),
			)
			done := entry.WithFields(logrus.Fields{
				"status-code": status,
				"duration":    duration,
			})
			if respContentType := ww.Header().Get("Content-Type"); opts.LogResponseBody && loggable(respContentType) {
				done = done.WithField("response-body", opts.describeBody(respContentType, ww.body.Bytes()))
			}
			switch {
			case status >= http.StatusInternalServerError:
				done.Error("request completed")
			case status >= http.StatusBadRequest:
				done.Warn("request completed")
			default:
				done.Info("request completed")
			}
		})
	}
}
