package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/haingladys/jsdc-accounting/pkg/logger"
)

const (
	maxLoggedBody = 4 << 10
	redacted      = "[FILTERED]"
)

// Field names are matched as lower-case substrings, so "key" also hides "api_key".
var sensitiveFields = []string{
	"password",
	"token",
	"authorization",
	"secret",
	"key",
	"session",
	"credential",
	"auth",
	"gst_number",
	"cookie",
}

func isSensitive(name string) bool {
	name = strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(name, field) {
			return true
		}
	}
	return false
}

// LoggingMiddleware logs each request and its response through the request
// scoped logger when one is bound, falling back to base.
func LoggingMiddleware(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// RequestID binds request_id into the scoped logger; only the
			// fallback needs it added here.
			log := logger.From(r.Context())
			if log == nil || log == logger.LoggerWrapper() {
				log = base.With("request_id", middleware.GetReqID(r.Context()))
			}

			log.Info("request started",
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				slog.Group("client", "addr", r.RemoteAddr, "agent", r.UserAgent()),
				"headers", redactHeaders(r.Header),
				"body", redactBody(peekBody(r)),
			)

			rec := &recorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			var body string
			if isJSON(rec.Header().Get("Content-Type")) {
				body = redactBody(rec.body.Bytes())
			}
			log.Log(r.Context(), levelFor(rec.status()), "request finished",
				"status", rec.status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", rec.size,
				"body", body,
			)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// peekBody reads a JSON request body and puts it back for the handler.
func peekBody(r *http.Request) []byte {
	if r.Body == nil || !isJSON(r.Header.Get("Content-Type")) {
		return nil
	}
	data, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(data), r.Body), r.Body}
	return data
}

// recorder keeps the status, the size and the first few KB of the response.
type recorder struct {
	http.ResponseWriter
	code int
	size int
	body bytes.Buffer
}

func (rw *recorder) status() int {
	if rw.code == 0 {
		return http.StatusOK
	}
	return rw.code
}

func (rw *recorder) WriteHeader(code int) {
	rw.code = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recorder) Write(b []byte) (int, error) {
	if room := maxLoggedBody - rw.body.Len(); room > 0 {
		rw.body.Write(b[:min(room, len(b))])
	}
	rw.size += len(b)
	return rw.ResponseWriter.Write(b)
}

// Hijack lets the websocket upgrader take over the connection.
func (rw *recorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rw.code = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (rw *recorder) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "application/json")
}

func redactHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			out[name] = redacted
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// redactBody masks sensitive keys at any depth. Bodies that are not valid
// JSON (including truncated ones) are dropped when they mention a sensitive name.
func redactBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		if isSensitive(string(body)) {
			return redacted
		}
		return string(body)
	}

	out, err := json.Marshal(redactValue(doc))
	if err != nil {
		return redacted
	}
	return string(out)
}

func redactValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for key, inner := range val {
			if isSensitive(key) {
				val[key] = redacted
			} else {
				val[key] = redactValue(inner)
			}
		}
		return val
	case []any:
		for i, inner := range val {
			val[i] = redactValue(inner)
		}
		return val
	default:
		return v
	}
}
