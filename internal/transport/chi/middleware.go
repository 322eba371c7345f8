package chi

import (
	"context"
	"net/http"
	"sync"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/forumsearch/internal/logger"
)

// wideEvent collects fields that handlers further down the chain attach to
// the single per-request log line.
type wideEvent struct {
	mu     sync.Mutex
	fields []zap.Field
}

type wideEventKey struct{}

// annotate adds fields to the request's wide event. No-op outside one.
func annotate(ctx context.Context, fields ...zap.Field) {
	ev, ok := ctx.Value(wideEventKey{}).(*wideEvent)
	if !ok {
		return
	}
	ev.mu.Lock()
	ev.fields = append(ev.fields, fields...)
	ev.mu.Unlock()
}

func (ev *wideEvent) snapshot() []zap.Field {
	ev.mu.Lock()
	defer ev.mu.Unlock()
	return append([]zap.Field(nil), ev.fields...)
}

// jsonRecoverer turns a handler panic into a 500 JSON error.
// http.ErrAbortHandler is re-raised so the server aborts the connection.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				logger.Error("panic recovered",
					zap.Any("panic", rvr),
					zap.String("path", r.URL.Path),
					zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
					zap.Stack("stacktrace"),
				)
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits one log line per request. Handlers enrich it via
// annotate; the request scoped logger is available through logger.FromContext.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ev := &wideEvent{}
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)
			ctx = context.WithValue(ctx, wideEventKey{}, ev)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			fields := append([]zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.Int("response_bytes", ww.BytesWritten()),
				zap.String("ip", r.RemoteAddr),
			}, ev.snapshot()...)

			switch {
			case ww.Status() >= http.StatusInternalServerError:
				reqLogger.Error("http_request", fields...)
			case r.URL.Path == "/health" || r.URL.Path == "/metrics":
				reqLogger.Debug("http_request", fields...)
			default:
				reqLogger.Info("http_request", fields...)
			}
		})
	}
}
