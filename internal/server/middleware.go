package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
	"git.home.luguber.info/inful/pageloader/internal/logfields"
)

// requestLogger emits one access line per request once the handler returns.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			began := time.Now()
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				logger.LogAttrs(r.Context(), slog.LevelInfo, "HTTP request",
					logfields.Method(r.Method),
					logfields.Path(r.URL.Path),
					logfields.Status(status),
					slog.Int("bytes", ww.BytesWritten()),
					slog.Duration("duration", time.Since(began)),
					logfields.UserAgent(r.UserAgent()),
					logfields.RemoteAddr(r.RemoteAddr),
					logfields.RequestID(middleware.GetReqID(r.Context())))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// recoverer answers a handler panic with a classified 500. Aborted handlers re-panic.
func recoverer(logger *slog.Logger, adapter *derrors.HTTPErrorAdapter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				switch rec {
				case nil:
					return
				case http.ErrAbortHandler:
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "Page handler panicked",
					slog.String("panic", fmt.Sprint(rec)),
					logfields.Method(r.Method),
					logfields.Path(r.URL.Path))
				adapter.WriteErrorResponse(w, r, derrors.InternalError("internal server error").
					WithContext("path", r.URL.Path).
					Build())
			}()
			next.ServeHTTP(w, r)
		})
	}
}
