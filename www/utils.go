// Package www holds http helpers shared by the web front-ends.
package www

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// CustomResponseWriter keeps the status code written to a ResponseWriter.
type CustomResponseWriter struct {
	http.ResponseWriter
	Status int
}

func (w *CustomResponseWriter) WriteHeader(statusCode int) {
	w.Status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// Unwrap gives http.ResponseController access to the inner writer, which
// the websocket upgrade needs to hijack the connection.
func (w *CustomResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Hijack forwards to the inner writer.
func (w *CustomResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer can't be hijacked")
	}
	return hj.Hijack()
}

func NilHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func WrapCustomRW(wr http.ResponseWriter) *CustomResponseWriter {
	if cw, ok := wr.(*CustomResponseWriter); ok {
		return cw
	}
	// some handlers never call WriteHeader
	return &CustomResponseWriter{ResponseWriter: wr, Status: http.StatusOK}
}

// Logger logs every request served by handler under name. Requests are
// logged at debug level unless verbose is set.
func Logger(handler http.Handler, name string, verbose bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t0 := time.Now()
		cw := WrapCustomRW(w)
		handler.ServeHTTP(cw, r)

		ev := log.Debug()
		if verbose {
			ev = log.Info()
		}
		ev.Str("handler", name).
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Int("status", cw.Status).
			Str("remote", r.RemoteAddr).
			Str("agent", r.UserAgent()).
			Dur("took", time.Since(t0)).
			Msg("http request")
	})
}
