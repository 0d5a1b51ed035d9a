package server

import (
	"hash/fnv"
	"io"
	"net"
	"net/http"
	"time"

	"vigenere/internal/ctxlog"
)

type statusCapturingResponseWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusCapturingResponseWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusCapturingResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := ctxlog.Get(r.Context())
		l = l.With("method", r.Method, "url", r.URL.String(), "remote_addr", r.RemoteAddr)
		r = r.WithContext(ctxlog.Store(r.Context(), l))

		start := time.Now()
		cw := &statusCapturingResponseWriter{ResponseWriter: w}
		next.ServeHTTP(cw, r)
		dur := time.Since(start)

		l.Info("request completed", "status", cw.status, "bytes", cw.bytes, "duration", dur.String())
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log := ctxlog.Get(r.Context())
				log.Error("recovered panic", "error", err)

				clear(w.Header())
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// antidos lets one request per period through for each bucket of client hosts.
type antidos struct {
	buckets []*time.Ticker
}

func newAntidos(buckets int, period time.Duration) *antidos {
	b := make([]*time.Ticker, buckets)
	for i := range buckets {
		b[i] = time.NewTicker(period)
	}

	return &antidos{
		buckets: b,
	}
}

func (a *antidos) bucket(r *http.Request) int {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return 0
	}
	h := fnv.New64()
	io.WriteString(h, host)
	return int(h.Sum64() % uint64(len(a.buckets)))
}

func (a *antidos) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-a.buckets[a.bucket(r)].C:
		case <-r.Context().Done():
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *antidos) stop() {
	for _, t := range a.buckets {
		t.Stop()
	}
}
