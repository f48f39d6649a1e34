package middleware

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/acorvin/shelf/internal/limits"
)

// IdempotencyKeyHeader is the client-supplied replay key header
const IdempotencyKeyHeader = "Idempotency-Key"

// Idempotency returns a middleware that replays stored responses for
// state-mutating requests (POST/PUT/PATCH) bearing an Idempotency-Key
// header. On a cache miss the downstream response is buffered in full,
// stored first-write-wins under the key, and the stored copy is written to
// the caller, so retries always observe byte-identical responses.
func Idempotency(cache *limits.IdempotencyCache, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(IdempotencyKeyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			if stored := cache.Lookup(key); stored != nil {
				logger.Info("replaying idempotent request",
					slog.String("idempotency_key", key),
					slog.String("path", r.URL.Path),
				)
				writeStored(w, stored)
				return
			}

			buf := newBufferedResponse()
			next.ServeHTTP(buf, r)

			// Store may lose a race with a concurrent request on the same
			// key; the winner's response is the one served either way.
			stored := cache.Store(key, buf.snapshot())
			writeStored(w, stored)
		})
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

func writeStored(w http.ResponseWriter, stored *limits.StoredResponse) {
	for k, vs := range stored.Header {
		w.Header()[k] = vs
	}
	w.WriteHeader(stored.StatusCode)
	_, _ = w.Write(stored.Body)
}

// bufferedResponse captures a downstream response in memory so it can be
// stored and replayed
type bufferedResponse struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{
		header: make(http.Header),
		status: http.StatusOK,
	}
}

func (b *bufferedResponse) Header() http.Header {
	return b.header
}

func (b *bufferedResponse) WriteHeader(status int) {
	b.status = status
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	return b.body.Write(p)
}

func (b *bufferedResponse) snapshot() *limits.StoredResponse {
	return &limits.StoredResponse{
		Body:       b.body.Bytes(),
		StatusCode: b.status,
		Header:     b.header.Clone(),
	}
}
