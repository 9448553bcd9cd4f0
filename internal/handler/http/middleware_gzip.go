package http

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
)

// Responses are compressed by chi's Compress middleware; this file only
// covers gzip encoded request bodies, which chi does not decode.

var gzipReaderPool = sync.Pool{
	New: func() any {
		return new(gzip.Reader)
	},
}

// withGzipRequest transparently decompresses request bodies sent with
// "Content-Encoding: gzip". The reader goes back to the pool when the body is
// closed.
func withGzipRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil || !strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gzipReader := gzipReaderPool.Get().(*gzip.Reader)
		if err := gzipReader.Reset(r.Body); err != nil {
			gzipReaderPool.Put(gzipReader)
			logger.FromRequest(r).Err(err).Str("func", "withGzipRequest").Send()
			writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidJSON, errInvalidGzipBody))
			return
		}

		body := r.Body
		r.Body = &wrappedReadCloser{
			Reader: gzipReader,
			OnClose: func() {
				gzipReader.Close()
				gzipReaderPool.Put(gzipReader)
				body.Close()
			},
		}
		r.Header.Del("Content-Encoding")
		r.ContentLength = -1

		next.ServeHTTP(w, r)
	})
}

type wrappedReadCloser struct {
	io.Reader
	OnClose func()
	once    sync.Once
}

func (w *wrappedReadCloser) Close() error {
	w.once.Do(func() {
		if w.OnClose != nil {
			w.OnClose()
		}
	})
	return nil
}
