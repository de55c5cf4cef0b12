package middleware

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
)

// ResponseOptimization layers the read-path response treatments: cache
// headers outermost, then conditional ETags, then gzip closest to the
// handler.
func ResponseOptimization(next http.Handler) http.Handler {
	return cacheControl(etagged(compressed(next)))
}

// Level 5 keeps compression near best-ratio at a fraction of the CPU cost.
var gzipPool = sync.Pool{
	New: func() interface{} {
		gz, _ := gzip.NewWriterLevel(io.Discard, 5)
		return gz
	},
}

func compressed(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gz := gzipPool.Get().(*gzip.Writer)
		gz.Reset(w)
		defer func() {
			gz.Close()
			gzipPool.Put(gz)
		}()

		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Del("Content-Length")

		next.ServeHTTP(&gzipWriter{ResponseWriter: w, gz: gz}, r)
	})
}

type gzipWriter struct {
	http.ResponseWriter
	gz *gzip.Writer
}

func (w *gzipWriter) Write(p []byte) (int, error) {
	return w.gz.Write(p)
}

func (w *gzipWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hj, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hj.Hijack()
	}
	return nil, nil, fmt.Errorf("underlying writer does not support hijacking")
}

// etagged buffers GET and HEAD responses, tags successful ones with a body
// digest, and answers If-None-Match revalidations with 304.
func etagged(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		buf := &bufferedResponse{ResponseWriter: w}
		next.ServeHTTP(buf, r)

		if buf.ok() {
			sum := sha256.Sum256(buf.body.Bytes())
			tag := `"` + hex.EncodeToString(sum[:16]) + `"`
			w.Header().Set("ETag", tag)
			if r.Header.Get("If-None-Match") == tag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			// cacheControl owns the route policy; default only when unwrapped
			if w.Header().Get("Cache-Control") == "" {
				w.Header().Set("Cache-Control", "private, must-revalidate")
			}
		}
		buf.release()
	})
}

// bufferedResponse holds the body back until the ETag decision is made.
type bufferedResponse struct {
	http.ResponseWriter
	body       bytes.Buffer
	statusCode int
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	return b.body.Write(p)
}

func (b *bufferedResponse) WriteHeader(statusCode int) {
	b.statusCode = statusCode
}

func (b *bufferedResponse) ok() bool {
	return b.statusCode == 0 || b.statusCode == http.StatusOK
}

// release forwards the buffered status and body to the client.
func (b *bufferedResponse) release() {
	if b.statusCode != 0 {
		b.ResponseWriter.WriteHeader(b.statusCode)
	}
	b.ResponseWriter.Write(b.body.Bytes())
}

// cacheControl stamps client cache policy by route family. Ingredient reads
// tolerate staleness; search responses depend on the pantry in the request
// body and stay uncached downstream.
func cacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/ingredients/suggest"):
			w.Header().Set("Cache-Control", "public, max-age=180, must-revalidate")
		case strings.HasPrefix(r.URL.Path, "/api/ingredients"):
			w.Header().Set("Cache-Control", "public, max-age=600, must-revalidate")
		default:
			w.Header().Set("Cache-Control", "private, no-cache, must-revalidate")
		}
		next.ServeHTTP(w, r)
	})
}
