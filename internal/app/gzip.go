package app

import (
	"compress/gzip"
	"io"
	"net/http"
	"slices"
	"strings"
)

// Response content types worth compressing. PNG payloads are already
// compressed and stay untouched.
var compressibleTypes = []string{"application/json", "text/html"}

type (
	gzipWriter struct {
		http.ResponseWriter
		gzw         *gzip.Writer
		wroteHeader bool
	}

	gzipReader struct {
		r   io.ReadCloser
		gzr *gzip.Reader
	}
)

// WriteHeader decides, based on the Content-Type set by the handler, whether
// the body goes through gzip.
func (gw *gzipWriter) WriteHeader(statusCode int) {
	if !gw.wroteHeader {
		gw.wroteHeader = true
		cType := gw.Header().Get("Content-Type")
		compressible := slices.IndexFunc(compressibleTypes, func(t string) bool {
			return strings.Contains(cType, t)
		})
		if compressible != -1 {
			gw.gzw = gzip.NewWriter(gw.ResponseWriter)
			gw.Header().Set("Content-Encoding", "gzip")
			gw.Header().Del("Content-Length")
		}
	}
	gw.ResponseWriter.WriteHeader(statusCode)
}

func (gw *gzipWriter) Write(b []byte) (int, error) {
	if !gw.wroteHeader {
		gw.WriteHeader(http.StatusOK)
	}
	if gw.gzw != nil {
		return gw.gzw.Write(b)
	}
	return gw.ResponseWriter.Write(b)
}

func (gw *gzipWriter) Close() error {
	if gw.gzw != nil {
		return gw.gzw.Close()
	}
	return nil
}

func (gr gzipReader) Read(p []byte) (n int, err error) {
	return gr.gzr.Read(p)
}

func (gr gzipReader) Close() error {
	return gr.gzr.Close()
}

// gzipMiddleware transparently decompresses gzip request bodies and
// compresses JSON and HTML responses for clients that accept gzip.
func gzipMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			gzr, err := gzip.NewReader(r.Body)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			r.Body = gzipReader{r.Body, gzr}
			defer r.Body.Close()
		}

		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gw := &gzipWriter{ResponseWriter: w}
		defer gw.Close()
		next.ServeHTTP(gw, r)
	})
}
