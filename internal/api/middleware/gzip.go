package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
)

// GzipConfig controls response compression.
type GzipConfig struct {
	Level int
	// ExcludedPrefixes are never compressed; streaming routes belong here.
	ExcludedPrefixes []string
}

// DefaultGzipConfig skips the websocket and server-sent event routes.
func DefaultGzipConfig() GzipConfig {
	return GzipConfig{
		Level:            gzip.DefaultCompression,
		ExcludedPrefixes: []string{"/ws", "/ai/chat", "/metrics"},
	}
}

type gzipWriter struct {
	gin.ResponseWriter
	zw *gzip.Writer
}

func (w *gzipWriter) Write(data []byte) (int, error) {
	return w.zw.Write(data)
}

func (w *gzipWriter) WriteString(s string) (int, error) {
	return w.zw.Write([]byte(s))
}

func (w *gzipWriter) WriteHeader(code int) {
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(code)
}

// Gzip compresses responses for clients that accept it.
func Gzip(cfg GzipConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !acceptsGzip(c) || excluded(c.Request.URL.Path, cfg.ExcludedPrefixes) {
			c.Next()
			return
		}

		zw, err := gzip.NewWriterLevel(c.Writer, cfg.Level)
		if err != nil {
			c.Next()
			return
		}

		c.Header("Content-Encoding", "gzip")
		c.Header("Vary", "Accept-Encoding")
		c.Writer = &gzipWriter{ResponseWriter: c.Writer, zw: zw}
		defer func() {
			if s := c.Writer.Status(); s == http.StatusNoContent || s == http.StatusNotModified {
				c.Writer.Header().Del("Content-Encoding")
				return
			}
			_ = zw.Close()
		}()

		c.Next()
	}
}

func acceptsGzip(c *gin.Context) bool {
	if c.GetHeader("Upgrade") != "" {
		return false
	}
	return strings.Contains(c.GetHeader("Accept-Encoding"), "gzip")
}

func excluded(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
