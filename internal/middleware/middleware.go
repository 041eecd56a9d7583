// Package middleware provides the gin middleware shared by all routes:
// request logging, permissive CORS for Stremio clients, and gzip compression
// for the JSON-heavy catalog and stream replies.
package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"
	"time"

	"github.com/amaumene/gostremiord/pkg/logger"
	"github.com/gin-gonic/gin"
)

// CORS allows any origin. Stremio clients load the addon cross-origin, so
// the API has to answer preflight requests and expose itself without
// restrictions.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Logger writes one line per request with client, method, status, latency
// and path, leveled by response status.
func Logger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		line := []interface{}{c.ClientIP(), c.Request.Method, status, latency, path}

		switch {
		case status >= 500:
			log.Errorf("%s %s %d %v %s", line...)
		case status >= 400:
			log.Warnf("%s %s %d %v %s", line...)
		default:
			log.Infof("%s %s %d %v %s", line...)
		}
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

// Gzip compresses responses for clients that accept it.
func Gzip() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		c.Header("Content-Encoding", "gzip")
		c.Header("Vary", "Accept-Encoding")

		zw := gzip.NewWriter(c.Writer)
		defer zw.Close()

		c.Writer = &gzipWriter{ResponseWriter: c.Writer, zw: zw}
		c.Next()
	}
}
