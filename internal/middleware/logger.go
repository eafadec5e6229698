package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger logs one line per request: method, path, status, latency and
// response size.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		line := []interface{}{c.Request.Method, path, c.Writer.Status(), time.Since(start), c.Writer.Size()}
		if len(c.Errors) > 0 {
			log.Printf("[HTTP] %s %s %d %v %dB %s", append(line, c.Errors.String())...)
			return
		}
		log.Printf("[HTTP] %s %s %d %v %dB", line...)
	}
}
