package api

import (
	"time"

	"court-booking/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"
)

// RequestLogger tags each request with an ID and logs it once finished.
// A client supplied X-Request-ID is kept only when it is a UUID.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := uuid.NewString()
		if id, err := uuid.Parse(c.GetHeader(requestIDHeader)); err == nil {
			requestID = id.String()
		}
		c.Header(requestIDHeader, requestID)

		reqLog := log.WithRequestID(requestID)
		c.Set(loggerKey, reqLog)

		c.Next()

		reqLog.LogHTTPRequest(c, time.Since(start))
	}
}

// requestLogger returns the request scoped logger set by RequestLogger,
// falling back to base.
func requestLogger(c *gin.Context, base *logger.Logger) *logger.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*logger.Logger); ok {
			return l
		}
	}
	return base
}

func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = append(cfg.AllowHeaders, requestIDHeader)
	cfg.ExposeHeaders = []string{requestIDHeader}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
