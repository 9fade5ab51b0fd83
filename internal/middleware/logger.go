package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// RequestLogger writes one logrus entry per request. Server errors log at
// error level, client errors at warn, everything else at info. Pair it
// with echo's RequestID middleware to get a request_id field.
func RequestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// let echo's error handler write the response so the status is final
				c.Error(err)
			}

			req, res := c.Request(), c.Response()
			fields := logrus.Fields{
				"method":     req.Method,
				"path":       req.URL.Path,
				"route":      c.Path(),
				"status":     res.Status,
				"latency_ms": time.Since(start).Milliseconds(),
				"remote_ip":  c.RealIP(),
				"bytes_out":  res.Size,
			}
			if id := res.Header().Get(echo.HeaderXRequestID); id != "" {
				fields["request_id"] = id
			}
			if cid, ok := CustomerID(c); ok {
				fields["customer_id"] = cid
			}
			entry := log.WithFields(fields)
			if err != nil {
				entry = entry.WithError(err)
			}
			switch {
			case res.Status >= 500:
				entry.Error("request")
			case res.Status >= 400:
				entry.Warn("request")
			default:
				entry.Info("request")
			}
			return nil
		}
	}
}
