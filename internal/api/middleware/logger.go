package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"job-hunt-agent/internal/logging"
	"job-hunt-agent/internal/logging/types"
	"job-hunt-agent/pkg/utils"
)

// RequestLogger logs one line per request through the application logger
func RequestLogger(logger types.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			fields := map[string]interface{}{
				"request_id": GetRequestID(c),
				"method":     req.Method,
				"path":       c.Path(),
				"uri":        req.RequestURI,
				"status":     c.Response().Status,
				"remote_ip":  c.RealIP(),
				"latency":    utils.FormatDuration(time.Since(start)),
			}

			switch {
			case c.Response().Status >= 500:
				logger.Error("Request failed", fields)
			case c.Response().Status >= 400:
				logger.Warn("Request rejected", fields)
			default:
				logger.Info("Request completed", fields)
			}
			return nil
		}
	}
}
