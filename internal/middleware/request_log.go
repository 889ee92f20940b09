package middleware

import (
	"strconv"
	"time"

	"opsmanual/internal/common"
	"opsmanual/internal/metrics"
	"opsmanual/pkg/logger"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// RequestLogger writes one structured log entry per request and records the
// request in the HTTP metrics. The route template is used as the path label
// so ids do not explode label cardinality.
func RequestLogger() echo.MiddlewareFunc {
	return echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			route := v.RoutePath
			if route == "" {
				route = "unmatched"
			}
			metrics.ObserveHTTPRequest(v.Method, route, strconv.Itoa(v.Status), v.Latency)

			fields := logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Round(time.Microsecond).Seconds() * 1000,
				"request_id": v.RequestID,
			}
			if identity, ok := common.GetIdentityFromContext(c.Request().Context()); ok {
				fields["user_id"] = identity.UserID
				if identity.AirlineID != nil {
					fields["airline_id"] = *identity.AirlineID
				}
			}

			entry := logger.Log.WithFields(fields)
			switch {
			case v.Status >= 500:
				entry.WithError(v.Error).Error("request")
			case v.Status >= 400:
				entry.Warn("request")
			default:
				entry.Info("request")
			}
			return nil
		},
	})
}
