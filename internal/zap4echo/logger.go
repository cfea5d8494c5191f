package zap4echo

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// DefaultLoggerMsg labels every access-log line this middleware emits;
// oracletest.New uses it to log requests against the fake LVM endpoint
// the way a real oracle backend's own gateway would.
const DefaultLoggerMsg = "oracle request served"
const DefaultRequestIDHeader = echo.HeaderXRequestID

// Logger returns access-log middleware for the fake oracle server
// (pkg/ecg/oracletest). Unlike a general-purpose echo logger, this
// carries no configuration surface: the test server never needs to
// skip requests, rename the message, or add custom fields, so none of
// that is here to get out of sync.
func Logger(log *zap.Logger) echo.MiddlewareFunc {
	log = log.WithOptions(zap.WithCaller(false))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			herr := next(c)
			if herr != nil {
				c.Error(herr)
			}

			resp := c.Response()
			req := c.Request()
			latency := time.Since(start)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", req.RequestURI),
				zap.Int("status", resp.Status),
				zap.Duration("latency", latency),
			}
			if requestID := requestID(req, resp); requestID != "" {
				fields = append(fields, zap.String("request_id", requestID))
			}
			if herr != nil {
				fields = append(fields, zap.Error(herr))
			}

			switch {
			case resp.Status >= 500:
				log.Error(DefaultLoggerMsg, fields...)
			case resp.Status >= 400:
				log.Warn(DefaultLoggerMsg, fields...)
			default:
				log.Info(DefaultLoggerMsg, fields...)
			}

			// c.Error already recorded herr; echo must not report it again.
			return nil
		}
	}
}

func requestID(req *http.Request, resp *echo.Response) string {
	id := req.Header.Get(DefaultRequestIDHeader)
	if id == "" {
		id = resp.Header().Get(DefaultRequestIDHeader)
	}
	return id
}
