package zap4echo

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// DefaultRecoverMsg labels a panic caught in the fake oracle endpoint
// oracletest.Server runs, so a test handler's panic surfaces as a log
// line instead of tearing down the whole test binary.
const DefaultRecoverMsg = "recovered from panic in oracle test server"

// Recover returns panic-recovery middleware for the fake oracle
// server. A handler under test is allowed to panic (e.g. to simulate a
// backend crash mid-analysis); Recover turns that into a 500 response
// and a log line instead of failing the whole test process.
func Recover(log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.WithOptions(zap.WithCaller(false))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", rec)
				}
				c.Error(err)

				req := c.Request()
				log.Error(DefaultRecoverMsg,
					zap.Error(err),
					zap.String("method", req.Method),
					zap.String("path", req.RequestURI),
				)
			}()
			return next(c)
		}
	}
}
