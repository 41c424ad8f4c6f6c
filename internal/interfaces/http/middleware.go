package httpinterface

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

func newRequestID() string {
	return uuid.New().String()
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// logRequest resolves handler errors into a response before logging, so that
// the logged status is the one sent to the client.
func logRequest(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		if err := next(c); err != nil {
			c.Error(err)
		}

		req := c.Request()
		log.WithFields(log.Fields{
			"request_id": requestID(c),
			"method":     req.Method,
			"path":       req.URL.Path,
			"status":     c.Response().Status,
			"elapsed":    time.Since(start).String(),
		}).Debug("rest request")
		return nil
	}
}
