package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/studio-portal/pkg/logger"
)

// RequestLogger registra cada petición con zerolog. Va después de requestid.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()

		status := c.Response().StatusCode()
		if chainErr != nil {
			if fe, ok := chainErr.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev = ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID))
		if s := GetSession(c); s != nil {
			ev = ev.Str("user_id", s.UserID)
		}
		if err, ok := c.Locals(LocalError).(error); ok {
			ev = ev.Err(err)
		} else if chainErr != nil {
			ev = ev.Err(chainErr)
		}
		ev.Msg("request")
		return chainErr
	}
}
