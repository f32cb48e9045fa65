package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fakturi-api/pkg/logger"
)

// AccessLog registra cada petición con zerolog: método, ruta, estado, latencia y request id.
func AccessLog(log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// el ErrorHandler escribe la respuesta; aquí solo se mide
			_ = c.App().ErrorHandler(c, err)
		}
		status := c.Response().StatusCode()
		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		rid, _ := c.Locals("requestid").(string)
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", rid).
			Str("user_id", GetUserID(c)).
			Msg("request")
		return nil
	}
}
