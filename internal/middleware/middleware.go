package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

func New(logger *zap.Logger) *fiber.App {

	app := fiber.New(
		fiber.Config{
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	)
	app.Use(recover.New())
	app.Use(requestIDMiddleware())
	app.Use(loggerMiddleware(logger))
	return app
}

func requestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(RequestIDHeader, id)
		c.Set(RequestIDHeader, id)
		return c.Next()
	}
}

func loggerMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		logger.Info("Incoming request",
			zap.String("Method", c.Method()),
			zap.String("URL", c.OriginalURL()),
			zap.Any("RequestID", c.Locals(RequestIDHeader)),
		)

		err := c.Next()

		duration := time.Since(start)
		logger.Info("Outgoing response",
			zap.String("Method", c.Method()),
			zap.String("URL", c.OriginalURL()),
			zap.Any("RequestID", c.Locals(RequestIDHeader)),
			zap.ByteString("Response body", c.Response().Body()),
			zap.Int("Status", c.Response().StatusCode()),
			zap.Duration("Duration", duration),
		)
		return err
	}
}
