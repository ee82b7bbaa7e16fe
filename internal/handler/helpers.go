package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/atis-edu/assessment-api/internal/draft"
	"github.com/atis-edu/assessment-api/internal/middleware"
)

func parseInt64Param(c *fiber.Ctx, key string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(c.Params(key)), 10, 64)
}

func parseIntParam(c *fiber.Ctx, key string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(c.Params(key)))
}

func listNameParam(c *fiber.Ctx) (draft.ListName, bool) {
	name := draft.ListName(strings.TrimSpace(c.Params("list")))
	return name, name.Valid()
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
		if id, ok := v.(int); ok {
			if id < 0 {
				return 0
			}
			return uint(id)
		}
	}
	return 0
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}
