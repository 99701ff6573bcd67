package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"bizdocs/internal/model"
	"bizdocs/internal/service"
)

const (
	// APIKeyHeader carries the business credential on authenticated routes.
	APIKeyHeader = "x-api-key"
	// businessLocalKey stores the authenticated business in Fiber context locals.
	businessLocalKey = "business"
)

// RequireAPIKey authenticates the x-api-key header against registered
// businesses and stores the resolved business in context locals for the
// downstream handler. Missing or unknown keys get 401.
func RequireAPIKey(bizSvc service.BusinessService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(APIKeyHeader)
		if key == "" {
			return writeError(c, fiber.StatusUnauthorized, "INVALID_API_KEY", "missing api key")
		}

		biz, err := bizSvc.Authenticate(c.UserContext(), key)
		if err != nil {
			if errors.Is(err, service.ErrInvalidAPIKey) {
				return writeError(c, fiber.StatusUnauthorized, "INVALID_API_KEY", "invalid api key")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		c.Locals(businessLocalKey, biz)
		return c.Next()
	}
}

// businessFromCtx extracts the business stored by RequireAPIKey.
func businessFromCtx(c *fiber.Ctx) *model.Business {
	if v := c.Locals(businessLocalKey); v != nil {
		if biz, ok := v.(*model.Business); ok {
			return biz
		}
	}
	return nil
}
