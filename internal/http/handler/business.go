package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"bizdocs/internal/service"
)

// registerRequest is the JSON body accepted by POST /business/register.
type registerRequest struct {
	Name string `json:"name"`
}

// registerResponse is returned on successful registration. The API key is
// shown exactly once here; store it.
type registerResponse struct {
	AccountID    string `json:"account_id"`
	BusinessName string `json:"business_name"`
	APIKey       string `json:"api_key"`
}

// RegisterBusiness handles POST /business/register.
//
// @Summary Register a business
// @Accept json
// @Produce json
// @Param body body registerRequest true "business info"
// @Success 201 {object} registerResponse
// @Router /business/register [post]
func RegisterBusiness(bizSvc service.BusinessService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}

		biz, err := bizSvc.Register(c.UserContext(), req.Name)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNameRequired):
				return writeError(c, fiber.StatusBadRequest, "NAME_REQUIRED", "business name is required")
			case errors.Is(err, service.ErrBusinessExists):
				return writeError(c, fiber.StatusConflict, "BUSINESS_EXISTS", "business already registered")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}

		return c.Status(fiber.StatusCreated).JSON(registerResponse{
			AccountID:    biz.AccountID,
			BusinessName: biz.Name,
			APIKey:       biz.APIKey,
		})
	}
}

// ListBusinesses handles GET /businesses with limit & offset.
//
// @Summary List registered businesses
// @Produce json
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {object} service.BusinessListResult
// @Router /businesses [get]
func ListBusinesses(bizSvc service.BusinessService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := bizSvc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}
