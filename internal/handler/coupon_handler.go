package handler

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/tekup-dev/coupon-service/internal/model"
)

// StatusSuccess is the status value carried by every success envelope.
const StatusSuccess = "SUCCESS"

// CouponServiceInterface defines the interface for coupon business logic.
type CouponServiceInterface interface {
	List(ctx context.Context) ([]model.CouponResponse, error)
	GetByID(ctx context.Context, id int64) (*model.CouponResponse, error)
	GetByCode(ctx context.Context, code string) (*model.CouponResponse, error)
	Create(ctx context.Context, req *model.CouponRequest) (*model.CouponResponse, error)
	Update(ctx context.Context, id int64, req *model.CouponRequest) (*model.CouponResponse, error)
	Delete(ctx context.Context, id int64) error
}

// CouponHandler handles HTTP requests for coupon operations. It parses and
// validates input, delegates to the service, and wraps results in the
// success envelope; failures are returned upward to the app error handler.
type CouponHandler struct {
	service   CouponServiceInterface
	validator *validator.Validate
}

// NewCouponHandler creates a new CouponHandler with the given service and validator.
func NewCouponHandler(svc CouponServiceInterface, v *validator.Validate) *CouponHandler {
	return &CouponHandler{service: svc, validator: v}
}

func envelope(results any) model.APIResponse {
	return model.APIResponse{Status: StatusSuccess, Results: results}
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid coupon id")
	}
	return id, nil
}

// ListCoupons handles GET /api/v1/coupons.
func (h *CouponHandler) ListCoupons(c *fiber.Ctx) error {
	coupons, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(envelope(coupons))
}

// GetCouponByID handles GET /api/v1/coupons/:id.
func (h *CouponHandler) GetCouponByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	coupon, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(envelope(coupon))
}

// GetCouponByCode handles GET /api/v1/coupons/code/:code.
func (h *CouponHandler) GetCouponByCode(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "coupon code is required")
	}

	coupon, err := h.service.GetByCode(c.Context(), code)
	if err != nil {
		return err
	}
	return c.JSON(envelope(coupon))
}

// CreateCoupon handles POST /api/v1/coupons.
func (h *CouponHandler) CreateCoupon(c *fiber.Ctx) error {
	var req model.CouponRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return err
	}

	coupon, err := h.service.Create(c.Context(), &req)
	if err != nil {
		return err
	}

	log.Info().Str("code", coupon.Code).Msg("coupon create accepted")
	return c.Status(fiber.StatusCreated).JSON(envelope(coupon))
}

// UpdateCoupon handles PUT /api/v1/coupons/:id.
func (h *CouponHandler) UpdateCoupon(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req model.CouponRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return err
	}

	coupon, err := h.service.Update(c.Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(envelope(coupon))
}

// DeleteCoupon handles DELETE /api/v1/coupons/:id.
func (h *CouponHandler) DeleteCoupon(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.Status(fiber.StatusNoContent).Send(nil)
}
