package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/commerce-kit/backoffice-service/internal/api/dto"
	"github.com/commerce-kit/backoffice-service/internal/domain"
	"github.com/commerce-kit/backoffice-service/internal/service"
	"github.com/commerce-kit/backoffice-service/pkg/util/errorutil"
)

// CouponHandler exposes admin-side coupon management.
type CouponHandler struct {
	coupons  *service.CouponService
	validate *validator.Validate
}

// NewCouponHandler constructs handler.
func NewCouponHandler(couponService *service.CouponService) *CouponHandler {
	return &CouponHandler{coupons: couponService, validate: validator.New()}
}

// Create handles POST /coupons.
func (h *CouponHandler) Create(c *fiber.Ctx) error {
	var req dto.CouponRequest
	if err := parseAndValidate(c, h.validate, &req); err != nil {
		return err
	}

	coupon, err := h.coupons.CreateCoupon(c.Context(), req.Code, req.DiscountPercentage, req.UsageLimit, req.ExpiresAt)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": couponResponse(coupon)})
}

// List handles GET /coupons.
func (h *CouponHandler) List(c *fiber.Ctx) error {
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 50)

	list, err := h.coupons.ListCoupons(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return errorutil.MapError(err)
	}

	resp := make([]dto.CouponResponse, 0, len(list))
	for i := range list {
		resp = append(resp, couponResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /coupons/:id.
func (h *CouponHandler) Get(c *fiber.Ctx) error {
	coupon, err := h.coupons.GetCoupon(c.Context(), c.Params("id"))
	if err != nil {
		return errorutil.MapError(err)
	}
	return c.JSON(fiber.Map{"data": couponResponse(coupon)})
}

// Update handles PUT /coupons/:id.
func (h *CouponHandler) Update(c *fiber.Ctx) error {
	coupon, err := h.coupons.GetCoupon(c.Context(), c.Params("id"))
	if err != nil {
		return errorutil.MapError(err)
	}

	var req dto.CouponRequest
	if err := parseAndValidate(c, h.validate, &req); err != nil {
		return err
	}

	coupon.Code = req.Code
	coupon.DiscountPercentage = req.DiscountPercentage
	coupon.UsageLimit = req.UsageLimit
	coupon.ExpiresAt = req.ExpiresAt

	if err := h.coupons.UpdateCoupon(c.Context(), coupon); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{"data": couponResponse(coupon)})
}

// Delete handles DELETE /coupons/:id.
func (h *CouponHandler) Delete(c *fiber.Ctx) error {
	if err := h.coupons.DeleteCoupon(c.Context(), c.Params("id")); err != nil {
		return errorutil.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "deleted"}})
}

func couponResponse(coupon *domain.Coupon) dto.CouponResponse {
	return dto.CouponResponse{
		ID:                 coupon.ID,
		Code:               coupon.Code,
		DiscountPercentage: coupon.DiscountPercentage,
		UsageLimit:         coupon.UsageLimit,
		ExpiresAt:          coupon.ExpiresAt,
	}
}
