package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/commerce-kit/backoffice-service/internal/api/dto"
	"github.com/commerce-kit/backoffice-service/internal/service"
	"github.com/commerce-kit/backoffice-service/pkg/util/errorutil"
)

// NewsletterHandler exposes the subscription flow.
type NewsletterHandler struct {
	newsletter *service.NewsletterService
	validate   *validator.Validate
}

// NewNewsletterHandler constructs handler.
func NewNewsletterHandler(newsletterService *service.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{newsletter: newsletterService, validate: validator.New()}
}

// Subscribe handles POST /newsletter/subscribe. The verification token is
// returned directly; email delivery is out of scope.
func (h *NewsletterHandler) Subscribe(c *fiber.Ctx) error {
	var req dto.NewsletterSubscribeRequest
	if err := parseAndValidate(c, h.validate, &req); err != nil {
		return err
	}

	token, err := h.newsletter.Subscribe(c.Context(), req.Email)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"data": fiber.Map{"verification_token": token},
	})
}

// Verify handles POST /newsletter/verify.
func (h *NewsletterHandler) Verify(c *fiber.Ctx) error {
	var req dto.NewsletterVerifyRequest
	if err := parseAndValidate(c, h.validate, &req); err != nil {
		return err
	}

	if err := h.newsletter.Verify(c.Context(), req.Token); err != nil {
		if errors.Is(err, service.ErrVerificationToken) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return errorutil.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "verified"}})
}

// Unsubscribe handles POST /newsletter/unsubscribe.
func (h *NewsletterHandler) Unsubscribe(c *fiber.Ctx) error {
	var req dto.NewsletterUnsubscribeRequest
	if err := parseAndValidate(c, h.validate, &req); err != nil {
		return err
	}

	if err := h.newsletter.Unsubscribe(c.Context(), req.Email); err != nil {
		return errorutil.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "unsubscribed"}})
}
