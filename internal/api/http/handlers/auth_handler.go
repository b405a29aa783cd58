package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/commerce-kit/backoffice-service/internal/api/dto"
	"github.com/commerce-kit/backoffice-service/internal/auth"
	"github.com/commerce-kit/backoffice-service/internal/domain"
	"github.com/commerce-kit/backoffice-service/internal/service"
	"github.com/commerce-kit/backoffice-service/pkg/util/errorutil"
)

// AuthHandler exposes registration, login and password-change endpoints for
// all principal kinds.
type AuthHandler struct {
	auth     *service.AuthService
	validate *validator.Validate
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService, validate: validator.New()}
}

// RegisterAdmin handles POST /auth/admin/register.
func (h *AuthHandler) RegisterAdmin(c *fiber.Ctx) error {
	var req dto.AdminRegisterRequest
	if err := parseAndValidate(c, h.validate, &req); err != nil {
		return err
	}

	admin, token, exp, err := h.auth.RegisterAdmin(c.Context(), req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"admin": fiber.Map{
				"id":    admin.ID,
				"name":  admin.Name,
				"email": admin.Email,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// LoginAdmin handles POST /auth/admin/login.
func (h *AuthHandler) LoginAdmin(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseAndValidate(c, h.validate, &req); err != nil {
		return err
	}

	admin, token, exp, err := h.auth.LoginAdmin(c.Context(), req.Email, req.Password)
	if err != nil {
		return loginError(err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"admin": fiber.Map{
				"id":    admin.ID,
				"name":  admin.Name,
				"email": admin.Email,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// LoginStaff handles POST /auth/staff/login.
func (h *AuthHandler) LoginStaff(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseAndValidate(c, h.validate, &req); err != nil {
		return err
	}

	staff, token, exp, err := h.auth.LoginStaff(c.Context(), req.Email, req.Password)
	if err != nil {
		return loginError(err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"staff": fiber.Map{
				"id":    staff.ID,
				"name":  staff.Name,
				"email": staff.Email,
				"role":  staff.Role,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// RegisterCustomer handles POST /auth/customers/register.
func (h *AuthHandler) RegisterCustomer(c *fiber.Ctx) error {
	var req dto.CustomerRegisterRequest
	if err := parseAndValidate(c, h.validate, &req); err != nil {
		return err
	}

	customer, token, exp, err := h.auth.RegisterCustomer(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"customer": fiber.Map{
				"id":    customer.ID,
				"name":  customer.Name,
				"email": customer.Email,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// LoginCustomer handles POST /auth/customers/login.
func (h *AuthHandler) LoginCustomer(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseAndValidate(c, h.validate, &req); err != nil {
		return err
	}

	customer, token, exp, err := h.auth.LoginCustomer(c.Context(), req.Email, req.Password)
	if err != nil {
		return loginError(err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"customer": fiber.Map{
				"id":    customer.ID,
				"name":  customer.Name,
				"email": customer.Email,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// ChangePassword handles POST /auth/password/change for any authenticated
// principal. A successful change bumps the subject's token epoch; the
// presented token stops working immediately after.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	subject, err := subjectFromContext(c)
	if err != nil {
		return err
	}

	var req dto.PasswordChangeRequest
	if err := parseAndValidate(c, h.validate, &req); err != nil {
		return err
	}

	if err := h.auth.ChangePassword(c.Context(), subject, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return errorutil.NewUnauthorized("invalid credentials")
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_changed"}})
}

func subjectFromContext(c *fiber.Ctx) (service.AuthSubject, error) {
	if claims, ok := auth.AdminFromContext(c); ok {
		return service.AuthSubject{Kind: auth.KindAdmin, ID: claims.SubjectID}, nil
	}
	if claims, ok := auth.StaffFromContext(c); ok {
		kind := auth.KindAgent
		if claims.Role != nil && *claims.Role == domain.StaffRoleDesigner {
			kind = auth.KindDesigner
		}
		return service.AuthSubject{Kind: kind, ID: claims.SubjectID}, nil
	}
	if claims, ok := auth.CustomerFromContext(c); ok {
		return service.AuthSubject{Kind: auth.KindCustomer, ID: claims.SubjectID}, nil
	}
	return service.AuthSubject{}, errorutil.NewUnauthorized("authentication required")
}

func loginError(err error) error {
	if errors.Is(err, service.ErrInvalidCredentials) {
		return errorutil.NewUnauthorized("invalid credentials")
	}
	return errorutil.MapError(err)
}
