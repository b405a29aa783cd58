package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/commerce-kit/backoffice-service/internal/api/dto"
	"github.com/commerce-kit/backoffice-service/internal/domain"
	"github.com/commerce-kit/backoffice-service/internal/repository"
	"github.com/commerce-kit/backoffice-service/internal/service"
	"github.com/commerce-kit/backoffice-service/pkg/util/errorutil"
)

// StaffHandler exposes admin-side staff management and presence reads.
type StaffHandler struct {
	staff    *service.StaffService
	validate *validator.Validate
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{staff: staffService, validate: validator.New()}
}

// Create handles POST /staff.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var req dto.StaffCreateRequest
	if err := parseAndValidate(c, h.validate, &req); err != nil {
		return err
	}

	staff, err := h.staff.CreateStaff(c.Context(), req.Name, req.Email, req.Password, domain.StaffRole(req.Role), req.CommissionPercentage)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": staffResponse(staff)})
}

// List handles GET /staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	filter := parseStaffFilter(c)
	list, err := h.staff.ListStaff(c.Context(), filter)
	if err != nil {
		return errorutil.MapError(err)
	}

	resp := make([]dto.StaffResponse, 0, len(list))
	for i := range list {
		resp = append(resp, staffResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /staff/:id.
func (h *StaffHandler) Get(c *fiber.Ctx) error {
	staff, err := h.staff.GetStaff(c.Context(), c.Params("id"))
	if err != nil {
		return errorutil.MapError(err)
	}
	return c.JSON(fiber.Map{"data": staffResponse(staff)})
}

// Update handles PUT /staff/:id.
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	var req dto.StaffUpdateRequest
	if err := parseAndValidate(c, h.validate, &req); err != nil {
		return err
	}

	update := service.StaffUpdate{
		Name:                 req.Name,
		Email:                req.Email,
		CommissionPercentage: req.CommissionPercentage,
	}
	if req.Role != nil {
		role := domain.StaffRole(*req.Role)
		update.Role = &role
	}

	staff, err := h.staff.UpdateStaff(c.Context(), c.Params("id"), update)
	if err != nil {
		return errorutil.MapError(err)
	}
	return c.JSON(fiber.Map{"data": staffResponse(staff)})
}

// Presence handles GET /staff/presence: the live view from the in-memory
// registry, which realtime observers re-query after a status broadcast.
func (h *StaffHandler) Presence(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.PresenceResponse{Online: h.staff.OnlineStaffIDs()}})
}

func parseStaffFilter(c *fiber.Ctx) repository.StaffFilter {
	var filter repository.StaffFilter
	if roleStr := c.Query("role"); roleStr != "" {
		role := domain.StaffRole(roleStr)
		filter.Role = &role
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.StaffStatus(statusStr)
		filter.Status = &status
	}
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 50)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseIntQuery(c *fiber.Ctx, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}

func staffResponse(staff *domain.Staff) dto.StaffResponse {
	return dto.StaffResponse{
		ID:                   staff.ID,
		Name:                 staff.Name,
		Email:                staff.Email,
		Role:                 staff.Role,
		CommissionPercentage: staff.CommissionPercentage,
		Status:               staff.Status,
	}
}
