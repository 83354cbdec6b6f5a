package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lead-service/internal/api/dto"
	"github.com/spec-kit/lead-service/internal/auth"
	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/service"
	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

// LeadsHandler covers intake, QA review and admin lead edits.
type LeadsHandler struct {
	service *service.LeadService
}

// NewLeadsHandler constructs handler.
func NewLeadsHandler(leadService *service.LeadService) *LeadsHandler {
	return &LeadsHandler{service: leadService}
}

// CreateLead POST /leads. Public intake form.
func (h *LeadsHandler) CreateLead(c *fiber.Ctx) error {
	var req dto.CreateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	lead, err := h.service.CreateLead(c.Context(), service.LeadCreateInput{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		PhoneNumber:        req.PhoneNumber,
		EmailAddress:       req.EmailAddress,
		PropertyAddress:    req.PropertyAddress,
		City:               req.City,
		State:              req.State,
		ZipCode:            req.ZipCode,
		IsHomeOwner:        req.IsHomeOwner,
		PropertyValue:      req.PropertyValue,
		HasRealtorContract: req.HasRealtorContract,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewLeadResponse(*lead)})
}

// ListLeads GET /leads.
func (h *LeadsHandler) ListLeads(c *fiber.Ctx) error {
	leads, err := h.service.ListLeads(c.Context(), parseLeadQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLeadResponses(leads)})
}

// GetLead GET /leads/:id.
func (h *LeadsHandler) GetLead(c *fiber.Ctx) error {
	lead, err := h.service.GetLead(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLeadResponse(*lead)})
}

// UpdateStatus PATCH /leads/:id/status.
func (h *LeadsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.UpdateLeadStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	lead, err := h.service.SetStatus(c.Context(), principal, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLeadResponse(*lead)})
}

// UpdateRecording PATCH /leads/:id/recording.
func (h *LeadsHandler) UpdateRecording(c *fiber.Ctx) error {
	var req dto.UpdateLeadRecordingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	lead, err := h.service.SetRecording(c.Context(), c.Params("id"), req.Recording)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLeadResponse(*lead)})
}

// Review PATCH /leads/:id/review. Status and recording land in one write.
func (h *LeadsHandler) Review(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.ReviewLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	lead, err := h.service.Review(c.Context(), principal, c.Params("id"), req.Status, req.Recording)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLeadResponse(*lead)})
}

// UpdateLead PUT /leads/:id.
func (h *LeadsHandler) UpdateLead(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.UpdateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	lead, err := h.service.UpdateLead(c.Context(), principal, c.Params("id"), service.LeadUpdateInput{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		PhoneNumber:        req.PhoneNumber,
		EmailAddress:       req.EmailAddress,
		PropertyAddress:    req.PropertyAddress,
		City:               req.City,
		State:              req.State,
		ZipCode:            req.ZipCode,
		IsHomeOwner:        req.IsHomeOwner,
		PropertyValue:      req.PropertyValue,
		HasRealtorContract: req.HasRealtorContract,
		Status:             req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLeadResponse(*lead)})
}

// DeleteLead DELETE /leads/:id. Assignment rows go with it.
func (h *LeadsHandler) DeleteLead(c *fiber.Ctx) error {
	if err := h.service.DeleteLead(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseLeadQuery(c *fiber.Ctx) service.LeadListFilter {
	filter := service.LeadListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.LeadStatus(strings.TrimSpace(part)))
		}
	}
	if q := c.Query("q"); q != "" {
		filter.SearchTerm = &q
	}
	if from := parseTime(c.Query("from")); from != nil {
		filter.SubmittedFrom = from
	}
	if to := parseTime(c.Query("to")); to != nil {
		filter.SubmittedTo = to
	}
	// Listings return the full working set unless the caller asks for a page.
	if limit := parseInt(c.Query("limit"), 0); limit > 0 {
		filter.Limit = limit
		filter.Offset = parseInt(c.Query("offset"), 0)
	}
	return filter
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
