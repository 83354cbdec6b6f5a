package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lead-service/internal/api/dto"
	"github.com/spec-kit/lead-service/internal/auth"
	"github.com/spec-kit/lead-service/internal/service"
	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

// SupportHandler exposes the support dashboard's assignment workflow.
type SupportHandler struct {
	assignments *service.AssignmentService
}

// NewSupportHandler constructs handler.
func NewSupportHandler(assignmentService *service.AssignmentService) *SupportHandler {
	return &SupportHandler{assignments: assignmentService}
}

// ListAcceptedLeads GET /support/leads.
func (h *SupportHandler) ListAcceptedLeads(c *fiber.Ctx) error {
	items, err := h.assignments.ListAcceptedLeads(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAcceptedLeadResponses(items)})
}

// ListRealtors GET /support/realtors. ?active=true narrows to active logins.
func (h *SupportHandler) ListRealtors(c *fiber.Ctx) error {
	activeOnly := c.Query("active") == "true"
	realtors, err := h.assignments.ListRealtors(c.Context(), activeOnly)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(realtors)})
}

// AssignLead POST /assignments.
func (h *SupportHandler) AssignLead(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.AssignLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.LeadID == "" || req.RealtorUserID == "" {
		return apperrors.NewValidationError("lead_id and realtor_user_id required", nil)
	}

	assignment, err := h.assignments.AssignLead(c.Context(), principal, req.LeadID, req.RealtorUserID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAssignmentResponse(*assignment)})
}

// SetRealtorActive PATCH /realtors/:id/active.
func (h *SupportHandler) SetRealtorActive(c *fiber.Ctx) error {
	var req dto.SetRealtorActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.assignments.SetRealtorActive(c.Context(), c.Params("id"), req.IsActive); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}
