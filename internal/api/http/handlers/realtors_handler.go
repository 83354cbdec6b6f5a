package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lead-service/internal/api/dto"
	"github.com/spec-kit/lead-service/internal/service"
	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

// RealtorsHandler exposes the sales onboarding surface.
type RealtorsHandler struct {
	onboarding *service.OnboardingService
}

// NewRealtorsHandler constructs handler.
func NewRealtorsHandler(onboardingService *service.OnboardingService) *RealtorsHandler {
	return &RealtorsHandler{onboarding: onboardingService}
}

// Register POST /realtors.
func (h *RealtorsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRealtorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	profile, err := h.onboarding.RegisterRealtor(c.Context(), service.RealtorRegisterInput{
		AgentCode:       req.AgentCode,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		PhoneNumber:     req.PhoneNumber,
		EmailAddress:    req.EmailAddress,
		Brokerage:       req.Brokerage,
		State:           req.State,
		CentralZipCode:  req.CentralZipCode,
		Radius:          req.Radius,
		SignUpCategory:  req.SignUpCategory,
		TeamMembers:     req.TeamMembers,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"profile_id": profile.ID,
			"user_id":    profile.UserID,
		},
	})
}

// List GET /realtors.
func (h *RealtorsHandler) List(c *fiber.Ctx) error {
	listings, err := h.onboarding.ListRealtors(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRealtorListingResponses(listings)})
}
