package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-portal-api/internal/dto"
	"github.com/noah-isme/edu-portal-api/internal/middleware"
	"github.com/noah-isme/edu-portal-api/internal/models"
	"github.com/noah-isme/edu-portal-api/pkg/response"
)

type profileService interface {
	CallerProfile(ctx context.Context, caller models.Caller) (*models.UserProfile, bool, error)
	Profile(ctx context.Context, caller models.Caller, target string) (*models.UserProfile, bool, error)
	SaveCallerProfile(ctx context.Context, caller models.Caller, profile models.UserProfile) (*models.UserProfile, error)
}

// ProfileHandler exposes user profiles.
type ProfileHandler struct {
	service profileService
}

// NewProfileHandler builds a new handler.
func NewProfileHandler(service profileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Me godoc
// @Summary Get the caller's profile
// @Description Responds with null data and meta.profileSet=false when no profile was saved yet.
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me/profile [get]
func (h *ProfileHandler) Me(c *gin.Context) {
	profile, set, err := h.service.CallerProfile(c.Request.Context(), callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondProfile(c, profile, set)
}

// Save godoc
// @Summary Save the caller's profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SaveProfileRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /me/profile [put]
func (h *ProfileHandler) Save(c *gin.Context) {
	var req dto.SaveProfileRequest
	if err := bindJSON(c, &req, "invalid profile payload"); err != nil {
		response.Error(c, err)
		return
	}
	profile, err := h.service.SaveCallerProfile(c.Request.Context(), callerFromContext(c), models.UserProfile{Name: req.Name})
	if err != nil {
		response.Error(c, err)
		return
	}
	respondProfile(c, profile, true)
}

// Get godoc
// @Summary Get a profile by identity
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Param principal path string true "Identity"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /profiles/{principal} [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, set, err := h.service.Profile(c.Request.Context(), callerFromContext(c), c.Param(middleware.PrincipalParam))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondProfile(c, profile, set)
}

func respondProfile(c *gin.Context, profile *models.UserProfile, set bool) {
	meta := map[string]interface{}{"profileSet": set}
	if !set {
		response.JSON(c, http.StatusOK, nil, meta)
		return
	}
	response.JSON(c, http.StatusOK, profile, meta)
}
