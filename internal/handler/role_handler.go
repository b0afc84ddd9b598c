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

type roleService interface {
	CallerRole(ctx context.Context, caller models.Caller) (models.UserRole, error)
	IsAdmin(ctx context.Context, caller models.Caller) (bool, error)
	AssignRole(ctx context.Context, caller models.Caller, target string, role models.UserRole) error
}

// RoleHandler exposes the role registry.
type RoleHandler struct {
	service roleService
}

// NewRoleHandler builds a new handler.
func NewRoleHandler(service roleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// CallerRole godoc
// @Summary Get the caller's role
// @Description Anonymous callers and identities without an assignment get the baseline role.
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /me/role [get]
func (h *RoleHandler) CallerRole(c *gin.Context) {
	caller := callerFromContext(c)
	role, err := h.service.CallerRole(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.RoleResponse{Principal: caller.Principal, Role: string(role)})
}

// IsAdmin godoc
// @Summary Report whether the caller is an admin
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /me/admin [get]
func (h *RoleHandler) IsAdmin(c *gin.Context) {
	admin, err := h.service.IsAdmin(c.Request.Context(), callerFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.AdminResponse{IsAdmin: admin})
}

// Assign godoc
// @Summary Assign a role
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param principal path string true "Target identity"
// @Param payload body dto.AssignRoleRequest true "Role payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /roles/{principal} [put]
func (h *RoleHandler) Assign(c *gin.Context) {
	var req dto.AssignRoleRequest
	if err := bindJSON(c, &req, "invalid role payload"); err != nil {
		response.Error(c, err)
		return
	}
	target := c.Param(middleware.PrincipalParam)
	role := models.UserRole(req.Role)
	if err := h.service.AssignRole(c.Request.Context(), callerFromContext(c), target, role); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.RoleAssignmentResponse{Principal: target, Role: string(role)})
}
