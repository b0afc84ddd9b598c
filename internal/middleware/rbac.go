package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-portal-api/internal/models"
	"github.com/noah-isme/edu-portal-api/pkg/response"
)

// PrincipalParam is the route parameter naming the identity a request targets.
const PrincipalParam = "principal"

type policyGate interface {
	RequireAdmin(ctx context.Context, caller models.Caller) error
	RequireSelfOrAdmin(ctx context.Context, caller models.Caller, target string) error
}

// RequireAdmin admits admins only. It runs before binding so that non-admins are rejected
// regardless of the request payload.
func RequireAdmin(access policyGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := access.RequireAdmin(c.Request.Context(), CallerFromContext(c)); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSelfOrAdmin admits the identity named by the principal route parameter, or an admin.
func RequireSelfOrAdmin(access policyGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		target := c.Param(PrincipalParam)
		if err := access.RequireSelfOrAdmin(c.Request.Context(), CallerFromContext(c), target); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
