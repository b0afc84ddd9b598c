package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-portal-api/internal/middleware"
	"github.com/noah-isme/edu-portal-api/internal/models"
)

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*models.JWTClaims, error)
}

// AccessPolicy evaluates the route-level policy gates.
type AccessPolicy interface {
	RequireAdmin(ctx context.Context, caller models.Caller) error
	RequireSelfOrAdmin(ctx context.Context, caller models.Caller, target string) error
}

// Routes bundles what RegisterRoutes mounts.
type Routes struct {
	Auth        TokenValidator
	Access      AccessPolicy
	Courses     *CourseHandler
	Fees        *FeeHandler
	Roles       *RoleHandler
	Profiles    *ProfileHandler
	Enrollments *EnrollmentHandler
	Payments    *PaymentHandler
}

// RegisterRoutes mounts the API on group. Public routes accept an optional token; the rest
// require one. Policy gates run before any payload is bound.
func RegisterRoutes(group *gin.RouterGroup, r Routes) {
	optional := middleware.OptionalJWT(r.Auth)
	required := middleware.JWT(r.Auth)
	admin := middleware.RequireAdmin(r.Access)
	selfOrAdmin := middleware.RequireSelfOrAdmin(r.Access)

	public := group.Group("", optional)
	public.GET("/courses", r.Courses.List)
	public.GET("/courses/subjects", r.Courses.Subjects)
	public.GET("/courses/:id", r.Courses.Get)
	public.GET("/fees", r.Fees.Get)
	public.GET("/me/role", r.Roles.CallerRole)
	public.GET("/me/admin", r.Roles.IsAdmin)

	authed := group.Group("", required)
	authed.GET("/me/profile", r.Profiles.Me)
	authed.PUT("/me/profile", r.Profiles.Save)
	authed.POST("/enrollments", r.Enrollments.Submit)
	authed.POST("/payments", r.Payments.Initiate)

	admins := authed.Group("", admin)
	admins.PUT("/roles/:principal", r.Roles.Assign)
	admins.GET("/courses/:id/enrollments", r.Enrollments.ListByCourse)

	authed.GET("/profiles/:principal", selfOrAdmin, r.Profiles.Get)

	students := authed.Group("/students/:principal", selfOrAdmin)
	students.GET("/enrollments", r.Enrollments.ListByStudent)
	students.GET("/payments", r.Payments.History)
	students.GET("/payments/export", r.Payments.Export)
	students.GET("/payments/:id/status", r.Payments.Status)
	students.POST("/payments/:id/completion", r.Payments.Complete)
}
