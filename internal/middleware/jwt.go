package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-portal-api/internal/models"
	"github.com/noah-isme/edu-portal-api/internal/service"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
	"github.com/noah-isme/edu-portal-api/pkg/logger"
	"github.com/noah-isme/edu-portal-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

type tokenValidator interface {
	ValidateToken(tokenString string) (*models.JWTClaims, error)
}

// JWT protects routes by requiring a valid identity token.
func JWT(auth tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthenticated)
			c.Abort()
			return
		}
		if !authenticate(c, auth, header) {
			return
		}
		c.Next()
	}
}

// OptionalJWT attaches the caller when a token is present. Requests without one continue as
// anonymous; a malformed or invalid token is still rejected.
func OptionalJWT(auth tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			attachRequestMeta(c)
			c.Next()
			return
		}
		if !authenticate(c, auth, header) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, auth tokenValidator, header string) bool {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthenticated, "invalid authorization header"))
		c.Abort()
		return false
	}

	claims, err := auth.ValidateToken(strings.TrimSpace(parts[1]))
	if err != nil {
		response.Error(c, err)
		c.Abort()
		return false
	}

	c.Set(ContextUserKey, claims)
	c.Set(logger.PrincipalKey, claims.Principal)
	attachRequestMeta(c)
	return true
}

func attachRequestMeta(c *gin.Context) {
	ctx := service.WithRequestMeta(c.Request.Context(), service.RequestMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	c.Request = c.Request.WithContext(ctx)
}

// CallerFromContext returns the caller attached by JWT or OptionalJWT. Requests without a
// verified token yield the anonymous caller.
func CallerFromContext(c *gin.Context) models.Caller {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return models.Caller{}
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok || claims == nil {
		return models.Caller{}
	}
	return models.Caller{Principal: claims.Principal}
}
