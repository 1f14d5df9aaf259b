package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oakfield/care-api/internal/handler"
	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/internal/repository"
	"github.com/oakfield/care-api/pkg/auth"
)

const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextUserRole  = "user_role"
)

type AuthMiddleware struct {
	jwtService auth.JWTService
	userRepo   repository.UserRepository
}

func NewAuthMiddleware(jwtService auth.JWTService, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userRepo:   userRepo,
	}
}

// Authenticate verifies the bearer token and sets user info in context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID.String())
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextUserRole, claims.Role)
		c.Next()
	}
}

// RequireCarer rejects family accounts. Carers hold full read/write
// access; family members only reach the routes that opt them in.
func (m *AuthMiddleware) RequireCarer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) != string(model.RoleCarer) {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("carer access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePatientAccess lets carers through unconditionally and family
// members only when a family link to the :id patient exists.
func (m *AuthMiddleware) RequirePatientAccess(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) == string(model.RoleCarer) {
			c.Next()
			return
		}

		userID, err := uuid.Parse(c.GetString(ContextUserID))
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid user ID"))
			c.Abort()
			return
		}
		patientID, err := uuid.Parse(c.Param(param))
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
			c.Abort()
			return
		}

		linked, err := m.userRepo.HasFamilyLink(c.Request.Context(), userID, patientID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to check access"))
			c.Abort()
			return
		}
		if !linked {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("no access to this patient"))
			c.Abort()
			return
		}
		c.Next()
	}
}
