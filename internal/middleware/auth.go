package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gachwala/storefront/internal/apperror"
	"github.com/gachwala/storefront/internal/auth"
	"github.com/gachwala/storefront/internal/model"
)

const (
	userIDKey   = "userID"
	userRoleKey = "userRole"
)

var (
	errAdminOnly       = apperror.Forbidden("access denied, admin only")
	errMasterAdminOnly = apperror.Forbidden("access denied, master admin only")
)

// TokenVerifier is satisfied by *auth.TokenManager.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// AuthMiddleware rejects requests without a valid bearer token with 401 and
// stores the verified identity on the context.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abort(c, err)
			return
		}

		identity, err := verifier.Verify(token)
		if err != nil {
			abort(c, err)
			return
		}

		c.Set(userIDKey, identity.UserID)
		c.Set(userRoleKey, identity.Role)
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware. It rejects identities whose role
// fails the gate with 403.
func RequireRole(gate auth.Gate, denied error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !gate(GetUserRole(c)) {
			abort(c, denied)
			return
		}
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireRole(auth.IsAdmin, errAdminOnly)
}

func MasterAdminOnly() gin.HandlerFunc {
	return RequireRole(auth.IsMasterAdmin, errMasterAdminOnly)
}

func GetUserID(c *gin.Context) uuid.UUID {
	id, _ := c.Get(userIDKey)
	uid, _ := id.(uuid.UUID)
	return uid
}

func GetUserRole(c *gin.Context) model.Role {
	role, _ := c.Get(userRoleKey)
	r, _ := role.(model.Role)
	return r
}

func abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperror.KindOf(err).HTTPStatus(), gin.H{"error": apperror.Message(err)})
}
