package v1

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Rana718/forge/internal/apperrors"
	"github.com/Rana718/forge/internal/auth"
	"github.com/Rana718/forge/internal/config"
	"github.com/Rana718/forge/internal/models"
	"github.com/Rana718/forge/internal/repositories"
)

// Deps are the shared dependencies handlers are built from.
type Deps struct {
	DB       *gorm.DB
	Settings *config.Settings
	Auth     auth.Provider
	Log      *zap.Logger
}

const currentUserKey = "current_user"

// Authenticate resolves the bearer credential to a user and stores it on the
// context. With activeOnly, inactive users are rejected with 403.
func Authenticate(deps *Deps, activeOnly bool) gin.HandlerFunc {
	users := repositories.NewUserRepository(deps.DB)

	return func(c *gin.Context) {
		user, err := currentUser(c, deps.Auth, users)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		if activeOnly && !user.IsActive {
			_ = c.Error(apperrors.Forbidden("Inactive user"))
			c.Abort()
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context, provider auth.Provider, users *repositories.UserRepository) (*models.User, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, apperrors.Unauthorized("Not authenticated")
	}

	parts := strings.Fields(header)
	if len(parts) != 2 {
		return nil, apperrors.Unauthorized("Invalid authorization header")
	}
	if !strings.EqualFold(parts[0], "bearer") {
		return nil, apperrors.Unauthorized("Invalid authentication scheme")
	}

	payload, err := provider.VerifyToken(parts[1])
	if err != nil {
		return nil, err
	}
	if payload.Subject == "" {
		return nil, apperrors.Unauthorized("Invalid token payload")
	}
	id, err := strconv.ParseUint(payload.Subject, 10, 64)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid token payload")
	}

	user, err := users.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Unauthorized("User not found")
		}
		return nil, err
	}
	return user, nil
}

// CurrentUser returns the user stored by Authenticate.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(currentUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
