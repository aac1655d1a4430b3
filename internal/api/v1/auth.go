package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Rana718/forge/internal/apperrors"
	"github.com/Rana718/forge/internal/auth"
	"github.com/Rana718/forge/internal/repositories"
	"github.com/Rana718/forge/internal/schemas/token"
	userschema "github.com/Rana718/forge/internal/schemas/user"
	"github.com/Rana718/forge/internal/security"
)

type AuthHandler struct {
	users    *repositories.UserRepository
	provider auth.Provider
}

func NewAuthHandler(deps *Deps) *AuthHandler {
	return &AuthHandler{users: repositories.NewUserRepository(deps.DB), provider: deps.Auth}
}

func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/auth")
	g.POST("/register", h.RegisterUser)
	g.POST("/login", h.Login)
}

func (h *AuthHandler) RegisterUser(c *gin.Context) {
	ctx := c.Request.Context()

	var in userschema.Create
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(apperrors.Validation(err.Error()))
		return
	}

	exists, err := h.users.EmailExists(ctx, in.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if exists {
		_ = c.Error(apperrors.BadRequest("Email already registered"))
		return
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	user := in.ToModel(hash)
	if err := h.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			err = apperrors.BadRequest("Email already registered")
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, userschema.FromModel(user))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in token.LoginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(apperrors.Validation(err.Error()))
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), in.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			err = apperrors.Unauthorized("Incorrect email or password")
		}
		_ = c.Error(err)
		return
	}
	if !security.VerifyPassword(in.Password, user.HashedPassword) {
		_ = c.Error(apperrors.Unauthorized("Incorrect email or password"))
		return
	}
	if !user.IsActive {
		_ = c.Error(apperrors.Forbidden("Inactive user"))
		return
	}

	subject := strconv.FormatUint(uint64(user.ID), 10)
	access, err := h.provider.CreateAccessToken(subject)
	if err != nil {
		_ = c.Error(err)
		return
	}
	out := token.NewToken(access)

	if refresher, ok := h.provider.(auth.RefreshTokenCreator); ok {
		refresh, err := refresher.CreateRefreshToken(subject)
		if err != nil {
			_ = c.Error(err)
			return
		}
		out = out.WithRefresh(refresh)
	}
	c.JSON(http.StatusOK, out)
}
