package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rana718/forge/internal/apperrors"
	"github.com/Rana718/forge/internal/repositories"
	userschema "github.com/Rana718/forge/internal/schemas/user"
	"github.com/Rana718/forge/internal/security"
)

type UserHandler struct {
	deps  *Deps
	users *repositories.UserRepository
}

func NewUserHandler(deps *Deps) *UserHandler {
	return &UserHandler{deps: deps, users: repositories.NewUserRepository(deps.DB)}
}

// Register mounts /users. GET /users/me only needs a valid credential; every
// other route also requires an active account.
func (h *UserHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/users")
	g.GET("/me", Authenticate(h.deps, false), h.Me)

	active := g.Group("", Authenticate(h.deps, true))
	active.PATCH("/me", h.UpdateMe)
	active.GET("", h.List)
	active.GET("/:id", h.Get)
}

func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, userschema.FromModel(CurrentUser(c)))
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	ctx := c.Request.Context()
	current := CurrentUser(c)

	var in userschema.Update
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(apperrors.Validation(err.Error()))
		return
	}

	changes := in.Changes()
	if in.Password != nil {
		hash, err := security.HashPassword(*in.Password)
		if err != nil {
			_ = c.Error(err)
			return
		}
		changes["hashed_password"] = hash
	}

	if in.Email != nil && *in.Email != current.Email {
		exists, err := h.users.EmailExists(ctx, *in.Email)
		if err != nil {
			_ = c.Error(err)
			return
		}
		if exists {
			_ = c.Error(apperrors.BadRequest("Email already registered"))
			return
		}
	}

	updated, err := h.users.UpdateByID(ctx, current.ID, changes)
	if err != nil {
		_ = c.Error(notFound(err, "User not found"))
		return
	}
	c.JSON(http.StatusOK, userschema.FromModel(updated))
}

func (h *UserHandler) List(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	users, err := h.users.GetAll(c.Request.Context(), page.Skip, page.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, userschema.FromModels(users))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(notFound(err, "User not found"))
		return
	}
	c.JSON(http.StatusOK, userschema.FromModel(user))
}
