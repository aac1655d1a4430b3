// Package v1 serves the /api/v1 endpoints.
package v1

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts every v1 handler on api. Generated resource handlers
// are registered here as well, e.g.
//
//	NewPostHandler(deps.DB).Register(api)
func RegisterRoutes(api *gin.RouterGroup, deps *Deps) {
	NewAuthHandler(deps).Register(api)
	NewUserHandler(deps).Register(api)
}
