package auth

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the login and session routes
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, middleware *Middleware) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", handler.Login)
		auth.POST("/logout", handler.Logout)

		sessionProtected := auth.Group("")
		sessionProtected.Use(middleware.RequireSession())
		{
			sessionProtected.GET("/me", handler.Me)
		}
	}
}

// RegisterTokenRoutes registers kitchen token management under rg, which
// must already require a manager session
func RegisterTokenRoutes(rg *gin.RouterGroup, handler *Handler) {
	tokens := rg.Group("/tokens")
	{
		tokens.GET("", handler.ListTokens)
		tokens.POST("", handler.CreateToken)
		tokens.DELETE("/:id", handler.RevokeToken)
	}
}
