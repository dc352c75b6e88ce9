package mess

import (
	"MessAPI/internal/auth"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts registration on api and the mess and kitchen routes
// on v0. Token management is served by the auth handler under the manager
// group.
func RegisterRoutes(api, v0 *gin.RouterGroup, h *Handler, authMiddleware *auth.Middleware, authHandler *auth.Handler) {
	api.POST("/auth/register", h.Register)

	mess := v0.Group("/mess")
	mess.Use(authMiddleware.RequireSession())
	{
		mess.POST("/validate", h.Validate)

		resident := mess.Group("")
		resident.Use(authMiddleware.RequireRole(auth.RoleResident))
		{
			resident.GET("/calendar", h.GetCalendar)
			resident.GET("/markings", h.GetMarkings)
			resident.PUT("/markings", h.PutMarking)
			resident.POST("/password", h.ChangePassword)
		}

		manager := mess.Group("")
		manager.Use(authMiddleware.RequireRole(auth.RoleManager))
		{
			manager.GET("/hostels", h.GetHostels)
			manager.GET("/count/tomorrow", h.GetTomorrowCount)
			manager.GET("/count/month", h.GetMonthCount)
			manager.GET("/residents", h.GetResidents)
			manager.GET("/report", h.GetReport)
			manager.GET("/export", h.ExportReport)
			auth.RegisterTokenRoutes(manager, authHandler)
		}

		superuser := mess.Group("")
		superuser.Use(authMiddleware.RequireRole(auth.RoleSuperuser))
		{
			superuser.PUT("/hostels", h.PutHostels)
			superuser.POST("/residents", h.PostResident)
			superuser.DELETE("/residents/:admission", h.DeleteResident)
			superuser.POST("/residents/:admission/password", h.ResetPassword)
		}
	}

	kitchen := v0.Group("/kitchen")
	kitchen.Use(authMiddleware.RequireToken())
	{
		kitchen.GET("/tomorrow", h.GetKitchenTomorrow)
	}
}
