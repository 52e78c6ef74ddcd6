package user

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r gin.IRouter, handler *UserHandler) {
	userGroup := r.Group("api/v1/users")
	{
		userGroup.POST("/register_device", handler.RegisterDevice)
		userGroup.POST("/contacts", handler.UpdateContacts)
		userGroup.GET("/:id", handler.GetProfile)
		userGroup.PATCH("/:id/prevention", handler.TogglePrevention)
	}
}
