package accident

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r gin.IRouter, handler *AccidentHandler) {
	accidentGroup := r.Group("api/v1/accidents")
	{
		accidentGroup.POST("", handler.ReportAccident)
		accidentGroup.GET("/:id", handler.GetAccident)
		accidentGroup.POST("/:id/cancel", handler.CancelAccident)
		accidentGroup.POST("/:id/trigger", handler.TriggerAlerts)
		accidentGroup.POST("/:id/accept", handler.AcceptEmergency)
	}

	r.GET("api/v1/locate", handler.Locate)
	r.GET("map", handler.LocationMap)
	r.GET("map/:id", handler.AccidentMap)
}
