package api

import (
	"net/http"

	"accident-service/internal/accident"
	"accident-service/internal/middleware"
	"accident-service/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewRouter(logger *zap.SugaredLogger, userHandler *user.UserHandler, accidentHandler *accident.AccidentHandler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(logger), middleware.Recovery(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	user.RegisterRoutes(r, userHandler)
	accident.RegisterRoutes(r, accidentHandler)

	return r
}
