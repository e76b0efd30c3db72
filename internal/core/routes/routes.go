package routes

import (
	"github.com/lance0/RubyRidge/internal/core/container"
	"github.com/lance0/RubyRidge/internal/middleware"
	"github.com/lance0/RubyRidge/pkg/security"

	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes wires the inventory and range-trip surface. Requests
// carrying a valid token get their user attached, anonymous requests pass
// through untouched.
func RegisterPublicRoutes(router *gin.Engine, container *container.Container) {
	router.Use(security.OptionalJWTMiddleware())

	container.LoginHandler.RegisterRoutes(router)
	container.StockHandler.RegisterRoutes(router)
	container.TripHandler.RegisterRoutes(router)
	container.FirearmHandler.RegisterRoutes(router)
	container.UpcHandler.RegisterRoutes(router)
	container.ReportHandler.RegisterRoutes(router)
	container.CsvHandler.RegisterRoutes(router)
}

func RegisterProtectedRoutes(router *gin.Engine, container *container.Container) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())

	container.UserHandler.RegisterRoutes(protectedRoutes)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", middleware.HealthCheckMiddleware())
}
