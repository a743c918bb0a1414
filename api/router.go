package api

import (
	"court-booking/logger"

	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	CORSOrigins []string
}

// NewRouter wires every booking operation under /api/v1.
func NewRouter(h *Handler, log *logger.Logger, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(CORS(cfg.CORSOrigins))

	r.GET("/health", h.Health)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/reservations", h.Reserve)
		v1.GET("/reservations", h.ListReservations)

		courts := v1.Group("/courts")
		courts.GET("/lights", h.AllLights)
		courts.GET("/:id/reservations", h.CourtReservations)
		courts.DELETE("/:id/reservations", h.Cancel)
		courts.GET("/:id/availability", h.Availability)
		courts.GET("/:id/lights", h.Lighting)
		courts.PUT("/:id/lights/on", h.LightsOn)
		courts.PUT("/:id/lights/off", h.LightsOff)

		v1.GET("/journal", h.Journal)
	}

	return r
}
