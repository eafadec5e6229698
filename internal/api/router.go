package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/ride-stats/internal/handler"
	"github.com/jengzang/ride-stats/internal/middleware"
)

// SetupRouter wires the preview routes of one ride
func SetupRouter(h *handler.RideHandler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())

	// CORS, read only
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "ridestats preview is running",
		})
	})

	r.GET("/", h.GetMap)
	r.GET("/profile", h.GetProfile)
	r.GET("/route.png", h.GetScatter)

	api := r.Group("/api/v1")
	{
		ride := api.Group("/ride")
		{
			ride.GET("/stats", h.GetStats)
			ride.GET("/points", h.GetPoints)
			ride.GET("/laps", h.GetLaps)
			ride.GET("/rests", h.GetRestStops)
		}
	}

	return r
}
