package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Marga-Ghale/org-portal-backend/internal/api/handlers"
	"github.com/Marga-Ghale/org-portal-backend/internal/api/middleware"
	"github.com/Marga-Ghale/org-portal-backend/internal/auth"
	"github.com/Marga-Ghale/org-portal-backend/internal/socket"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds everything the HTTP surface is wired to. WebSocket,
// Gatherer and Health are optional.
type RouterDeps struct {
	Handlers       *handlers.Handlers
	Verifier       *auth.Verifier
	Roles          auth.RoleResolver
	WebSocket      *socket.Handler
	Gatherer       prometheus.Gatherer
	Health         func(ctx context.Context) gin.H
	AllowedOrigins []string
	Log            *zerolog.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(deps.Log))

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "healthy", "timestamp": time.Now()}
		if deps.Health != nil {
			for k, v := range deps.Health(c.Request.Context()) {
				status[k] = v
			}
		}
		code := http.StatusOK
		if status["status"] != "healthy" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	})

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	h := deps.Handlers
	gate := func(capability auth.Capability) gin.HandlerFunc {
		return middleware.RequireCapability(deps.Roles, capability, deps.Log)
	}

	api := r.Group("/api")
	{
		if deps.WebSocket != nil {
			api.GET("/ws", deps.WebSocket.HandleWebSocket)
		}

		protected := api.Group("")
		protected.Use(middleware.Authenticate(deps.Verifier, deps.Log))
		{
			events := protected.Group("/events")
			{
				events.GET("", gate(auth.CapabilityAny), h.Event.List)
				events.POST("", gate(auth.CapabilityElevated), h.Event.Create)
				events.GET("/:eventId", gate(auth.CapabilityAny), h.Event.Get)
				events.DELETE("/:eventId", gate(auth.CapabilityElevated), h.Event.Delete)
				events.GET("/:eventId/attendance", gate(auth.CapabilityElevated), h.Attendance.Attendance)

				events.POST("/rsvp/:eventId", gate(auth.CapabilityAny), h.Attendance.Rsvp)
				events.POST("/unrsvp/:eventId", gate(auth.CapabilityAny), h.Attendance.UnRsvp)
				events.POST("/checkin/:eventId", gate(auth.CapabilityAny), h.Attendance.CheckIn)
				events.POST("/add-member-attending", gate(auth.CapabilityElevated), h.Attendance.AddMemberAttending)
				events.POST("/delete-member-attending", gate(auth.CapabilityElevated), h.Attendance.RemoveMemberAttending)
			}

			members := protected.Group("/members")
			{
				members.GET("/me", gate(auth.CapabilityAny), h.Member.Me)
				members.GET("", gate(auth.CapabilityElevated), h.Member.List)
				members.PATCH("/:memberId/hours", gate(auth.CapabilityElevated), h.Member.AdjustHours)
			}

			protected.PUT("/roles", gate(auth.CapabilityElevated), h.Member.SetRole)
		}
	}

	return r
}
