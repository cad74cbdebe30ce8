package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/budyakovan/shift-tracker-bot/config"
	"github.com/budyakovan/shift-tracker-bot/internal/api/handler"
	"github.com/budyakovan/shift-tracker-bot/internal/api/middleware"
	"github.com/budyakovan/shift-tracker-bot/internal/service"
	"github.com/budyakovan/shift-tracker-bot/pkg/jwt"
)

// Setup builds the gin engine with all routes and middleware.
func Setup(cfg *config.Config, h *handler.Handler, svc *service.Service, jwtMgr *jwt.Manager, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// no auth required
		v1.POST("/auth/login", h.Auth.Login)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, svc.Auth))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// users
			users := authorized.Group("/users")
			{
				users.GET("", h.Group.ListUsers)
				users.PUT("", middleware.RoleAuth("admin"), h.Group.UpsertUser)
				users.PUT("/:id/password", middleware.RoleAuth("admin"), h.Auth.SetPassword)
			}

			// time profiles
			profiles := authorized.Group("/profiles")
			{
				profiles.GET("", h.Group.ListProfiles)
				profiles.GET("/:key", h.Group.GetProfile)
				profiles.PUT("", middleware.RoleAuth("admin"), h.Group.SaveProfile)
				profiles.DELETE("/:key", middleware.RoleAuth("admin"), h.Group.DeleteProfile)
			}

			// rotation groups
			groups := authorized.Group("/groups")
			{
				groups.GET("", h.Group.ListGroups)
				groups.GET("/:key", h.Group.GetGroup)
				groups.PUT("", middleware.RoleAuth("admin"), h.Group.SaveGroup)
				groups.DELETE("/:key", middleware.RoleAuth("admin"), h.Group.DeleteGroup)

				groups.GET("/:key/members", h.Group.ListMembers)
				groups.POST("/:key/members", middleware.RoleAuth("admin"), h.Group.AddMember)
				groups.DELETE("/:key/members/:id", middleware.RoleAuth("admin"), h.Group.RemoveMember)

				groups.GET("/:key/ranks", h.Duty.ListRanks)
				groups.PUT("/:key/ranks", middleware.RoleAuth("admin"), h.Duty.SetRank)

				groups.GET("/:key/schedule", h.Schedule.OnShift)
				groups.GET("/:key/schedule/preview", h.Schedule.Preview)
				groups.GET("/:key/members/:id/slot", h.Schedule.ResolveSlot)
			}

			// duty catalog and assignment
			duties := authorized.Group("/duties")
			{
				duties.GET("", h.Duty.ListDuties)
				duties.POST("", middleware.RoleAuth("admin"), h.Duty.CreateDuty)
				duties.PUT("/:id", middleware.RoleAuth("admin"), h.Duty.UpdateDuty)
				duties.DELETE("/:id", middleware.RoleAuth("admin"), h.Duty.DeleteDuty)

				duties.POST("/assign", middleware.RoleAuth("admin"), h.Duty.Assign)
				duties.GET("/assignments", h.Duty.ListAssignments)
			}

			// exclusions
			exclusions := authorized.Group("/exclusions")
			{
				exclusions.GET("", h.Duty.ListExclusions)
				exclusions.POST("", middleware.RoleAuth("admin"), h.Duty.AddExclusion)
				exclusions.DELETE("/:id", middleware.RoleAuth("admin"), h.Duty.RemoveExclusion)
			}

			// locations and calendar
			locations := authorized.Group("/locations")
			{
				locations.GET("", h.Location.List)
				locations.GET("/report", h.Location.Report)
				locations.POST("/assign", middleware.RoleAuth("admin"), h.Location.Assign)
			}
			authorized.PUT("/calendar", middleware.RoleAuth("admin"), h.Location.SetHoliday)

			// exports
			export := authorized.Group("/export")
			{
				export.GET("/office-report", h.Export.OfficeReport)
				export.GET("/calendar", h.Export.MemberCalendar)
			}
		}
	}

	return r
}
