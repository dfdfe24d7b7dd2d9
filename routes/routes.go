package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"frontdesk-backend/controllers"
	"frontdesk-backend/middleware"
	"frontdesk-backend/models"
	"frontdesk-backend/services"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the controllers into the gin engine. Reporting, export
// and the archive trigger are gated to admin/manager; staff creation to
// admin.
func SetupRouter(
	logger *zap.Logger,
	authSvc *services.AuthService,
	ac *controllers.AuthController,
	bc *controllers.BookingController,
	gc *controllers.GuestController,
	sc *controllers.StatsController,
	arc *controllers.ArchiveController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Static("/uploads", "./uploads")

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", ac.Login)
		}

		authed := api.Group("")
		authed.Use(middleware.RequireAuth(authSvc))
		{
			bookings := authed.Group("/bookings")
			{
				bookings.GET("", bc.GetBookings)
				bookings.POST("", bc.CreateBooking)
				bookings.GET("/:id", bc.GetBookingDetails)
				bookings.PATCH("/:id", bc.UpdateBooking)
				bookings.DELETE("/:id", bc.DeleteBooking)
				bookings.PATCH("/:id/status", bc.TransitionStatus)
			}

			guests := authed.Group("/guests")
			{
				guests.GET("", gc.GetGuests)
				guests.GET("/:id", gc.GetGuestByID)
				guests.POST("/:id/document", gc.UploadDocument)
			}

			reporting := authed.Group("/stats")
			reporting.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager))
			{
				reporting.GET("/dashboard", sc.GetDashboard)
				reporting.GET("/revenue", sc.GetRevenue)
				reporting.GET("/occupancy", sc.GetOccupancy)
				reporting.GET("/guests", sc.GetGuestStats)
				reporting.GET("/export/guests", sc.ExportGuests)
			}

			archive := authed.Group("/archive")
			archive.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager))
			{
				archive.POST("/run", arc.RunArchive)
			}

			staff := authed.Group("/staff")
			staff.Use(middleware.RequireRole(models.RoleAdmin))
			{
				staff.POST("", ac.CreateStaff)
			}
		}
	}

	return r
}
