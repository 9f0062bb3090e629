package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hotel-backoffice/controllers"
	"hotel-backoffice/middleware"
	"hotel-backoffice/services"
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

func SetupRouter(
	bc *controllers.BookingController,
	cc *controllers.CheckoutController,
	catc *controllers.CategoryController,
	rc *controllers.RoomController,
	sc *controllers.SettingsController,
	ac *controllers.AuthController,
	auth *services.AuthService,
	logger *logrus.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(logger), gin.Recovery())

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
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", ac.Login)
		}

		protected := api.Group("")
		protected.Use(middleware.Auth(auth))
		{
			bookings := protected.Group("/bookings")
			{
				bookings.POST("/book", bc.Book)
				bookings.GET("/all", bc.GetAll)
				bookings.GET("/:id", bc.GetByID)
				bookings.PUT("/update/:id", bc.Update)
				bookings.POST("/extend/:id", bc.Extend)
				bookings.DELETE("/unbook/:id", bc.Unbook)
				bookings.DELETE("/delete/:id", middleware.RequireAdmin(), bc.Delete)
			}

			checkout := protected.Group("/checkout")
			{
				checkout.POST("/:bookingId", cc.Create)
				checkout.GET("/:bookingId", cc.Get)
				checkout.POST("/:bookingId/payment", cc.RecordPayment)
			}

			categories := protected.Group("/categories")
			{
				categories.GET("", catc.List)
				categories.GET("/:id", catc.Get)
				categories.POST("", middleware.RequireAdmin(), catc.Create)
				categories.PUT("/:id/capacity", middleware.RequireAdmin(), catc.UpdateCapacity)
				categories.DELETE("/:id", middleware.RequireAdmin(), catc.Delete)
			}

			rooms := protected.Group("/rooms")
			{
				rooms.GET("", rc.List)
				rooms.POST("", rc.Create)
				rooms.PUT("/:id", rc.Update)
				rooms.PUT("/:id/status", rc.SetStatus)
				rooms.DELETE("/:id", rc.Delete)
			}

			settings := protected.Group("/settings")
			{
				settings.GET("/hotel", sc.Get)
				settings.PUT("/hotel", middleware.RequireAdmin(), sc.Update)
			}
		}
	}

	return r
}
