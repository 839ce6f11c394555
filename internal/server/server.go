package server

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vkarpenko/venuebook/config"
	"github.com/vkarpenko/venuebook/internal/handlers"
	"github.com/vkarpenko/venuebook/internal/middleware"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	r := NewRouter(db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

// NewRouter builds the engine with all routes wired to the given database.
func NewRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.DatabaseMiddleware(db))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "venuebook api")
	})
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	r.Static("/uploads", "./uploads")

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", handlers.Login)
			auth.POST("/register", handlers.Register)
			auth.POST("/change-password", middleware.JWTAuthMiddleware(), handlers.ChangePassword)
		}

		addresses := api.Group("/addresses")
		{
			addresses.GET("", handlers.ListAddresses)
			addresses.GET("/cities", handlers.ListCities)
			addresses.GET("/search", handlers.SearchAddresses)
			addresses.GET("/:id", handlers.GetAddress)
			addresses.POST("", middleware.JWTAuthMiddleware(), handlers.CreateAddress)
			addresses.PUT("/:id", middleware.JWTAuthMiddleware(), handlers.UpdateAddress)
			addresses.DELETE("/:id", middleware.JWTAuthMiddleware(), handlers.DeleteAddress)
		}

		places := api.Group("/places")
		{
			places.GET("", handlers.ListPlaces)
			places.GET("/popular", handlers.PopularPlaces)
			places.GET("/search", handlers.SearchPlaces)
			places.GET("/:id", handlers.GetPlace)
			places.POST("", middleware.JWTAuthMiddleware(), handlers.CreatePlace)
			places.PUT("/:id", middleware.JWTAuthMiddleware(), handlers.UpdatePlace)
			places.DELETE("/:id", middleware.JWTAuthMiddleware(), handlers.DeletePlace)

			places.GET("/:id/reviews", handlers.ListReviews)
			places.POST("/:id/reviews", middleware.JWTAuthMiddleware(), handlers.AddReview)
		}

		applications := api.Group("/applications")
		{
			applications.GET("", handlers.ListApplications)
			applications.GET("/stats", handlers.ApplicationStats)
			applications.GET("/my", middleware.JWTAuthMiddleware(), handlers.ListMyApplications)
			applications.GET("/my/full", middleware.JWTAuthMiddleware(), handlers.ListMyApplicationsFull)
			applications.POST("/validate-pass", middleware.JWTAuthMiddleware(), handlers.ValidateBookingPass)
			applications.GET("/:id", handlers.GetApplication)
			applications.GET("/:id/full", handlers.GetApplicationFull)
			applications.GET("/:id/qr", middleware.JWTAuthMiddleware(), handlers.GenerateBookingPass)
			applications.POST("", middleware.JWTAuthMiddleware(), handlers.CreateApplication)
			applications.PUT("/:id", middleware.JWTAuthMiddleware(), handlers.UpdateApplication)
			applications.DELETE("/:id", middleware.JWTAuthMiddleware(), handlers.DeleteApplication)
		}

		users := api.Group("/users")
		{
			users.GET("", handlers.ListUsers)
			users.GET("/search", handlers.SearchUsers)
			users.GET("/by-role/:roleId", handlers.ListUsersByRole)
			users.GET("/me", middleware.JWTAuthMiddleware(), handlers.GetMe)
			users.GET("/:id", handlers.GetUser)
			users.PUT("/:id", middleware.JWTAuthMiddleware(), handlers.UpdateUser)
			users.PUT("/:id/role", middleware.JWTAuthMiddleware(), handlers.ChangeUserRole)
			users.DELETE("/:id", middleware.JWTAuthMiddleware(), handlers.DeleteUser)
		}

		profile := api.Group("/user")
		profile.Use(middleware.JWTAuthMiddleware())
		{
			profile.GET("/favorites", handlers.ListFavorites)
			profile.POST("/favorites/:placeId", handlers.AddFavorite)
			profile.DELETE("/favorites/:placeId", handlers.RemoveFavorite)
			profile.GET("/favorites/:placeId/check", handlers.CheckFavorite)
			profile.GET("/view-history", handlers.ListViewHistory)
			profile.POST("/view-history/:placeId", handlers.AddViewHistory)
			profile.DELETE("/view-history", handlers.ClearViewHistory)
		}

		photos := api.Group("/photos")
		photos.Use(middleware.JWTAuthMiddleware())
		{
			photos.POST("", handlers.CreatePhoto)
			photos.POST("/upload", handlers.UploadPhoto)
		}

		api.GET("/equipments", handlers.ListEquipments)
		api.GET("/characteristics", handlers.ListCharacteristics)
		api.GET("/services", handlers.ListServices)
		api.GET("/statuses", handlers.ListStatuses)
		api.GET("/events", handlers.ListEvents)
		api.GET("/events/:id", handlers.GetEvent)
		api.GET("/events-type", handlers.ListEventTypes)
	}

	return r
}
