package api

import (
	"log/slog"
	"net/http"

	"parkshare/internal/api/handler"
	"parkshare/internal/api/middleware"
	"parkshare/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Dependencies struct {
	UserService     *service.UserService
	SpotService     *service.SpotService
	BookingService  *service.BookingService
	AuthMiddleware  *middleware.AuthMiddleware
	WSManager       *handler.WebSocketManager
	Logger          *slog.Logger
	CORSAllowOrigin string
}

func SetupRouter(d Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Observability(d.Logger))
	r.Use(middleware.CORS(d.CORSAllowOrigin))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Parking App API is running!"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMw := d.AuthMiddleware
	api := r.Group("/api")

	authH := handler.NewAuthHandler(d.UserService)
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", authH.Register)
		authRoutes.POST("/login", authMw.Authenticate(), authH.Login)
		authRoutes.GET("/me", authMw.Authenticate(), authH.Me)
		authRoutes.DELETE("/logout", authMw.Authenticate(), authH.Logout)
	}

	userH := handler.NewUserHandler(d.UserService)
	userRoutes := api.Group("/users")
	userRoutes.Use(authMw.Authenticate())
	{
		userRoutes.GET("/profile", userH.GetProfile)
		userRoutes.PUT("/profile", userH.UpdateProfile)
		userRoutes.DELETE("/profile", userH.DeleteProfile)
	}

	spotH := handler.NewParkingSpotHandler(d.SpotService)
	spotRoutes := api.Group("/parking-spots")
	{
		spotRoutes.POST("/", authMw.Authenticate(), spotH.CreateSpot)
		spotRoutes.GET("/", spotH.ListSpots)
		spotRoutes.GET("/nearby", spotH.ListNearby)
		spotRoutes.GET("/my-spots", authMw.Authenticate(), spotH.ListMine)
		spotRoutes.GET("/:id", spotH.GetSpot)
		spotRoutes.PUT("/:id", authMw.Authenticate(), spotH.UpdateSpot)
		spotRoutes.DELETE("/:id", authMw.Authenticate(), spotH.DeleteSpot)
	}

	bookingH := handler.NewBookingHandler(d.BookingService)
	bookingRoutes := api.Group("/bookings")
	bookingRoutes.Use(authMw.Authenticate())
	{
		bookingRoutes.POST("/", bookingH.CreateBooking)
		bookingRoutes.GET("/my-bookings", bookingH.ListMine)
		bookingRoutes.GET("/pending-requests", bookingH.ListPendingRequests)
		bookingRoutes.GET("/:id", bookingH.GetBooking)
		bookingRoutes.DELETE("/:id", bookingH.DeleteBooking)
		bookingRoutes.PUT("/:id/approve", bookingH.Approve)
		bookingRoutes.PUT("/:id/reject", bookingH.Reject)
		bookingRoutes.PUT("/:id/cancel", bookingH.Cancel)
	}

	if d.WSManager != nil {
		wsH := handler.NewWebSocketHandler(d.WSManager)
		api.GET("/ws", authMw.AuthenticateWebSocket(), wsH.HandleWebSocket)
	}

	return r
}
