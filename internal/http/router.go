package api

import (
	"log"
	stdhttp "net/http"

	intconfig "evbus/internal/config"
	"evbus/internal/domain"
	h "evbus/internal/http/handlers"
	"evbus/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, hd *h.Handler) *gin.Engine {
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}
	if hd.Upgrader == nil {
		hd.Upgrader = h.NewUpgrader(env.CORSAllowedOrigins)
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route tidak ditemukan",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	auth := middleware.Auth([]byte(env.JWTSecret))
	staff := middleware.RequireRole(domain.RoleAgent)
	driver := middleware.RequireRole(domain.RoleDriver)

	api := r.Group("/api")
	{
		api.GET("/health", hd.Health)
		api.GET("/db-check", hd.DBCheck)
		api.GET("/routes", hd.Routes)

		// Schedules (public reads)
		schedules := api.Group("/schedules")
		schedules.GET("", hd.ListSchedules)
		schedules.GET("/:id/seats", hd.ScheduleSeats)
		schedules.POST("/:id/selection", hd.ToggleSelection)
		schedules.POST("/:id/quote", hd.ScheduleQuote)
		schedules.POST("/:id/checkout", auth, hd.RiderCheckout)
		schedules.GET("/:id/unpaid", auth, staff, hd.ListUnpaid)

		// Counter sales
		counter := api.Group("/counter", auth, staff)
		counter.POST("/schedules/:id/checkout", hd.CounterCheckout)

		// Bookings
		bookings := api.Group("/bookings", auth)
		bookings.POST("/:id/pay", hd.PayBooking)
		bookings.POST("/:id/settle", staff, hd.SettleBooking)
		bookings.GET("/:id/ticket", hd.BookingTicketPDF)
		bookings.GET("/:id/invoice", hd.BookingInvoicePDF)

		// Ad-hoc distance fares
		api.POST("/quotes/distance", hd.DistanceQuote)

		// Driver app
		drv := api.Group("/driver", auth, driver)
		drv.GET("/state", hd.DriverState)
		drv.POST("/pair", hd.PairVehicle)
		drv.POST("/route", hd.SelectRoute)
		drv.POST("/trip/start", hd.StartTrip)
		drv.POST("/trip/end", hd.EndTrip)
		drv.GET("/board", hd.DriverBoard)
		drv.POST("/seats/check-in", hd.CheckIn)
		drv.POST("/seats/check-out", hd.CheckOut)
		drv.POST("/seats/switch", hd.SwitchSeat)
		drv.POST("/trips/:id/location", hd.ReportLocation)
		drv.GET("/trips/:id/location/ws", hd.LocationStream)

		// Trip tracking
		api.GET("/trips/:id/locations", auth, staff, hd.TripLocations)

		// Fleet admin
		vehicles := api.Group("/vehicles", auth, middleware.RequireRole(domain.RoleAdmin))
		vehicles.PUT("/:id/layout", hd.SaveVehicleLayout)
	}

	h.SetRouter(r)
	return r
}
