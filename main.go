package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "evbus/internal/config"
	intdb "evbus/internal/db"
	"evbus/internal/directions"
	router "evbus/internal/http"
	"evbus/internal/http/handlers"
	"evbus/internal/repositories"
	"evbus/internal/services"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	env, err := intconfig.LoadEnv()
	if err != nil {
		log.Fatalf("Gagal memuat konfigurasi: %v", err)
	}

	db, err := intconfig.ConnectDB(env.DBDSN)
	if err != nil {
		log.Fatalf("Gagal konek ke database: %v", err)
	}
	defer intconfig.CloseDB()

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	if err := intdb.EnsureSchema(schemaCtx, db); err != nil {
		cancelSchema()
		log.Fatalf("Gagal menyiapkan skema: %v", err)
	}
	cancelSchema()

	vehicles := repositories.VehicleRepo{DB: db}
	seats := repositories.SeatRepo{DB: db}
	routes := repositories.RouteRepo{DB: db}
	schedules := repositories.ScheduleRepo{DB: db}
	bookings := repositories.BookingRepo{DB: db}
	wallets := repositories.WalletRepo{DB: db}
	settings := repositories.SettingsRepo{DB: db}
	trips := repositories.TripRepo{DB: db}
	locations := repositories.LocationRepo{DB: db}

	layouts := services.LayoutService{Vehicles: vehicles, Seats: seats, Settings: settings}
	reporters := services.NewReporterRegistry(locations, env.LocationInterval)
	defer reporters.StopAll()

	tripSvc := services.TripService{
		Vehicles:  vehicles,
		Seats:     seats,
		Routes:    routes,
		Schedules: schedules,
		Trips:     trips,
		Locations: locations,
		Layouts:   layouts,
		Geofence:  services.RadiusGeofence{Settings: settings, DefaultRadiusM: env.GeofenceRadiusM},
		Reporters: reporters,
		RunWindow: env.CurrentRunWindow,
	}
	checkoutSvc := services.CheckoutService{
		Schedules: schedules,
		Vehicles:  vehicles,
		Bookings:  bookings,
		Wallets:   wallets,
		Layouts:   layouts,
	}
	distanceSvc := services.DistanceService{
		Settings:    settings,
		DefaultRate: env.FarePerKm,
		Tracker:     services.NewQuoteTracker(),
	}
	if env.DirectionsAPIKey != "" {
		distanceSvc.Provider = directions.NewClient(env.DirectionsBaseURL, env.DirectionsAPIKey, env.DirectionsTimeout)
	} else {
		log.Println("[CONFIG] DIRECTIONS_API_KEY kosong, jarak memakai haversine")
	}

	r := router.NewRouter(env, &handlers.Handler{
		DB:       db,
		Trips:    tripSvc,
		Checkout: checkoutSvc,
		Quotes:   distanceSvc,
		Layouts:  layouts,
		Docs:     services.DocsService{Bookings: bookings, Schedules: schedules, Vehicles: vehicles},
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server berjalan di http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Gagal menjalankan server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Mematikan server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown server gagal: %v", err)
	}
	// flush the last fix of every open trip before the DB closes
	reporters.StopAll()

	log.Println("Server berhenti dengan aman.")
}
