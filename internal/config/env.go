package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Env struct {
	AppAddr string `yaml:"app_addr" validate:"required"`
	GinMode string `yaml:"gin_mode" validate:"omitempty,oneof=debug release test"`

	DBDSN     string `yaml:"db_dsn" validate:"required"`
	JWTSecret string `yaml:"jwt_secret" validate:"required,min=8"`

	DirectionsBaseURL string        `yaml:"directions_base_url" validate:"omitempty,url"`
	DirectionsAPIKey  string        `yaml:"directions_api_key"`
	DirectionsTimeout time.Duration `yaml:"directions_timeout" validate:"gte=0"`

	// FarePerKm is used when the settings table has no per_km_rate.
	FarePerKm float64 `yaml:"fare_per_km" validate:"gte=0"`
	// GeofenceRadiusM is used when the settings table has no destination_radius_m.
	GeofenceRadiusM  float64       `yaml:"geofence_radius_m" validate:"gt=0"`
	LocationInterval time.Duration `yaml:"location_interval" validate:"gt=0"`
	// CurrentRunWindow is how far around "now" a schedule counts as the current run.
	CurrentRunWindow time.Duration `yaml:"current_run_window" validate:"gt=0"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

func defaultEnv() Env {
	return Env{
		AppAddr:           ":8080",
		DBDSN:             "root:@tcp(127.0.0.1:3306)/evbus?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s",
		JWTSecret:         "super-secret-key-change-me",
		DirectionsBaseURL: "https://maps.googleapis.com/maps/api",
		DirectionsTimeout: 5 * time.Second,
		FarePerKm:         3000,
		GeofenceRadiusM:   200,
		LocationInterval:  5 * time.Second,
		CurrentRunWindow:  30 * time.Minute,
		CORSAllowedOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
	}
}

// LoadEnv builds the configuration: defaults, then CONFIG_FILE (YAML), then
// environment variables (a .env file is loaded first when present).
func LoadEnv() (Env, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[CONFIG] .env tidak ditemukan, memakai environment sistem")
	}

	env := defaultEnv()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadYAML(path, &env); err != nil {
			return Env{}, err
		}
	}
	applyEnv(&env, os.LookupEnv)

	if err := validator.New().Struct(env); err != nil {
		return Env{}, fmt.Errorf("konfigurasi tidak valid: %w", err)
	}
	return env, nil
}

func loadYAML(path string, env *Env) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("baca config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, env); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(env *Env, lookup lookupFunc) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	float := func(key string, dst *float64) {
		if v, ok := lookup(key); ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				*dst = f
			} else {
				log.Printf("[CONFIG] %s diabaikan: %v", key, err)
			}
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok {
			if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
				*dst = d
			} else {
				log.Printf("[CONFIG] %s diabaikan: %v", key, err)
			}
		}
	}

	str("APP_ADDR", &env.AppAddr)
	str("GIN_MODE", &env.GinMode)
	str("DB_DSN", &env.DBDSN)
	str("JWT_SECRET", &env.JWTSecret)
	str("DIRECTIONS_BASE_URL", &env.DirectionsBaseURL)
	str("DIRECTIONS_API_KEY", &env.DirectionsAPIKey)
	dur("DIRECTIONS_TIMEOUT", &env.DirectionsTimeout)
	float("FARE_PER_KM", &env.FarePerKm)
	float("GEOFENCE_RADIUS_M", &env.GeofenceRadiusM)
	dur("LOCATION_INTERVAL", &env.LocationInterval)
	dur("CURRENT_RUN_WINDOW", &env.CurrentRunWindow)

	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok && strings.TrimSpace(v) != "" {
		origins := []string{}
		for _, o := range strings.Split(v, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				origins = append(origins, o)
			}
		}
		env.CORSAllowedOrigins = origins
	}
}
