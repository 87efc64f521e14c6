package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func lookupFrom(m map[string]string) lookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	env := defaultEnv()
	applyEnv(&env, lookupFrom(map[string]string{
		"APP_ADDR":             ":9090",
		"FARE_PER_KM":          "4500.5",
		"LOCATION_INTERVAL":    "10s",
		"GEOFENCE_RADIUS_M":    "not-a-number",
		"CORS_ALLOWED_ORIGINS": "https://a.example, ,https://b.example",
	}))
	if env.AppAddr != ":9090" {
		t.Fatalf("AppAddr not overridden: %s", env.AppAddr)
	}
	if env.FarePerKm != 4500.5 {
		t.Fatalf("FarePerKm = %f", env.FarePerKm)
	}
	if env.LocationInterval != 10*time.Second {
		t.Fatalf("LocationInterval = %s", env.LocationInterval)
	}
	if env.GeofenceRadiusM != 200 {
		t.Fatalf("invalid value should keep default, got %f", env.GeofenceRadiusM)
	}
	if len(env.CORSAllowedOrigins) != 2 || env.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", env.CORSAllowedOrigins)
	}
}

func TestLoadEnvFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := "app_addr: \":7000\"\nfare_per_km: 2500\nlocation_interval: 3s\ngeofence_radius_m: 150\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("FARE_PER_KM", "2750")

	env, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv returned error: %v", err)
	}
	if env.AppAddr != ":7000" || env.GeofenceRadiusM != 150 || env.LocationInterval != 3*time.Second {
		t.Fatalf("yaml values not applied: %+v", env)
	}
	if env.FarePerKm != 2750 {
		t.Fatalf("environment should win over yaml, got %f", env.FarePerKm)
	}
}

func TestLoadEnvRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("gin_mode: loud\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	if _, err := LoadEnv(); err == nil {
		t.Fatalf("expected validation error for gin_mode")
	}
}
