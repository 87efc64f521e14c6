package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	intconfig "evbus/internal/config"
	"evbus/internal/utils"
)

// Setting keys read by the core.
const (
	SettingFarePerKm          = "per_km_rate"
	SettingDefaultSeatLayout  = "default_seat_layout"
	SettingDestinationRadiusM = "destination_radius_m"
)

type SettingsRepo struct {
	DB *sql.DB
}

func (r SettingsRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r SettingsRepo) get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := r.db().QueryRowContext(ctx, `SELECT setting_value FROM settings WHERE setting_key=? LIMIT 1`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return strings.TrimSpace(v), true, nil
}

func (r SettingsRepo) positiveFloat(ctx context.Context, key string) (float64, bool, error) {
	raw, ok, err := r.get(ctx, key)
	if err != nil || !ok || raw == "" {
		return 0, false, err
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 {
		utils.LogEvent("", "settings", "parse", fmt.Sprintf("key=%s ignored value=%q", key, raw))
		return 0, false, nil
	}
	return f, true, nil
}

// PerKmRate returns the configured distance fare rate, if any.
func (r SettingsRepo) PerKmRate(ctx context.Context) (float64, bool, error) {
	return r.positiveFloat(ctx, SettingFarePerKm)
}

func (r SettingsRepo) DestinationRadiusM(ctx context.Context) (float64, bool, error) {
	return r.positiveFloat(ctx, SettingDestinationRadiusM)
}

// DefaultSeatLayout returns the layout template used for vehicles without
// their own layout. Stored as a JSON string array.
func (r SettingsRepo) DefaultSeatLayout(ctx context.Context) ([]string, error) {
	raw, ok, err := r.get(ctx, SettingDefaultSeatLayout)
	if err != nil || !ok || raw == "" {
		return nil, err
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		utils.LogEvent("", "settings", "parse", fmt.Sprintf("key=%s invalid layout: %v", SettingDefaultSeatLayout, err))
		return nil, nil
	}
	return out, nil
}
