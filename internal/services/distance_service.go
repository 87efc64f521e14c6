package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"evbus/internal/directions"
	"evbus/internal/domain"
	"evbus/internal/domain/models"
	"evbus/internal/utils"
)

// ErrSuperseded is returned when a newer quote request for the same key
// started while this one was running.
var ErrSuperseded = errors.New("permintaan sudah digantikan")

// DistanceService estimates driving distance and prices ad-hoc rides.
type DistanceService struct {
	Provider    directions.Provider
	Settings    SettingsStore
	DefaultRate float64
	Tracker     *QuoteTracker
}

// Estimate asks the directions provider first and falls back to the
// great-circle chain origin -> waypoints -> destination on any failure.
func (s DistanceService) Estimate(ctx context.Context, origin, destination models.GeoPoint, waypoints []models.GeoPoint) (models.Estimate, error) {
	if !origin.Valid() || !destination.Valid() {
		return models.Estimate{}, domain.ValidationError{Field: "coordinates", Msg: "koordinat tidak valid"}
	}
	path := make([]models.GeoPoint, 0, len(waypoints)+2)
	path = append(path, origin)
	for _, w := range waypoints {
		if !w.Valid() {
			return models.Estimate{}, domain.ValidationError{Field: "waypoints", Msg: "koordinat tidak valid"}
		}
		path = append(path, w)
	}
	path = append(path, destination)

	if s.Provider != nil {
		legs, err := s.Provider.Route(ctx, path)
		if err == nil && len(legs) > 0 {
			var meters int64
			for _, l := range legs {
				meters += l.DistanceMeters
			}
			return models.Estimate{DistanceKm: float64(meters) / 1000, Path: path, Source: models.SourceDirections}, nil
		}
		if ctx.Err() != nil {
			return models.Estimate{}, ctx.Err()
		}
		utils.LogEventCtx(ctx, "distance", "fallback", fmt.Sprintf("directions failed: %v", err))
	}
	return models.Estimate{DistanceKm: utils.HaversineChain(path), Path: path, Source: models.SourceHaversine}, nil
}

// PerKmRate reads the operator rate, falling back to the configured default.
func (s DistanceService) PerKmRate(ctx context.Context) (float64, error) {
	if s.Settings != nil {
		rate, ok, err := s.Settings.PerKmRate(ctx)
		if err != nil {
			return 0, domain.InternalError{Msg: "gagal membaca tarif", Err: err}
		}
		if ok {
			return rate, nil
		}
	}
	if s.DefaultRate <= 0 {
		return 0, domain.InternalError{Msg: "tarif per km belum diatur"}
	}
	return s.DefaultRate, nil
}

// QuoteDistance prices a point-to-point ride. When key is non-empty the
// request supersedes any in-flight quote for the same key and its own result
// is dropped if a newer one starts before it finishes.
func (s DistanceService) QuoteDistance(ctx context.Context, key string, origin, destination models.GeoPoint, waypoints []models.GeoPoint) (models.FareQuote, models.Estimate, error) {
	var gen uint64
	if s.Tracker != nil && key != "" {
		var done func()
		ctx, gen, done = s.Tracker.Begin(ctx, key)
		defer done()
	}

	est, err := s.Estimate(ctx, origin, destination, waypoints)
	if err != nil {
		if s.Tracker != nil && key != "" && !s.Tracker.Apply(key, gen) {
			return models.FareQuote{}, models.Estimate{}, ErrSuperseded
		}
		return models.FareQuote{}, models.Estimate{}, err
	}
	rate, err := s.PerKmRate(ctx)
	if err != nil {
		return models.FareQuote{}, est, err
	}
	if s.Tracker != nil && key != "" && !s.Tracker.Apply(key, gen) {
		return models.FareQuote{}, models.Estimate{}, ErrSuperseded
	}
	q := models.FareQuote{
		Pricing:    models.PricingDistance,
		DistanceKm: est.DistanceKm,
		UnitPrice:  rate,
		Amount:     utils.DistanceFare(est.DistanceKm, rate),
		Source:     est.Source,
	}
	utils.LogEventCtx(ctx, "distance", "quote", fmt.Sprintf("key=%s km=%.3f source=%s amount=%d", key, q.DistanceKm, q.Source, q.Amount))
	return q, est, nil
}

// QuoteTracker hands out generation tokens per key so only the newest
// request for a key may publish its result. Generations come from one
// tracker-wide counter and never repeat, so a key whose entry was released
// cannot hand an old generation out again.
type QuoteTracker struct {
	mu      sync.Mutex
	next    uint64
	entries map[string]*quoteEntry
}

type quoteEntry struct {
	gen    uint64
	cancel context.CancelFunc
}

func NewQuoteTracker() *QuoteTracker {
	return &QuoteTracker{entries: map[string]*quoteEntry{}}
}

// Begin cancels the previous request for key and returns a context bound to
// the new one, its generation and a release func the caller must defer.
func (t *QuoteTracker) Begin(ctx context.Context, key string) (context.Context, uint64, func()) {
	ctx, cancel := context.WithCancel(ctx)
	t.mu.Lock()
	if t.entries == nil {
		t.entries = map[string]*quoteEntry{}
	}
	if prev, ok := t.entries[key]; ok && prev.cancel != nil {
		prev.cancel()
	}
	t.next++
	gen := t.next
	t.entries[key] = &quoteEntry{gen: gen, cancel: cancel}
	t.mu.Unlock()

	release := func() {
		cancel()
		t.mu.Lock()
		// only the newest request owns the entry
		if cur, ok := t.entries[key]; ok && cur.gen == gen {
			delete(t.entries, key)
		}
		t.mu.Unlock()
	}
	return ctx, gen, release
}

// Apply reports whether gen is still the newest generation for key.
func (t *QuoteTracker) Apply(key string, gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[key]
	return ok && e.gen == gen
}
