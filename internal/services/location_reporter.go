package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"evbus/internal/domain/models"
	"evbus/internal/utils"
)

const defaultLocationInterval = 5 * time.Second

// LocationReporter persists the latest fix of one trip on a fixed interval.
// Fixes are pushed by the driver app; the ticker only writes when a new fix
// arrived since the last write, so an idle stream does not spam samples.
type LocationReporter struct {
	tripID    string
	vehicleID int64
	store     LocationStore
	interval  time.Duration

	mu      sync.Mutex
	latest  *models.GeoPoint
	at      time.Time
	written time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

func newLocationReporter(tripID string, vehicleID int64, store LocationStore, interval time.Duration) *LocationReporter {
	if interval <= 0 {
		interval = defaultLocationInterval
	}
	return &LocationReporter{tripID: tripID, vehicleID: vehicleID, store: store, interval: interval, done: make(chan struct{})}
}

// Update records the newest fix. It never blocks on I/O.
func (r *LocationReporter) Update(fix models.GeoPoint, at time.Time) {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	r.mu.Lock()
	p := fix
	r.latest = &p
	r.at = at
	r.mu.Unlock()
}

func (r *LocationReporter) start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	go r.loop(ctx)
}

func (r *LocationReporter) loop(ctx context.Context) {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.flush(context.Background())
			return
		case <-ticker.C:
			r.flush(ctx)
		}
	}
}

func (r *LocationReporter) flush(ctx context.Context) {
	r.mu.Lock()
	if r.latest == nil || !r.at.After(r.written) {
		r.mu.Unlock()
		return
	}
	sample := models.LocationSample{TripID: r.tripID, VehicleID: r.vehicleID, Lat: r.latest.Lat, Lng: r.latest.Lng, RecordedAt: r.at}
	r.written = r.at
	r.mu.Unlock()

	wctx, cancel := context.WithTimeout(ctx, r.interval)
	defer cancel()
	if err := r.store.Write(wctx, sample); err != nil {
		utils.LogEvent("", "location", "write", fmt.Sprintf("trip_id=%s err=%v", r.tripID, err))
	}
}

// Stop ends the loop after writing any unsaved fix and waits for it to exit.
func (r *LocationReporter) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	<-r.done
}

// ReporterRegistry owns one reporter per open trip.
type ReporterRegistry struct {
	Store    LocationStore
	Interval time.Duration

	mu        sync.Mutex
	reporters map[string]*LocationReporter
}

func NewReporterRegistry(store LocationStore, interval time.Duration) *ReporterRegistry {
	return &ReporterRegistry{Store: store, Interval: interval, reporters: map[string]*LocationReporter{}}
}

// Start returns the running reporter for the trip, starting one if needed.
func (g *ReporterRegistry) Start(tripID string, vehicleID int64) *LocationReporter {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.reporters == nil {
		g.reporters = map[string]*LocationReporter{}
	}
	if r, ok := g.reporters[tripID]; ok {
		return r
	}
	r := newLocationReporter(tripID, vehicleID, g.Store, g.Interval)
	r.start(context.Background())
	g.reporters[tripID] = r
	utils.LogEvent("", "location", "start", fmt.Sprintf("trip_id=%s vehicle_id=%d", tripID, vehicleID))
	return r
}

// Update feeds a fix to the trip's reporter, starting it on first use.
func (g *ReporterRegistry) Update(tripID string, vehicleID int64, fix models.GeoPoint, at time.Time) {
	g.Start(tripID, vehicleID).Update(fix, at)
}

func (g *ReporterRegistry) Running(tripID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.reporters[tripID]
	return ok
}

// Stop halts and forgets the reporter of a trip. Unknown trips are ignored.
func (g *ReporterRegistry) Stop(tripID string) {
	g.mu.Lock()
	r, ok := g.reporters[tripID]
	delete(g.reporters, tripID)
	g.mu.Unlock()
	if ok {
		r.Stop()
		utils.LogEvent("", "location", "stop", fmt.Sprintf("trip_id=%s", tripID))
	}
}

// StopAll is called on shutdown.
func (g *ReporterRegistry) StopAll() {
	g.mu.Lock()
	all := g.reporters
	g.reporters = map[string]*LocationReporter{}
	g.mu.Unlock()
	for _, r := range all {
		r.Stop()
	}
}
