package services

import (
	"context"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestReporterWritesOnlyNewFixes(t *testing.T) {
	store := &fakeLocations{}
	reg := NewReporterRegistry(store, 10*time.Millisecond)
	defer reg.StopAll()

	reg.Update("trip-1", 1, jakarta, time.Now())
	waitFor(t, func() bool { return store.count() == 1 })

	time.Sleep(50 * time.Millisecond)
	if n := store.count(); n != 1 {
		t.Fatalf("unchanged fix must not be written again, got %d samples", n)
	}

	reg.Update("trip-1", 1, bandung, time.Now().Add(time.Second))
	waitFor(t, func() bool { return store.count() == 2 })

	samples, _ := store.ListByTrip(context.Background(), "trip-1", 0)
	if samples[1].Lat != bandung.Lat || samples[1].VehicleID != 1 {
		t.Fatalf("unexpected sample %+v", samples[1])
	}
}

func TestReporterStopFlushesAndForgets(t *testing.T) {
	store := &fakeLocations{}
	reg := NewReporterRegistry(store, time.Hour)
	reg.Update("trip-2", 1, jakarta, time.Now())
	if !reg.Running("trip-2") {
		t.Fatalf("reporter should be running")
	}
	reg.Stop("trip-2")
	if reg.Running("trip-2") {
		t.Fatalf("reporter should be gone after stop")
	}
	if store.count() != 1 {
		t.Fatalf("stop should flush the pending fix, got %d", store.count())
	}
	reg.Stop("trip-2")
}

func TestReporterRegistryStartIsIdempotent(t *testing.T) {
	reg := NewReporterRegistry(&fakeLocations{}, time.Hour)
	defer reg.StopAll()
	a := reg.Start("trip-3", 1)
	b := reg.Start("trip-3", 1)
	if a != b {
		t.Fatalf("one reporter per trip")
	}
}

func TestStopAll(t *testing.T) {
	store := &fakeLocations{}
	reg := NewReporterRegistry(store, time.Hour)
	reg.Update("a", 1, jakarta, time.Now())
	reg.Update("b", 2, bandung, time.Now())
	reg.StopAll()
	if reg.Running("a") || reg.Running("b") || store.count() != 2 {
		t.Fatalf("StopAll should stop and flush every reporter")
	}
}
