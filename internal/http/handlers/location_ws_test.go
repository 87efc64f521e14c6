package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"evbus/internal/domain"

	"github.com/gorilla/websocket"
)

func dialWS(t *testing.T, srv *httptest.Server, tok string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/driver/trips/t1/location/ws?access_token=" + tok
	return websocket.DefaultDialer.Dial(url, nil)
}

func TestLocationStreamAcksFixes(t *testing.T) {
	e := newTestEnv()
	srv := httptest.NewServer(e.r)
	defer srv.Close()

	conn, _, err := dialWS(t, srv, token(t, 9, domain.RoleDriver))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	if err := conn.WriteJSON(map[string]float64{"lat": -6.2, "lng": 106.8}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var resp WSResponse
	if err := conn.ReadJSON(&resp); err != nil || resp.Type != "ack" {
		t.Fatalf("expected ack, got %+v %v", resp, err)
	}

	if err := conn.WriteJSON(map[string]float64{"lat": 0, "lng": 0}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.ReadJSON(&resp); err != nil || resp.Type != "error" || resp.Code != "location_unavailable" {
		t.Fatalf("expected location error, got %+v %v", resp, err)
	}
	if got := e.trips.received(); len(got) != 1 || got[0].Lat != -6.2 {
		t.Fatalf("unexpected stored fixes %v", got)
	}
}

func TestLocationStreamClosesWhenTripEnds(t *testing.T) {
	e := newTestEnv()
	srv := httptest.NewServer(e.r)
	defer srv.Close()

	conn, _, err := dialWS(t, srv, token(t, 9, domain.RoleDriver))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	e.trips.mu.Lock()
	e.trips.fixErr = domain.ConflictError{Resource: "trip", Msg: "perjalanan sudah selesai"}
	e.trips.mu.Unlock()
	if err := conn.WriteJSON(map[string]float64{"lat": -6.2, "lng": 106.8}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var resp WSResponse
	if err := conn.ReadJSON(&resp); err != nil || resp.Type != "closed" {
		t.Fatalf("expected closed frame, got %+v %v", resp, err)
	}
}

func TestLocationStreamRejectsClosedTripBeforeUpgrade(t *testing.T) {
	e := newTestEnv()
	e.trips.tripErr = domain.ConflictError{Resource: "trip", Msg: "perjalanan sudah selesai"}
	srv := httptest.NewServer(e.r)
	defer srv.Close()

	_, resp, err := dialWS(t, srv, token(t, 9, domain.RoleDriver))
	if err == nil {
		t.Fatalf("dial should fail for a closed trip")
	}
	if resp == nil || resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 before upgrade, got %+v", resp)
	}
}
