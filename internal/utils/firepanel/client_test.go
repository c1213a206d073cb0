package firepanel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBuildingDevicesSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/buildings/panel-1/devices" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Api-Key"); got != "secret" {
			t.Fatalf("missing api key header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"devices":[{"id":"dev-1","kind":"smoke","zone":"3F","status":"normal"}]}`))
	}))
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL, "secret", time.Second)
	if err != nil {
		t.Fatalf("NewHTTPClient failed: %v", err)
	}

	devices, err := c.BuildingDevices(context.Background(), "panel-1")
	if err != nil {
		t.Fatalf("BuildingDevices failed: %v", err)
	}
	if len(devices) != 1 || devices[0].ID != "dev-1" {
		t.Fatalf("unexpected devices: %+v", devices)
	}
}

func TestBuildingDevicesRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "flaky", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"devices":[]}`))
	}))
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL, "", 10*time.Second)
	if err != nil {
		t.Fatalf("NewHTTPClient failed: %v", err)
	}

	if _, err := c.BuildingDevices(context.Background(), "panel-1"); err != nil {
		t.Fatalf("expected retries to succeed, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestBuildingDevicesNotFoundIsPermanent(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL, "", 10*time.Second)
	if err != nil {
		t.Fatalf("NewHTTPClient failed: %v", err)
	}

	_, err = c.BuildingDevices(context.Background(), "missing")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("404 must not be retried, got %d attempts", calls)
	}
}
