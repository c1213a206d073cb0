package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/upravdom/facility-service/internal/models"
	"github.com/upravdom/facility-service/internal/repositories"
	"github.com/upravdom/facility-service/internal/utils"
	"github.com/upravdom/facility-service/internal/utils/firepanel"
)

type fakePanelClient struct {
	devices []firepanel.Device
	err     error
	calls   int
}

func (f *fakePanelClient) BuildingDevices(ctx context.Context, panelRef string) ([]firepanel.Device, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.devices, nil
}

type fakePanelBuildingRepo struct {
	repositories.BuildingRepository
	building *models.Building
}

func (f *fakePanelBuildingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Building, error) {
	if f.building != nil && f.building.ID == id {
		return f.building, nil
	}
	return nil, nil
}

func (f *fakePanelBuildingRepo) ListWithPanelRef(ctx context.Context) ([]*models.Building, error) {
	if f.building == nil || f.building.PanelRef == nil {
		return nil, nil
	}
	return []*models.Building{f.building}, nil
}

type fakeOverrideRepo struct {
	repositories.DeviceOverrideRepository
	overrides []*models.DeviceOverride
}

func (f *fakeOverrideRepo) ListByBuildingID(ctx context.Context, bldgID uuid.UUID) ([]*models.DeviceOverride, error) {
	return f.overrides, nil
}

func newPanelFixture() (*FirePanelService, *fakePanelClient, *fakeOverrideRepo, *models.Building) {
	ref := "panel-1"
	bldg := &models.Building{ID: uuid.New(), Name: "Building 222", PanelRef: &ref}
	client := &fakePanelClient{
		devices: []firepanel.Device{
			{ID: "dev-1", Kind: "smoke", Zone: "3F", Status: "normal"},
			{ID: "dev-2", Kind: "smoke", Zone: "4F", Status: "fault"},
		},
	}
	overrideRepo := &fakeOverrideRepo{}
	svc := NewFirePanelService(client, &fakePanelBuildingRepo{building: bldg}, overrideRepo)
	return svc, client, overrideRepo, bldg
}

func TestBuildingDevicesMergesOverrides(t *testing.T) {
	svc, _, overrideRepo, bldg := newPanelFixture()
	overrideRepo.overrides = []*models.DeviceOverride{
		{
			ID:         uuid.New(),
			BuildingID: bldg.ID,
			DeviceID:   "dev-2",
			Status:     models.DeviceStatusDisabled,
			Note:       "sensor replaced next week",
			UpdatedBy:  "admin-1",
		},
	}

	resp, err := svc.BuildingDevices(context.Background(), bldg.ID)
	if err != nil {
		t.Fatalf("BuildingDevices failed: %v", err)
	}
	if resp.Stale {
		t.Fatal("fresh fetch marked stale")
	}
	if len(resp.Devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(resp.Devices))
	}

	d1 := resp.Devices[0]
	if d1.Overridden || d1.Status != string(models.DeviceStatusNormal) {
		t.Fatalf("device without override mangled: %+v", d1)
	}

	d2 := resp.Devices[1]
	if !d2.Overridden {
		t.Fatal("override not applied")
	}
	if d2.Status != string(models.DeviceStatusDisabled) || d2.OverrideNote != "sensor replaced next week" {
		t.Fatalf("override fields wrong: %+v", d2)
	}
	if d2.OverriddenBy != "admin-1" {
		t.Fatalf("expected overridden_by admin-1, got %q", d2.OverriddenBy)
	}
}

func TestBuildingDevicesServesCachedSnapshotWhileFresh(t *testing.T) {
	svc, client, _, bldg := newPanelFixture()

	if _, err := svc.BuildingDevices(context.Background(), bldg.ID); err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	if _, err := svc.BuildingDevices(context.Background(), bldg.ID); err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", client.calls)
	}
}

func TestBuildingDevicesFallsBackToStaleSnapshot(t *testing.T) {
	svc, client, _, bldg := newPanelFixture()

	// Populate, then age the snapshot past freshness and kill the panel.
	if _, err := svc.BuildingDevices(context.Background(), bldg.ID); err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	svc.mu.Lock()
	snap := svc.snapshots[bldg.ID]
	snap.fetchedAt = time.Now().Add(-time.Hour)
	svc.snapshots[bldg.ID] = snap
	svc.mu.Unlock()
	client.err = errors.New("panel is down")

	resp, err := svc.BuildingDevices(context.Background(), bldg.ID)
	if err != nil {
		t.Fatalf("expected stale fallback, got error: %v", err)
	}
	if !resp.Stale {
		t.Fatal("stale snapshot not flagged")
	}
	if len(resp.Devices) != 2 {
		t.Fatalf("stale snapshot lost devices: %d", len(resp.Devices))
	}
}

func TestBuildingDevicesNoCacheNoPanel(t *testing.T) {
	svc, client, _, bldg := newPanelFixture()
	client.err = errors.New("panel is down")

	_, err := svc.BuildingDevices(context.Background(), bldg.ID)
	if err == nil {
		t.Fatal("expected error with no cache and panel down")
	}
	var appErr *utils.AppError
	if !errors.As(err, &appErr) || appErr.Code != utils.ErrCodePanelUnavailable {
		t.Fatalf("expected %s, got %v", utils.ErrCodePanelUnavailable, err)
	}
}

func TestBuildingDevicesWithoutPanelRef(t *testing.T) {
	bldg := &models.Building{ID: uuid.New(), Name: "Building 17"}
	svc := NewFirePanelService(&fakePanelClient{}, &fakePanelBuildingRepo{building: bldg}, &fakeOverrideRepo{})

	_, err := svc.BuildingDevices(context.Background(), bldg.ID)
	if err == nil {
		t.Fatal("expected error for building without panel")
	}
}

func TestRefreshAllPrimesCache(t *testing.T) {
	svc, client, _, bldg := newPanelFixture()

	if err := svc.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll failed: %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", client.calls)
	}

	// Dashboard read now hits the cache.
	if _, err := svc.BuildingDevices(context.Background(), bldg.ID); err != nil {
		t.Fatalf("BuildingDevices failed: %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("expected cached read, upstream called %d times", client.calls)
	}
}

func TestNormalizePanelStatus(t *testing.T) {
	tests := map[string]models.DeviceStatus{
		"normal":    models.DeviceStatusNormal,
		"ok":        models.DeviceStatusNormal,
		"fire":      models.DeviceStatusFire,
		"alarm":     models.DeviceStatusFire,
		"fault":     models.DeviceStatusFault,
		"isolated":  models.DeviceStatusDisabled,
		"launching": models.DeviceStatusUnknown,
	}
	for in, want := range tests {
		if got := normalizePanelStatus(in); got != want {
			t.Fatalf("normalizePanelStatus(%q) = %s, want %s", in, got, want)
		}
	}
}
