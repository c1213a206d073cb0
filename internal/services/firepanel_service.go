package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/upravdom/facility-service/internal/dtos"
	"github.com/upravdom/facility-service/internal/models"
	"github.com/upravdom/facility-service/internal/repositories"
	"github.com/upravdom/facility-service/internal/utils"
	"github.com/upravdom/facility-service/internal/utils/firepanel"
)

// snapshotMaxAge is how long a cached panel snapshot satisfies dashboard
// reads before a live fetch is attempted again.
const snapshotMaxAge = 5 * time.Minute

type panelSnapshot struct {
	devices   []firepanel.Device
	fetchedAt time.Time
}

// FirePanelService merges live panel state with admin overrides. Snapshots
// are cached per building and refreshed both on demand and by the poller,
// so the mutex guards the cache map only.
type FirePanelService struct {
	client       firepanel.Client
	bldgRepo     repositories.BuildingRepository
	overrideRepo repositories.DeviceOverrideRepository

	mu        sync.Mutex
	snapshots map[uuid.UUID]panelSnapshot
}

func NewFirePanelService(
	client firepanel.Client,
	bldgRepo repositories.BuildingRepository,
	overrideRepo repositories.DeviceOverrideRepository,
) *FirePanelService {
	return &FirePanelService{
		client:       client,
		bldgRepo:     bldgRepo,
		overrideRepo: overrideRepo,
		snapshots:    make(map[uuid.UUID]panelSnapshot),
	}
}

// BuildingDevices returns the device dashboard for one building: the
// panel's devices with any admin override applied on top. When the panel
// is unreachable a stale snapshot is served and marked as such.
func (s *FirePanelService) BuildingDevices(ctx context.Context, buildingID uuid.UUID) (*dtos.BuildingDevicesResponse, error) {
	bldg, err := s.bldgRepo.GetByID(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	if bldg == nil {
		return nil, notFound("building")
	}
	if bldg.PanelRef == nil || *bldg.PanelRef == "" {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeInvalidPayload,
			Message:    "building is not connected to a fire-alarm panel",
			Err:        utils.ErrNoDeviceData,
		}
	}

	snap, stale, err := s.snapshotFor(ctx, buildingID, *bldg.PanelRef)
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadGateway,
			Code:       utils.ErrCodePanelUnavailable,
			Message:    "fire-alarm panel unreachable and no cached snapshot available",
			Err:        err,
		}
	}

	overrides, err := s.overrideRepo.ListByBuildingID(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	byDevice := make(map[string]*models.DeviceOverride, len(overrides))
	for _, o := range overrides {
		byDevice[o.DeviceID] = o
	}

	resp := &dtos.BuildingDevicesResponse{
		BuildingID: buildingID.String(),
		FetchedAt:  snap.fetchedAt,
		Stale:      stale,
		Devices:    make([]dtos.PanelDeviceDTO, 0, len(snap.devices)),
	}
	for _, d := range snap.devices {
		status := normalizePanelStatus(d.Status)
		dto := dtos.PanelDeviceDTO{
			DeviceID:    d.ID,
			Kind:        d.Kind,
			Zone:        d.Zone,
			Status:      string(status),
			StatusLabel: status.Label(),
		}
		if o, ok := byDevice[d.ID]; ok {
			dto.Status = string(o.Status)
			dto.StatusLabel = o.Status.Label()
			dto.Overridden = true
			dto.OverrideNote = o.Note
			dto.OverriddenBy = o.UpdatedBy
		}
		resp.Devices = append(resp.Devices, dto)
	}
	return resp, nil
}

// SetOverride pins a device status; upsert, last admin wins.
func (s *FirePanelService) SetOverride(ctx context.Context, buildingID uuid.UUID, deviceID, statusStr, note, updatedBy string) (*models.DeviceOverride, error) {
	status, err := models.ParseDeviceStatus(statusStr)
	if err != nil {
		return nil, badPayload(err)
	}
	bldg, err := s.bldgRepo.GetByID(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	if bldg == nil {
		return nil, notFound("building")
	}

	o := &models.DeviceOverride{
		ID:         uuid.New(),
		BuildingID: buildingID,
		DeviceID:   deviceID,
		Status:     status,
		Note:       note,
		UpdatedBy:  updatedBy,
	}
	if err := s.overrideRepo.Upsert(ctx, o); err != nil {
		return nil, err
	}
	return s.overrideRepo.GetByBuildingAndDevice(ctx, buildingID, deviceID)
}

func (s *FirePanelService) ClearOverride(ctx context.Context, buildingID uuid.UUID, deviceID string) error {
	if err := s.overrideRepo.Delete(ctx, buildingID, deviceID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound("override")
		}
		return err
	}
	return nil
}

// RefreshAll re-fetches snapshots for every panel-connected building.
// Called by the poller; per-building failures are logged and the previous
// snapshot kept.
func (s *FirePanelService) RefreshAll(ctx context.Context) error {
	buildings, err := s.bldgRepo.ListWithPanelRef(ctx)
	if err != nil {
		return err
	}
	for _, b := range buildings {
		devices, err := s.client.BuildingDevices(ctx, *b.PanelRef)
		if err != nil {
			utils.Logger.WithError(err).Warnf("Panel refresh failed for building %s", b.Name)
			continue
		}
		s.store(b.ID, devices)
	}
	return nil
}

/* ---------- internals ---------- */

func (s *FirePanelService) snapshotFor(ctx context.Context, buildingID uuid.UUID, panelRef string) (panelSnapshot, bool, error) {
	s.mu.Lock()
	cached, ok := s.snapshots[buildingID]
	s.mu.Unlock()

	if ok && time.Since(cached.fetchedAt) < snapshotMaxAge {
		return cached, false, nil
	}

	devices, err := s.client.BuildingDevices(ctx, panelRef)
	if err != nil {
		if ok {
			// Panel down; keep showing what we last saw.
			return cached, true, nil
		}
		return panelSnapshot{}, false, err
	}
	return s.store(buildingID, devices), false, nil
}

func (s *FirePanelService) store(buildingID uuid.UUID, devices []firepanel.Device) panelSnapshot {
	snap := panelSnapshot{devices: devices, fetchedAt: time.Now()}
	s.mu.Lock()
	s.snapshots[buildingID] = snap
	s.mu.Unlock()
	return snap
}

// normalizePanelStatus maps the panel's free-form status strings onto the
// dashboard enum; anything unrecognized reads as UNKNOWN.
func normalizePanelStatus(raw string) models.DeviceStatus {
	switch raw {
	case "normal", "ok", "NORMAL":
		return models.DeviceStatusNormal
	case "fire", "alarm", "FIRE":
		return models.DeviceStatusFire
	case "fault", "trouble", "FAULT":
		return models.DeviceStatusFault
	case "disabled", "isolated", "DISABLED":
		return models.DeviceStatusDisabled
	default:
		return models.DeviceStatusUnknown
	}
}
