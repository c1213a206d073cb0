package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/upravdom/facility-service/internal/dtos"
	"github.com/upravdom/facility-service/internal/models"
	"github.com/upravdom/facility-service/internal/repositories"
	"github.com/upravdom/facility-service/internal/utils"
)

// CreationCache deduplicates apartment creation within one submission:
// (buildingCode, unitCode) → apartment id. Created empty at submission
// start, discarded at the end, never shared between submissions.
type CreationCache map[string]uuid.UUID

func creationKey(buildingCode, unitCode string) string {
	return buildingCode + "/" + unitCode
}

// BulkImportOptions are the caller-selected settings applied uniformly to
// the whole batch.
type BulkImportOptions struct {
	Status       models.IssueStatus
	WorkerID     *uuid.UUID
	ExcludeLines []int
}

type BulkImportService struct {
	bldgRepo  repositories.BuildingRepository
	aptRepo   repositories.ApartmentRepository
	issueRepo repositories.PhoneIssueRepository
}

func NewBulkImportService(
	bldgRepo repositories.BuildingRepository,
	aptRepo repositories.ApartmentRepository,
	issueRepo repositories.PhoneIssueRepository,
) *BulkImportService {
	return &BulkImportService{
		bldgRepo:  bldgRepo,
		aptRepo:   aptRepo,
		issueRepo: issueRepo,
	}
}

// LoadDirectory fetches the read-only snapshot the parser resolves against.
func (s *BulkImportService) LoadDirectory(ctx context.Context) (*DirectorySnapshot, error) {
	buildings, err := s.bldgRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list buildings: %w", err)
	}
	apartments, err := s.aptRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list apartments: %w", err)
	}
	return &DirectorySnapshot{Buildings: buildings, Apartments: apartments}, nil
}

// Directory exposes the snapshot as DTOs for the import screen.
func (s *BulkImportService) Directory(ctx context.Context) (*dtos.DirectoryResponse, error) {
	dir, err := s.LoadDirectory(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dtos.DirectoryResponse{
		Buildings:  make([]dtos.BuildingDTO, 0, len(dir.Buildings)),
		Apartments: make([]dtos.ApartmentDTO, 0, len(dir.Apartments)),
	}
	for _, b := range dir.Buildings {
		resp.Buildings = append(resp.Buildings, buildingDTO(b))
	}
	for _, a := range dir.Apartments {
		resp.Apartments = append(resp.Apartments, apartmentDTO(a))
	}
	return resp, nil
}

// Preview parses the text against a fresh directory snapshot and reports
// every line's outcome without writing anything.
func (s *BulkImportService) Preview(ctx context.Context, text string) (*dtos.BulkImportPreviewResponse, error) {
	dir, err := s.LoadDirectory(ctx)
	if err != nil {
		return nil, err
	}

	lines := ParseIssueLines(text, dir)
	resp := &dtos.BulkImportPreviewResponse{Lines: make([]dtos.ImportLineDTO, 0, len(lines))}
	for i := range lines {
		if lines[i].ParseError == "" {
			resp.EligibleCount++
		}
		resp.Lines = append(resp.Lines, lineDTO(&lines[i]))
	}
	return resp, nil
}

// Submit replays every line that parsed cleanly: resolve or create the
// apartment (deduplicated per batch), then file one phone-issue record per
// line. Lines are processed strictly in input order, one at a time, so the
// creation cache needs no locking. One line's failure never aborts the rest.
func (s *BulkImportService) Submit(ctx context.Context, text string, opts BulkImportOptions) (*dtos.BulkImportResultResponse, error) {
	dir, err := s.LoadDirectory(ctx)
	if err != nil {
		return nil, err
	}

	excluded := make(map[int]bool, len(opts.ExcludeLines))
	for _, n := range opts.ExcludeLines {
		excluded[n] = true
	}

	var eligible []*ParsedIssueLine
	lines := ParseIssueLines(text, dir)
	for i := range lines {
		if excluded[lines[i].LineNumber] {
			continue
		}
		if lines[i].ParseError != "" || lines[i].Resolution == nil {
			continue
		}
		eligible = append(eligible, &lines[i])
	}

	if len(eligible) == 0 {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeEmptyBatch,
			Message:    "No valid lines to import",
			Err:        utils.ErrEmptyBatch,
		}
	}

	cache := make(CreationCache)
	result := &dtos.BulkImportResultResponse{}

	for _, line := range eligible {
		aptID, createdApt, resolveErr := s.resolveApartment(ctx, line, cache)
		if resolveErr != nil {
			result.RecordsFailed++
			result.Failures = append(result.Failures, lineFailure(line, resolveErr))
			continue
		}
		if createdApt {
			result.ApartmentsCreated++
		}

		phone := line.PhoneNumber
		if phone == "" {
			phone = models.PhoneNumberNA
		}

		issue := &models.PhoneIssue{
			ID:          uuid.New(),
			ApartmentID: aptID,
			PhoneNumber: phone,
			Kind:        line.Kind,
			Status:      opts.Status,
			WorkerID:    opts.WorkerID,
			Description: renderDescription(line),
			DueDate:     utils.NextBusinessDay(time.Now()),
		}
		if err := s.issueRepo.Create(ctx, issue); err != nil {
			result.RecordsFailed++
			result.Failures = append(result.Failures, lineFailure(line, err))
			continue
		}
		result.RecordsCreated++
	}

	return result, nil
}

// resolveApartment yields the apartment id for one eligible line. Pending
// creates are issued at most once per (buildingCode, unitCode) within the
// batch; a unique-violation from a concurrent writer is recovered by
// re-reading the row that won.
func (s *BulkImportService) resolveApartment(
	ctx context.Context,
	line *ParsedIssueLine,
	cache CreationCache,
) (uuid.UUID, bool, error) {
	res := line.Resolution
	if !res.Pending {
		return res.ApartmentID, false, nil
	}

	key := creationKey(line.BuildingCode, line.UnitCode)
	if id, ok := cache[key]; ok {
		return id, false, nil
	}

	apt := &models.Apartment{
		ID:         uuid.New(),
		BuildingID: res.BuildingID,
		UnitNumber: CleanUnitNumber(line.UnitCode),
		Floor:      res.EstimatedFloor,
	}
	if err := s.aptRepo.Create(ctx, apt); err != nil {
		if !isUniqueViolation(err) {
			return uuid.Nil, false, err
		}
		// Somebody registered this unit since the snapshot was taken.
		existing, findErr := s.aptRepo.FindByBuildingAndUnit(ctx, res.BuildingID, apt.UnitNumber)
		if findErr != nil || existing == nil {
			// Inconsistent state: surface the original conflict.
			return uuid.Nil, false, err
		}
		cache[key] = existing.ID
		return existing.ID, false, nil
	}

	cache[key] = apt.ID
	return apt.ID, true, nil
}

// renderDescription folds the quantity into free text; it is not stored as
// a structured field. E.g. "Cleared 2 domophones in Building 222, Unit 106".
func renderDescription(line *ParsedIssueLine) string {
	return fmt.Sprintf("Cleared %d %s in Building %s, Unit %s",
		line.Quantity, line.Kind.LabelN(line.Quantity), line.BuildingCode, line.UnitCode)
}

func lineFailure(line *ParsedIssueLine, err error) string {
	return fmt.Sprintf("%s-%s: %s", line.BuildingCode, line.UnitCode, err.Error())
}

func lineDTO(line *ParsedIssueLine) dtos.ImportLineDTO {
	dto := dtos.ImportLineDTO{
		LineNumber:   line.LineNumber,
		Raw:          line.Raw,
		BuildingCode: line.BuildingCode,
		UnitCode:     line.UnitCode,
		Quantity:     line.Quantity,
		Kind:         string(line.Kind),
		PhoneNumber:  line.PhoneNumber,
		Error:        line.ParseError,
	}
	if res := line.Resolution; res != nil {
		if res.Pending {
			dto.PendingCreate = true
			dto.EstimatedFloor = res.EstimatedFloor
		} else {
			id := res.ApartmentID
			dto.ApartmentID = &id
		}
	}
	return dto
}
