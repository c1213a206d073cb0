package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/upravdom/facility-service/internal/models"
	"github.com/upravdom/facility-service/internal/repositories"
	"github.com/upravdom/facility-service/internal/utils"
)

/* ------------------------------------------------------------------
   Fakes. Embedding the interface keeps them small; only the methods
   the import path touches are implemented.
------------------------------------------------------------------ */

type fakeBuildingRepo struct {
	repositories.BuildingRepository
	buildings []*models.Building
}

func (f *fakeBuildingRepo) ListAll(ctx context.Context) ([]*models.Building, error) {
	return f.buildings, nil
}

type fakeApartmentRepo struct {
	repositories.ApartmentRepository
	apartments []*models.Apartment

	createCalls int
	createErr   error
	// existing row FindByBuildingAndUnit reveals after a conflict
	conflictWinner *models.Apartment
}

func (f *fakeApartmentRepo) ListAll(ctx context.Context) ([]*models.Apartment, error) {
	return f.apartments, nil
}

func (f *fakeApartmentRepo) Create(ctx context.Context, a *models.Apartment) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	f.apartments = append(f.apartments, a)
	return nil
}

func (f *fakeApartmentRepo) FindByBuildingAndUnit(ctx context.Context, bldgID uuid.UUID, unitNumber string) (*models.Apartment, error) {
	if f.conflictWinner != nil && f.conflictWinner.BuildingID == bldgID &&
		f.conflictWinner.UnitNumber == unitNumber {
		return f.conflictWinner, nil
	}
	return nil, nil
}

type fakePhoneIssueRepo struct {
	repositories.PhoneIssueRepository
	created     []*models.PhoneIssue
	createCalls int
	failOnNth   int // 1-based; 0 disables
}

func (f *fakePhoneIssueRepo) Create(ctx context.Context, p *models.PhoneIssue) error {
	f.createCalls++
	if f.failOnNth > 0 && f.createCalls == f.failOnNth {
		return errors.New("insert blew up")
	}
	f.created = append(f.created, p)
	return nil
}

func newImportFixture() (*BulkImportService, *fakeApartmentRepo, *fakePhoneIssueRepo, *models.Building) {
	b222 := &models.Building{ID: uuid.New(), Name: "Building 222"}
	bldgRepo := &fakeBuildingRepo{buildings: []*models.Building{b222}}
	aptRepo := &fakeApartmentRepo{
		apartments: []*models.Apartment{
			{ID: uuid.New(), BuildingID: b222.ID, UnitNumber: "106", Floor: 1},
		},
	}
	issueRepo := &fakePhoneIssueRepo{}
	return NewBulkImportService(bldgRepo, aptRepo, issueRepo), aptRepo, issueRepo, b222
}

/* ------------------------------------------------------------------
   Tests
------------------------------------------------------------------ */

func TestSubmitCreatesIssuesForResolvedLines(t *testing.T) {
	svc, aptRepo, issueRepo, _ := newImportFixture()

	result, err := svc.Submit(context.Background(), "222-106-2D 99090909",
		BulkImportOptions{Status: models.IssueStatusReceived})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if result.RecordsCreated != 1 || result.RecordsFailed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if aptRepo.createCalls != 0 {
		t.Fatalf("no apartment create expected, got %d", aptRepo.createCalls)
	}
	issue := issueRepo.created[0]
	if issue.PhoneNumber != "99090909" {
		t.Fatalf("wrong phone: %q", issue.PhoneNumber)
	}
	if issue.Status != models.IssueStatusReceived {
		t.Fatalf("wrong status: %s", issue.Status)
	}
	if !strings.Contains(issue.Description, "Cleared 2 domophones in Building 222, Unit 106") {
		t.Fatalf("wrong description: %q", issue.Description)
	}
	if issue.DueDate.IsZero() {
		t.Fatal("due date not set")
	}
}

func TestSubmitMissingPhoneStoresSentinel(t *testing.T) {
	svc, _, issueRepo, _ := newImportFixture()

	_, err := svc.Submit(context.Background(), "222-106-1D",
		BulkImportOptions{Status: models.IssueStatusReceived})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if got := issueRepo.created[0].PhoneNumber; got != models.PhoneNumberNA {
		t.Fatalf("expected %q, got %q", models.PhoneNumberNA, got)
	}
}

func TestSubmitDeduplicatesPendingCreates(t *testing.T) {
	svc, aptRepo, issueRepo, _ := newImportFixture()

	// Unit 417 does not exist; three lines target it.
	text := "222-417-1D, 222-417-1LB, 222-417-2D"
	result, err := svc.Submit(context.Background(), text,
		BulkImportOptions{Status: models.IssueStatusReceived})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if aptRepo.createCalls != 1 {
		t.Fatalf("expected exactly 1 apartment create, got %d", aptRepo.createCalls)
	}
	if result.ApartmentsCreated != 1 {
		t.Fatalf("expected ApartmentsCreated=1, got %d", result.ApartmentsCreated)
	}
	if result.RecordsCreated != 3 {
		t.Fatalf("expected 3 issues, got %d", result.RecordsCreated)
	}

	aptID := issueRepo.created[0].ApartmentID
	for _, issue := range issueRepo.created {
		if issue.ApartmentID != aptID {
			t.Fatal("issues for the same unit landed on different apartments")
		}
	}
}

func TestSubmitRecoversFromUniqueViolation(t *testing.T) {
	svc, aptRepo, issueRepo, b222 := newImportFixture()

	winner := &models.Apartment{ID: uuid.New(), BuildingID: b222.ID, UnitNumber: "417", Floor: 4}
	aptRepo.createErr = &pgconn.PgError{Code: "23505"}
	aptRepo.conflictWinner = winner

	result, err := svc.Submit(context.Background(), "222-417-1D",
		BulkImportOptions{Status: models.IssueStatusReceived})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if result.RecordsCreated != 1 || result.RecordsFailed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.ApartmentsCreated != 0 {
		t.Fatal("recovered conflict must not count as a created apartment")
	}
	if issueRepo.created[0].ApartmentID != winner.ID {
		t.Fatal("issue not attached to the winning row")
	}
}

func TestSubmitUniqueViolationWithoutWinnerSurfacesConflict(t *testing.T) {
	svc, aptRepo, _, _ := newImportFixture()

	aptRepo.createErr = &pgconn.PgError{Code: "23505"}
	// conflictWinner left nil: the fallback lookup finds nothing.

	result, err := svc.Submit(context.Background(), "222-417-1D",
		BulkImportOptions{Status: models.IssueStatusReceived})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.RecordsFailed != 1 || result.RecordsCreated != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !strings.Contains(result.Failures[0], "23505") {
		t.Fatalf("expected the original conflict in failures, got %q", result.Failures[0])
	}
}

func TestSubmitPartialFailure(t *testing.T) {
	svc, _, issueRepo, _ := newImportFixture()
	issueRepo.failOnNth = 1

	result, err := svc.Submit(context.Background(), "222-106-1D, 222-106-1LB",
		BulkImportOptions{Status: models.IssueStatusReceived})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if result.RecordsCreated != 1 || result.RecordsFailed != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(result.Failures) != 1 || !strings.HasPrefix(result.Failures[0], "222-106:") {
		t.Fatalf("unexpected failures: %v", result.Failures)
	}
}

func TestSubmitEmptyBatchRejected(t *testing.T) {
	svc, aptRepo, issueRepo, _ := newImportFixture()

	_, err := svc.Submit(context.Background(), "gibberish, 222-106-1SD",
		BulkImportOptions{Status: models.IssueStatusReceived})
	if err == nil {
		t.Fatal("expected empty-batch error")
	}

	var appErr *utils.AppError
	if !errors.As(err, &appErr) || appErr.Code != utils.ErrCodeEmptyBatch {
		t.Fatalf("expected %s, got %v", utils.ErrCodeEmptyBatch, err)
	}
	if aptRepo.createCalls != 0 || len(issueRepo.created) != 0 {
		t.Fatal("empty batch must not write anything")
	}
}

func TestSubmitHonorsExcludedLines(t *testing.T) {
	svc, _, issueRepo, _ := newImportFixture()

	result, err := svc.Submit(context.Background(), "222-106-1D, 222-106-1LB",
		BulkImportOptions{Status: models.IssueStatusReceived, ExcludeLines: []int{2}})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.RecordsCreated != 1 {
		t.Fatalf("expected 1 record, got %d", result.RecordsCreated)
	}
	if issueRepo.created[0].Kind != models.IssueKindDomophone {
		t.Fatal("excluded the wrong line")
	}
}

func TestPreviewReportsEveryLine(t *testing.T) {
	svc, aptRepo, issueRepo, _ := newImportFixture()

	resp, err := svc.Preview(context.Background(), "222-106-2D 99090909\ngibberish\n222-417-1LB")
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}

	if len(resp.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(resp.Lines))
	}
	if resp.EligibleCount != 2 {
		t.Fatalf("expected 2 eligible, got %d", resp.EligibleCount)
	}
	if resp.Lines[0].ApartmentID == nil {
		t.Fatal("resolved line missing apartment id")
	}
	if resp.Lines[1].Error == "" {
		t.Fatal("bad line missing error")
	}
	if !resp.Lines[2].PendingCreate || resp.Lines[2].EstimatedFloor != 4 {
		t.Fatalf("pending line not reported: %+v", resp.Lines[2])
	}

	// Preview never writes.
	if aptRepo.createCalls != 0 || len(issueRepo.created) != 0 {
		t.Fatal("preview must not write anything")
	}
}
