package dtos

import "github.com/google/uuid"

/*
BulkImportPreviewRequest parses shorthand text without writing anything,
so the list can be reviewed (and lines dropped) before submission.
*/
type BulkImportPreviewRequest struct {
	Text string `json:"text" validate:"required"`
}

type BulkImportRequest struct {
	Text     string     `json:"text" validate:"required"`
	Status   string     `json:"status" validate:"required"`
	WorkerID *uuid.UUID `json:"worker_id,omitempty"`

	// Line numbers (as reported by preview) removed during review.
	ExcludeLines []int `json:"exclude_lines,omitempty"`
}

type ImportLineDTO struct {
	LineNumber   int    `json:"line_number"`
	Raw          string `json:"raw"`
	BuildingCode string `json:"building_code,omitempty"`
	UnitCode     string `json:"unit_code,omitempty"`
	Quantity     int    `json:"quantity,omitempty"`
	Kind         string `json:"kind,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`

	ApartmentID    *uuid.UUID `json:"apartment_id,omitempty"`
	PendingCreate  bool       `json:"pending_create,omitempty"`
	EstimatedFloor int16      `json:"estimated_floor,omitempty"`

	Error string `json:"error,omitempty"`
}

type BulkImportPreviewResponse struct {
	Lines         []ImportLineDTO `json:"lines"`
	EligibleCount int             `json:"eligible_count"`
}

type BulkImportResultResponse struct {
	RecordsCreated    int      `json:"records_created"`
	ApartmentsCreated int      `json:"apartments_created"`
	RecordsFailed     int      `json:"records_failed"`
	Failures          []string `json:"failures,omitempty"`
}
