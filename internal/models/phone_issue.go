package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PhoneNumberNA is stored when a caller left no callback number.
const PhoneNumberNA = "N/A"

type IssueKind string

const (
	IssueKindDomophone IssueKind = "DOMOPHONE"
	IssueKindLightBulb IssueKind = "LIGHT_BULB"
)

// Display labels are kept separate from the persisted enum values so the
// stored state never depends on UI wording.
var issueKindLabels = map[IssueKind]struct {
	singular string
	plural   string
}{
	IssueKindDomophone: {"domophone", "domophones"},
	IssueKindLightBulb: {"light bulb", "light bulbs"},
}

func (k IssueKind) Label() string {
	return issueKindLabels[k].singular
}

// LabelN returns the label pluralized for n.
func (k IssueKind) LabelN(n int) string {
	if n == 1 {
		return issueKindLabels[k].singular
	}
	return issueKindLabels[k].plural
}

func ParseIssueKind(s string) (IssueKind, error) {
	switch IssueKind(s) {
	case IssueKindDomophone, IssueKindLightBulb:
		return IssueKind(s), nil
	default:
		return "", fmt.Errorf("invalid issue kind: %q", s)
	}
}

type IssueStatus string

const (
	IssueStatusReceived   IssueStatus = "RECEIVED"
	IssueStatusInProgress IssueStatus = "IN_PROGRESS"
	IssueStatusResolved   IssueStatus = "RESOLVED"
	IssueStatusRejected   IssueStatus = "REJECTED"
)

var issueStatusLabels = map[IssueStatus]string{
	IssueStatusReceived:   "Received",
	IssueStatusInProgress: "In progress",
	IssueStatusResolved:   "Resolved",
	IssueStatusRejected:   "Rejected",
}

func (s IssueStatus) Label() string {
	return issueStatusLabels[s]
}

func ParseIssueStatus(s string) (IssueStatus, error) {
	switch IssueStatus(s) {
	case IssueStatusReceived, IssueStatusInProgress, IssueStatusResolved, IssueStatusRejected:
		return IssueStatus(s), nil
	default:
		return "", fmt.Errorf("invalid issue status: %q", s)
	}
}

// PhoneIssue is one phoned-in complaint (domophone or light bulb) tied to
// an apartment. WorkerID is nil until someone is assigned.
type PhoneIssue struct {
	Versioned

	ID          uuid.UUID   `json:"id"`
	ApartmentID uuid.UUID   `json:"apartment_id"`
	PhoneNumber string      `json:"phone_number"`
	Kind        IssueKind   `json:"kind"`
	Status      IssueStatus `json:"status"`
	WorkerID    *uuid.UUID  `json:"worker_id,omitempty"`
	Description string      `json:"description"`
	DueDate     time.Time   `json:"due_date"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	DeletedAt   *time.Time  `json:"deleted_at,omitempty"`
}

func (p *PhoneIssue) GetID() string { return p.ID.String() }
