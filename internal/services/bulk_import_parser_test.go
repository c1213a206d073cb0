package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/upravdom/facility-service/internal/models"
)

func testDirectory() *DirectorySnapshot {
	b222 := &models.Building{ID: uuid.New(), Name: "Building 222"}
	b17 := &models.Building{ID: uuid.New(), Name: "Building 17"}
	return &DirectorySnapshot{
		Buildings: []*models.Building{b222, b17},
		Apartments: []*models.Apartment{
			{ID: uuid.New(), BuildingID: b222.ID, UnitNumber: "106", Floor: 1},
			{ID: uuid.New(), BuildingID: b222.ID, UnitNumber: "006", Floor: 1},
			{ID: uuid.New(), BuildingID: b17.ID, UnitNumber: "45", Floor: 1},
		},
	}
}

func TestParseIssueLinesDomophone(t *testing.T) {
	dir := testDirectory()
	lines := ParseIssueLines("222-106-2D 99090909", dir)

	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	l := lines[0]
	if l.ParseError != "" {
		t.Fatalf("unexpected parse error: %s", l.ParseError)
	}
	if l.BuildingCode != "222" || l.UnitCode != "106" {
		t.Fatalf("wrong codes: %q / %q", l.BuildingCode, l.UnitCode)
	}
	if l.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", l.Quantity)
	}
	if l.Kind != models.IssueKindDomophone {
		t.Fatalf("expected domophone, got %s", l.Kind)
	}
	if l.PhoneNumber != "99090909" {
		t.Fatalf("expected phone 99090909, got %q", l.PhoneNumber)
	}
	if l.Resolution == nil || l.Resolution.Pending {
		t.Fatal("expected resolution to an existing apartment")
	}
	if l.Resolution.ApartmentID != dir.Apartments[0].ID {
		t.Fatal("resolved to the wrong apartment")
	}
}

func TestParseIssueLinesSmokeDetectorRejected(t *testing.T) {
	lines := ParseIssueLines("222-106-2SD 99090909", testDirectory())

	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if !strings.Contains(lines[0].ParseError, "not supported") {
		t.Fatalf("expected SD rejection, got %q", lines[0].ParseError)
	}
	if lines[0].Resolution != nil {
		t.Fatal("SD lines must not be resolved")
	}
}

func TestParseIssueLinesSeparatorsAndCase(t *testing.T) {
	for _, raw := range []string{
		"222-106-1D",
		"222 106 1d",
		"222 - 106 - 1D",
		"222-106 1lb",
	} {
		lines := ParseIssueLines(raw, testDirectory())
		if len(lines) != 1 {
			t.Fatalf("%q: expected 1 line, got %d", raw, len(lines))
		}
		if lines[0].ParseError != "" {
			t.Fatalf("%q: unexpected parse error %q", raw, lines[0].ParseError)
		}
	}
}

func TestParseIssueLinesErrors(t *testing.T) {
	tests := []struct {
		raw     string
		errPart string
	}{
		{"gibberish", "does not match"},
		{"222-106-0D", "at least 1"},
		{"222-106-2X", "unrecognized issue type"},
		{"999-1-1D", "unknown building"},
	}
	for _, tc := range tests {
		lines := ParseIssueLines(tc.raw, testDirectory())
		if len(lines) != 1 {
			t.Fatalf("%q: expected 1 line, got %d", tc.raw, len(lines))
		}
		if !strings.Contains(lines[0].ParseError, tc.errPart) {
			t.Fatalf("%q: expected error containing %q, got %q", tc.raw, tc.errPart, lines[0].ParseError)
		}
	}
}

func TestParseIssueLinesUnknownBuildingListsKnownNames(t *testing.T) {
	lines := ParseIssueLines("999-1-1D", testDirectory())
	if !strings.Contains(lines[0].ParseError, "Building 17, Building 222") {
		t.Fatalf("expected sorted building names in error, got %q", lines[0].ParseError)
	}
}

func TestParseIssueLinesSplitsOnCommasAndNewlines(t *testing.T) {
	text := "222-106-1D, 17-45-1LB\n222-212-1D\r\n\n ,  "
	lines := ParseIssueLines(text, testDirectory())
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, l := range lines {
		if l.LineNumber != i+1 {
			t.Fatalf("line %d numbered %d", i, l.LineNumber)
		}
	}
}

func TestParseIssueLinesEmptyInput(t *testing.T) {
	if lines := ParseIssueLines("  \n , ,\r ", testDirectory()); len(lines) != 0 {
		t.Fatalf("expected no lines, got %d", len(lines))
	}
}

func TestParseIssueLinesPendingCreate(t *testing.T) {
	lines := ParseIssueLines("222-417-1D", testDirectory())
	l := lines[0]
	if l.ParseError != "" {
		t.Fatalf("unexpected parse error: %s", l.ParseError)
	}
	if l.Resolution == nil || !l.Resolution.Pending {
		t.Fatal("expected a pending create")
	}
	if l.Resolution.EstimatedFloor != 4 {
		t.Fatalf("expected estimated floor 4, got %d", l.Resolution.EstimatedFloor)
	}
}

func TestMatchApartmentUnitHeuristics(t *testing.T) {
	dir := testDirectory()

	// Exact cleaned match wins even when a padded candidate also exists.
	if apt := matchApartment(dir, "222", "106"); apt == nil || apt.UnitNumber != "106" {
		t.Fatal("exact match failed")
	}
	// "6" pads to "006".
	if apt := matchApartment(dir, "222", "6"); apt == nil || apt.UnitNumber != "006" {
		t.Fatal("left-pad match failed")
	}
	// "0045" matches stored "45" after stripping zeros on both sides.
	if apt := matchApartment(dir, "17", "0045"); apt == nil || apt.UnitNumber != "45" {
		t.Fatal("zero-strip match failed")
	}
	// Trailing device tag on the unit is ignored.
	if apt := matchApartment(dir, "222", "106D"); apt == nil || apt.UnitNumber != "106" {
		t.Fatal("tag-suffix match failed")
	}
	if matchApartment(dir, "222", "999") != nil {
		t.Fatal("expected no match for unknown unit")
	}
}

func TestCleanUnitNumber(t *testing.T) {
	tests := map[string]string{
		"106":      "106",
		" 106 ":    "106",
		"106D":     "106",
		"106-LB":   "106",
		"106 SD":   "106",
		"106 - sd": "106",
	}
	for in, want := range tests {
		if got := CleanUnitNumber(in); got != want {
			t.Fatalf("CleanUnitNumber(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEstimateFloor(t *testing.T) {
	tests := map[string]int16{
		"45":   1,
		"99":   1,
		"100":  1,
		"106":  1,
		"212":  2,
		"417":  4,
		"1203": 12,
	}
	for in, want := range tests {
		if got := EstimateFloor(in); got != want {
			t.Fatalf("EstimateFloor(%q) = %d, want %d", in, got, want)
		}
	}
}
