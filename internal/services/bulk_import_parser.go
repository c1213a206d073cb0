package services

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/upravdom/facility-service/internal/models"
)

/*
Shorthand line grammar, one regex instead of the chain of near-duplicate
patterns the paper workflow grew out of:

	<building> sep <unit> sep <quantity><TYPE> [<phone>]
	sep  := '-' | whitespace, optional whitespace around the dash
	TYPE := SD | D | LB (case-insensitive; SD is rejected for this form)

Example: "222-106-2D 99090909".
*/
var issueLineRe = regexp.MustCompile(`^(\d+)(?:\s*-\s*|\s+)(\d+)(?:\s*-\s*|\s+)(\d+)([A-Za-z]+)(?:\s+(\d+))?$`)

// unitTagSuffixRe strips trailing device-type tags people append to unit
// numbers on paper ("106D", "106-LB").
var unitTagSuffixRe = regexp.MustCompile(`(?i)[\s-]*(?:SD|LB|D)$`)

// LineResolution is set on lines that passed grammar and semantic checks:
// either an existing apartment was found, or one is staged for creation.
type LineResolution struct {
	ApartmentID    uuid.UUID // existing apartment, when Pending is false
	Pending        bool
	BuildingID     uuid.UUID // target building for a pending create
	EstimatedFloor int16     // creation hint only
}

// ParsedIssueLine is one decoded input line. Exactly one of Resolution and
// ParseError is set; lines with a ParseError are never submitted.
type ParsedIssueLine struct {
	LineNumber   int
	Raw          string
	BuildingCode string
	UnitCode     string
	Quantity     int
	Kind         models.IssueKind
	PhoneNumber  string
	Resolution   *LineResolution
	ParseError   string
}

// DirectorySnapshot is the read-only building/apartment directory the
// parser resolves against. Loaded once per import session.
type DirectorySnapshot struct {
	Buildings  []*models.Building
	Apartments []*models.Apartment
}

func (d *DirectorySnapshot) buildingByID(id uuid.UUID) *models.Building {
	for _, b := range d.Buildings {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (d *DirectorySnapshot) buildingNames() []string {
	names := make([]string, 0, len(d.Buildings))
	for _, b := range d.Buildings {
		names = append(names, b.Name)
	}
	sort.Strings(names)
	return names
}

// CleanUnitNumber normalizes a unit number for matching and storage:
// trims whitespace and strips a trailing device-type tag.
func CleanUnitNumber(s string) string {
	return strings.TrimSpace(unitTagSuffixRe.ReplaceAllString(strings.TrimSpace(s), ""))
}

// EstimateFloor derives a provisional floor from a unit number: units below
// 100 sit on the first floor, otherwise the floor is the hundreds part
// ("417" → 4). Creation hint only; never authoritative.
func EstimateFloor(unitNumber string) int16 {
	n, err := strconv.Atoi(CleanUnitNumber(unitNumber))
	if err != nil || n < 100 {
		return 1
	}
	return int16(n / 100)
}

// ParseIssueLines splits text on commas and newlines and decodes every
// non-empty entry. One pass over the current text and directory snapshot;
// re-running re-derives the full list.
func ParseIssueLines(text string, dir *DirectorySnapshot) []ParsedIssueLine {
	rawLines := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})

	var out []ParsedIssueLine
	for _, raw := range rawLines {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		line := parseLine(raw, dir)
		line.LineNumber = len(out) + 1
		out = append(out, line)
	}
	return out
}

func parseLine(raw string, dir *DirectorySnapshot) ParsedIssueLine {
	line := ParsedIssueLine{Raw: raw}

	m := issueLineRe.FindStringSubmatch(raw)
	if m == nil {
		line.ParseError = fmt.Sprintf(
			"line %q does not match the expected format <building>-<unit>-<quantity><TYPE> [<phone>]", raw)
		return line
	}

	line.BuildingCode = m[1]
	line.UnitCode = m[2]
	line.PhoneNumber = m[5]

	qty, err := strconv.Atoi(m[3])
	if err != nil || qty < 1 {
		line.ParseError = fmt.Sprintf("quantity %q must be a number of at least 1", m[3])
		return line
	}
	line.Quantity = qty

	switch strings.ToUpper(m[4]) {
	case "SD":
		// No directory lookup for smoke detectors: the panel owns those.
		line.ParseError = "smoke detector (SD) entries are not supported in this form"
		return line
	case "D":
		line.Kind = models.IssueKindDomophone
	case "LB":
		line.Kind = models.IssueKindLightBulb
	default:
		line.ParseError = fmt.Sprintf("unrecognized issue type code %q", m[4])
		return line
	}

	resolveLine(&line, dir)
	return line
}

// resolveLine looks the line's apartment up in the snapshot, or stages a
// pending create against a matched building.
func resolveLine(line *ParsedIssueLine, dir *DirectorySnapshot) {
	if apt := matchApartment(dir, line.BuildingCode, line.UnitCode); apt != nil {
		line.Resolution = &LineResolution{ApartmentID: apt.ID}
		return
	}

	bldg := matchBuilding(dir, line.BuildingCode)
	if bldg == nil {
		line.ParseError = fmt.Sprintf(
			"unknown building %q; known buildings: %s",
			line.BuildingCode, strings.Join(dir.buildingNames(), ", "))
		return
	}

	line.Resolution = &LineResolution{
		Pending:        true,
		BuildingID:     bldg.ID,
		EstimatedFloor: EstimateFloor(line.UnitCode),
	}
}

// matchApartment searches the snapshot with the legacy heuristics, kept for
// compatibility with existing shorthand habits: building name equality,
// "Building <code>" prefix or bare substring containment, and unit equality
// on cleaned values, then after left-padding the search unit to 3 digits,
// then after stripping leading zeros from both sides. First hit wins, in
// that order.
func matchApartment(dir *DirectorySnapshot, buildingCode, unitCode string) *models.Apartment {
	needle := CleanUnitNumber(unitCode)
	padded := leftPad3(needle)
	stripped := stripLeadingZeros(needle)

	unitStrategies := []func(stored string) bool{
		func(stored string) bool { return stored == needle },
		func(stored string) bool { return stored == padded },
		func(stored string) bool { return stripLeadingZeros(stored) == stripped },
	}

	for _, matches := range unitStrategies {
		for _, apt := range dir.Apartments {
			bldg := dir.buildingByID(apt.BuildingID)
			if bldg == nil || !buildingNameMatches(bldg.Name, buildingCode) {
				continue
			}
			if matches(CleanUnitNumber(apt.UnitNumber)) {
				return apt
			}
		}
	}
	return nil
}

func buildingNameMatches(name, code string) bool {
	return name == code ||
		strings.HasPrefix(name, "Building "+code) ||
		strings.Contains(name, code)
}

// matchBuilding resolves the target building for a pending create: exact
// name first, then the "Building <code>" convention.
func matchBuilding(dir *DirectorySnapshot, code string) *models.Building {
	for _, b := range dir.Buildings {
		if b.Name == code {
			return b
		}
	}
	for _, b := range dir.Buildings {
		if b.Name == "Building "+code {
			return b
		}
	}
	return nil
}

func leftPad3(s string) string {
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}

func stripLeadingZeros(s string) string {
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}
