package models

import "testing"

func TestIssueKindLabels(t *testing.T) {
	if got := IssueKindDomophone.LabelN(1); got != "domophone" {
		t.Fatalf("LabelN(1) = %q", got)
	}
	if got := IssueKindDomophone.LabelN(2); got != "domophones" {
		t.Fatalf("LabelN(2) = %q", got)
	}
	if got := IssueKindLightBulb.LabelN(3); got != "light bulbs" {
		t.Fatalf("LabelN(3) = %q", got)
	}
}

func TestParseIssueKind(t *testing.T) {
	if _, err := ParseIssueKind("DOMOPHONE"); err != nil {
		t.Fatalf("valid kind rejected: %v", err)
	}
	if _, err := ParseIssueKind("domophone"); err == nil {
		t.Fatal("enum values are case-sensitive; lowercase must be rejected")
	}
	if _, err := ParseIssueKind("SMOKE_DETECTOR"); err == nil {
		t.Fatal("unknown kind accepted")
	}
}

func TestParseIssueStatus(t *testing.T) {
	for _, s := range []string{"RECEIVED", "IN_PROGRESS", "RESOLVED", "REJECTED"} {
		if _, err := ParseIssueStatus(s); err != nil {
			t.Fatalf("valid status %q rejected: %v", s, err)
		}
	}
	if _, err := ParseIssueStatus("DONE"); err == nil {
		t.Fatal("unknown status accepted")
	}
}

func TestParseDeviceStatus(t *testing.T) {
	if _, err := ParseDeviceStatus("FIRE"); err != nil {
		t.Fatalf("valid status rejected: %v", err)
	}
	if _, err := ParseDeviceStatus("BURNING"); err == nil {
		t.Fatal("unknown status accepted")
	}
}
