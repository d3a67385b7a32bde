package services

import (
	"strings"
	"testing"

	"gorm.io/datatypes"

	types "github.com/yungbote/mentorbridge-backend/internal/domain"
)

func TestStudentSummaryText(t *testing.T) {
	s := &types.StudentProfile{
		Name:         "Ada",
		Major:        "Computer Science",
		Skills:       datatypes.JSON([]byte(`["go","sql"]`)),
		Goals:        "break into backend engineering",
		Availability: "mon,wed",
		Bio:          "final year student",
	}

	text := StudentSummaryText(s)
	for _, want := range []string{
		"Major: Computer Science",
		"Skills: go, sql",
		"Goals: break into backend engineering",
		"Availability: mon,wed",
		"Bio: final year student",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
}

func TestStudentSummaryTextSkipsEmptyFields(t *testing.T) {
	s := &types.StudentProfile{Major: "Biology"}
	text := StudentSummaryText(s)
	if strings.Contains(text, "Skills:") || strings.Contains(text, "Bio:") {
		t.Fatalf("summary should omit empty fields:\n%s", text)
	}
	if text != "Major: Biology" {
		t.Fatalf("summary = %q", text)
	}
}

func TestMentorSummaryText(t *testing.T) {
	m := &types.MentorProfile{
		Industry:  "Software",
		Expertise: datatypes.JSON([]byte(`["distributed systems"]`)),
	}
	text := MentorSummaryText(m)
	if !strings.Contains(text, "Industry: Software") {
		t.Fatalf("summary missing industry:\n%s", text)
	}
	if !strings.Contains(text, "Expertise: distributed systems") {
		t.Fatalf("summary missing expertise:\n%s", text)
	}
}

func TestSummaryTextStable(t *testing.T) {
	s := &types.StudentProfile{
		Major:  "Physics",
		Skills: datatypes.JSON([]byte(`["matlab","python"]`)),
	}
	if StudentSummaryText(s) != StudentSummaryText(s) {
		t.Fatalf("summary text should be deterministic")
	}
}

func TestDecodeStringList(t *testing.T) {
	if got := decodeStringList(nil); got != nil {
		t.Fatalf("nil input should decode to nil, got %v", got)
	}
	if got := decodeStringList(datatypes.JSON([]byte(`not json`))); got != nil {
		t.Fatalf("malformed input should decode to nil, got %v", got)
	}
	got := decodeStringList(datatypes.JSON([]byte(`["a","b"]`)))
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("decode = %v", got)
	}
}
