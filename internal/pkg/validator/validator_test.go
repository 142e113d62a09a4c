package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidMonth(t *testing.T) {
	valid := []string{"2026-01", "2025-12"}
	invalid := []string{"2026-13", "2026-1", "26-01", "2026/01", "", "2026-01-01"}
	for _, m := range valid {
		if _, ok := IsValidMonth(m); !ok {
			t.Errorf("IsValidMonth(%q) = false, want true", m)
		}
	}
	for _, m := range invalid {
		if _, ok := IsValidMonth(m); ok {
			t.Errorf("IsValidMonth(%q) = true, want false", m)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2026-01-10"); !ok {
		t.Error("IsValidDate(2026-01-10) = false, want true")
	}
	if _, ok := IsValidDate("2026-02-30"); ok {
		t.Error("IsValidDate(2026-02-30) = true, want false")
	}
}

func TestIsInSlice(t *testing.T) {
	statuses := []string{"on_time", "late", "absent"}
	if !IsInSlice("late", statuses) {
		t.Error("IsInSlice(late) = false, want true")
	}
	if IsInSlice("LATE", statuses) {
		t.Error("IsInSlice(LATE) = true, want false")
	}
}

func TestMaxLength(t *testing.T) {
	if !MaxLength("héllo", 5) {
		t.Error("MaxLength counts runes, want true")
	}
	if MaxLength("hello!", 5) {
		t.Error("MaxLength(hello!, 5) = true, want false")
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "qr_token", Message: "qr_token is required"},
		{Field: "date", Message: "date must be in YYYY-MM-DD format"},
	}
	if got := errs.Error(); got != "qr_token: qr_token is required; date: date must be in YYYY-MM-DD format" {
		t.Errorf("Error() = %q", got)
	}
	m := errs.ToMap()
	if len(m) != 2 || m["date"] != "date must be in YYYY-MM-DD format" {
		t.Errorf("ToMap() = %v", m)
	}
}
