package tui

import (
	"testing"

	"github.com/bitzerlab/ordertrack/internal/entity"
)

func TestFieldInt64(t *testing.T) {
	f := Field{Label: "Order number", Value: " 1001 "}
	v, err := f.Int64()
	if err != nil || v != 1001 {
		t.Errorf("expected 1001, got %d, %v", v, err)
	}

	for _, bad := range []string{"", "abc", "0", "-5", "12.5"} {
		f.Value = bad
		if _, err := f.Int64(); err == nil {
			t.Errorf("%q: expected an error", bad)
		}
	}
}

func TestFieldOptionalInt64(t *testing.T) {
	f := Field{Label: "Good pieces"}
	v, err := f.OptionalInt64()
	if err != nil || v != nil {
		t.Errorf("empty: expected nil, got %v, %v", v, err)
	}

	f.Value = "0"
	v, err = f.OptionalInt64()
	if err != nil || v == nil || *v != 0 {
		t.Errorf("zero counts are allowed, got %v, %v", v, err)
	}

	f.Value = "-1"
	if _, err := f.OptionalInt64(); err == nil {
		t.Error("negative: expected an error")
	}
}

func TestFieldOptionalDate(t *testing.T) {
	f := Field{Label: "Start date"}
	d, err := f.OptionalDate()
	if err != nil || d != nil {
		t.Errorf("empty: expected nil, got %v, %v", d, err)
	}

	f.Value = "2025-08-22"
	d, err = f.OptionalDate()
	if err != nil || d == nil || d.String() != "2025-08-22" {
		t.Errorf("expected a parsed date, got %v, %v", d, err)
	}

	for _, bad := range []string{"22-08-2025", "2025/08/22", "yesterday"} {
		f.Value = bad
		if _, err := f.OptionalDate(); err == nil {
			t.Errorf("%q: expected an error", bad)
		}
	}
}

func TestCheckFormDates(t *testing.T) {
	early := entity.NewDate(2025, 8, 1)
	late := entity.NewDate(2025, 8, 31)

	// Either date alone is fine, ordering only binds when both are set.
	if err := checkFormDates(&early, nil); err != nil {
		t.Errorf("start only: %v", err)
	}
	if err := checkFormDates(nil, &late); err != nil {
		t.Errorf("end only: %v", err)
	}
	if err := checkFormDates(&late, &early); err == nil {
		t.Error("inverted: expected an error")
	}
}

func TestFieldEditing(t *testing.T) {
	var f Field
	f.Type("12")
	f.Type("3")
	if f.Value != "123" {
		t.Errorf("expected 123, got %q", f.Value)
	}
	f.Backspace()
	if f.Value != "12" {
		t.Errorf("expected 12, got %q", f.Value)
	}
	f.Backspace()
	f.Backspace()
	f.Backspace()
	if f.Value != "" {
		t.Errorf("expected empty, got %q", f.Value)
	}
}
