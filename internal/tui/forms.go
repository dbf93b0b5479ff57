package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bitzerlab/ordertrack/internal/entity"
)

// Field is a plain text form field. Values stay strings while editing and
// are only parsed and validated on submit, so half-typed numbers and dates
// never block typing.
type Field struct {
	Label       string
	Value       string
	Placeholder string
	Optional    bool
}

// Type appends text to the field.
func (f *Field) Type(text string) {
	f.Value += text
}

// Backspace removes the last rune.
func (f *Field) Backspace() {
	if f.Value == "" {
		return
	}
	runes := []rune(f.Value)
	f.Value = string(runes[:len(runes)-1])
}

// View renders the field line.
func (f *Field) View(focused bool) string {
	text := f.Value
	if focused {
		return inputStyle.Render(text + "█")
	}
	if text == "" {
		return dimStyle.Render(f.Placeholder)
	}
	return text
}

// Int64 parses the field as a positive integer.
func (f *Field) Int64() (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(f.Value), 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive number", f.Label)
	}
	return v, nil
}

// OptionalInt64 parses the field as a non-negative integer, nil when empty.
func (f *Field) OptionalInt64() (*int64, error) {
	s := strings.TrimSpace(f.Value)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("%s must be a non-negative number", f.Label)
	}
	return &v, nil
}

// OptionalDate parses the field as a YYYY-MM-DD date, nil when empty.
func (f *Field) OptionalDate() (*entity.Date, error) {
	s := strings.TrimSpace(f.Value)
	if s == "" {
		return nil, nil
	}
	d, err := entity.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("%s must be a YYYY-MM-DD date", f.Label)
	}
	return &d, nil
}

// OptionalTime parses the field as a local "YYYY-MM-DD HH:MM" timestamp,
// nil when empty.
func (f *Field) OptionalTime() (*time.Time, error) {
	s := strings.TrimSpace(f.Value)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%s must be YYYY-MM-DD HH:MM", f.Label)
	}
	return &t, nil
}

// Text returns the trimmed value, nil when empty.
func (f *Field) Text() *string {
	s := strings.TrimSpace(f.Value)
	if s == "" {
		return nil
	}
	return &s
}

// Required returns the trimmed value or an error when empty.
func (f *Field) Required() (string, error) {
	s := strings.TrimSpace(f.Value)
	if s == "" {
		return "", fmt.Errorf("%s is required", f.Label)
	}
	return s, nil
}

// checkFormDates enforces start-before-end, but only once both dates are
// present; either date alone is fine.
func checkFormDates(start, end *entity.Date) error {
	if start != nil && end != nil && start.After(*end) {
		return fmt.Errorf("start date cannot be after end date")
	}
	return nil
}
