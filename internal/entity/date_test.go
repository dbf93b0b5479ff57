package entity

import (
	"encoding/json"
	"testing"
	"time"
)

func TestOrderDatesAbsentMarshalNull(t *testing.T) {
	order := Order{ID: 1, OrderNumber: 1001, MaterialNumber: 55, NumPieces: 10}

	b, err := json.Marshal(order)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"start_date", "end_date"} {
		if string(m[key]) != "null" {
			t.Errorf("%s = %s, want null (never empty string)", key, m[key])
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2025, time.August, 22)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-08-22"` {
		t.Fatalf("marshal = %s, want \"2025-08-22\"", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}

func TestDateUnmarshalRejectsBadFormat(t *testing.T) {
	for _, raw := range []string{`"22-08-2025"`, `""`, `"2025/08/22"`} {
		var d Date
		if err := json.Unmarshal([]byte(raw), &d); err == nil {
			t.Errorf("unmarshal %s succeeded, want error", raw)
		}
	}
}

func TestDateAfter(t *testing.T) {
	a := NewDate(2025, time.January, 2)
	b := NewDate(2025, time.January, 1)
	if !a.After(b) {
		t.Error("Jan 2 should be after Jan 1")
	}
	if b.After(a) || a.After(a) {
		t.Error("After should be strict")
	}
}
