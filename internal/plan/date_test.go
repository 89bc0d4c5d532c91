package plan

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Date
		wantErr bool
	}{
		{"valid date", "2024-01-15", NewDate(2024, time.January, 15), false},
		{"empty is zero, not an error", "", Date{}, false},
		{"garbage", "15/01/2024", Date{}, true},
		{"month out of range", "2024-13-01", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestDateDaysSince(t *testing.T) {
	tests := []struct {
		name string
		d, o Date
		want int
	}{
		{"same day", NewDate(2024, 1, 5), NewDate(2024, 1, 5), 0},
		{"forward", NewDate(2024, 1, 10), NewDate(2024, 1, 1), 9},
		{"backward", NewDate(2024, 1, 1), NewDate(2024, 1, 10), -9},
		{"across month boundary", NewDate(2024, 3, 1), NewDate(2024, 2, 28), 2},
		{"across year boundary", NewDate(2025, 1, 1), NewDate(2024, 12, 31), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.DaysSince(tt.o); got != tt.want {
				t.Errorf("DaysSince() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDateAddDays(t *testing.T) {
	d := NewDate(2024, time.January, 10)
	if got := d.AddDays(-3); !got.Equal(NewDate(2024, time.January, 7)) {
		t.Errorf("AddDays(-3) = %s, want 2024-01-07", got)
	}
	if got := (Date{}).AddDays(5); !got.IsZero() {
		t.Errorf("zero date AddDays = %s, want zero", got)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	type wrapper struct {
		When Date `json:"when"`
	}

	in := wrapper{When: NewDate(2024, time.June, 1)}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"when":"2024-06-01"}` {
		t.Errorf("Marshal() = %s", data)
	}

	var out wrapper
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !out.When.Equal(in.When) {
		t.Errorf("round trip = %s, want %s", out.When, in.When)
	}
}

func TestDateJSONAbsent(t *testing.T) {
	type wrapper struct {
		When Date `json:"when"`
	}

	for _, payload := range []string{`{"when":null}`, `{"when":""}`} {
		var out wrapper
		if err := json.Unmarshal([]byte(payload), &out); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", payload, err)
		}
		if !out.When.IsZero() {
			t.Errorf("Unmarshal(%s) = %s, want zero", payload, out.When)
		}
	}
}
