package taxcalc

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  Date
		err   bool
	}{
		{"2024-01-10", NewDate(2024, time.January, 10), false},
		{"2024-1-2", NewDate(2024, time.January, 2), false},
		{"2024-01-10 14:03:21", NewDate(2024, time.January, 10), false},
		{"2024-01-10T14:03:21", NewDate(2024, time.January, 10), false},
		{"2024-01-10T14:03:21Z", NewDate(2024, time.January, 10), false},
		{"", Date{}, true},
		{"not-a-date", Date{}, true},
	}
	for _, tc := range tests {
		got, err := ParseDate(tc.input)
		if tc.err {
			if err == nil {
				t.Errorf("ParseDate(%q) = %v, want error", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDate(%q): %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDate(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestPreviousBusinessDay(t *testing.T) {
	tests := []struct {
		day  Date
		want Date
	}{
		// Monday -> preceding Friday.
		{NewDate(2024, time.March, 11), NewDate(2024, time.March, 8)},
		// Sunday -> preceding Friday.
		{NewDate(2024, time.March, 10), NewDate(2024, time.March, 8)},
		// Wednesday -> Tuesday.
		{NewDate(2024, time.March, 13), NewDate(2024, time.March, 12)},
	}
	for _, tc := range tests {
		if got := tc.day.PreviousBusinessDay(); got != tc.want {
			t.Errorf("%s.PreviousBusinessDay() = %s, want %s", tc.day, got, tc.want)
		}
	}
}

func TestDateNormalization(t *testing.T) {
	// Day arithmetic rolls over month boundaries.
	if got := NewDate(2024, time.January, 31).Add(1); got != NewDate(2024, time.February, 1) {
		t.Errorf("Jan 31 + 1 = %s", got)
	}
	if got := NewDate(2024, time.March, 1).Add(-1); got != NewDate(2024, time.February, 29) {
		t.Errorf("Mar 1 - 1 = %s (2024 is a leap year)", got)
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, time.July, 1)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"2024-07-01"` {
		t.Errorf("marshal = %s", data)
	}
	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != d {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}
