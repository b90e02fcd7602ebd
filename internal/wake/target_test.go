package wake

import (
	"testing"
	"time"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    TargetWakeTime
		wantErr bool
	}{
		{in: "7:30 AM", want: TargetWakeTime{7, 30, AM}},
		{in: "7:30am", want: TargetWakeTime{7, 30, AM}},
		{in: "07:05 pm", want: TargetWakeTime{7, 5, PM}},
		{in: "12:00 AM", want: TargetWakeTime{12, 0, AM}},
		{in: "7:30", wantErr: true},
		{in: "13:00 PM", wantErr: true},
		{in: "7:5 AM", wantErr: true},
		{in: "seven AM", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseTarget(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTarget(%q) = %v, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTarget(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTarget(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestHour24(t *testing.T) {
	tests := []struct {
		target TargetWakeTime
		want   int
	}{
		{TargetWakeTime{12, 0, AM}, 0},
		{TargetWakeTime{1, 0, AM}, 1},
		{TargetWakeTime{11, 0, AM}, 11},
		{TargetWakeTime{12, 0, PM}, 12},
		{TargetWakeTime{1, 0, PM}, 13},
		{TargetWakeTime{11, 0, PM}, 23},
	}
	for _, tt := range tests {
		if got := tt.target.Hour24(); got != tt.want {
			t.Errorf("%s.Hour24() = %d, want %d", tt.target, got, tt.want)
		}
	}
}

func TestTargetFromTimeRoundTrip(t *testing.T) {
	for h := 0; h < 24; h++ {
		at := time.Date(2024, 1, 1, h, 15, 0, 0, time.UTC)
		tw := TargetFromTime(at)
		if err := tw.Validate(); err != nil {
			t.Fatalf("TargetFromTime(%v) invalid: %v", at, err)
		}
		if tw.Hour24() != h {
			t.Errorf("TargetFromTime(%02d:15).Hour24() = %d", h, tw.Hour24())
		}
	}
}

func TestClock12(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC)
	if got := Clock12(at); got != "12:05 AM" {
		t.Errorf("Clock12 = %q, want %q", got, "12:05 AM")
	}
	at = time.Date(2024, 1, 1, 13, 45, 0, 0, time.UTC)
	if got := Clock12(at); got != "1:45 PM" {
		t.Errorf("Clock12 = %q, want %q", got, "1:45 PM")
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{3600, "01:00:00"},
		{27000 + 61, "07:31:01"},
		{-5, "00:00:00"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.secs); got != tt.want {
			t.Errorf("FormatElapsed(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
