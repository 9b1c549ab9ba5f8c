package timefmt

import (
	"testing"
	"time"
)

func TestFormatter(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 14, 7, 9, 42_000_000, time.UTC)
	zone := time.FixedZone("UTC+2", 2*3600)

	tests := []struct {
		name    string
		pattern string
		utc     bool
		want    string
	}{
		{"date", "%Y-%m-%d", true, "2024-03-05"},
		{"month names", "%B %b %a", true, "March Mar Tue"},
		{"twelve hour", "%I:%M %p", true, "02:07 PM"},
		{"millis", "%H:%M:%S.%L", true, "14:07:09.042"},
		{"bare millis", "%L", true, "042"},
		{"local zone", "%H:%M", false, "16:07"},
		{"literal digits", "Q1 %Y", true, "Q1 2024"},
		{"day of year", "%j", true, "065"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(tt.pattern, tt.utc, zone)
			if got := f.Format(ts); got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestParseISO(t *testing.T) {
	got, err := ParseISO("2024-01-02T03:04:05.678Z")
	if err != nil {
		t.Fatalf("ParseISO() error = %v", err)
	}
	want := time.Date(2024, 1, 2, 3, 4, 5, 678_000_000, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseISO() = %v, want %v", got, want)
	}
	if _, err := ParseISO("yesterday"); err == nil {
		t.Error("ParseISO(yesterday) expected an error")
	}
}
