package rotation

import "testing"

func TestParseHHMM(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:00", 480, false},
		{"20:30", 1230, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"8", 0, true},
		{"ab:cd", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseHHMM(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseHHMM(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHHMM(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseHHMM(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestIsNightWindow(t *testing.T) {
	cases := []struct {
		start, end string
		want       bool
	}{
		{"08:00", "20:00", false}, // plain day shift
		{"20:00", "08:00", true},  // crosses midnight
		{"19:00", "07:00", true},
		{"22:00", "22:00", true}, // degenerate interval counts as night
		{"09:00", "18:00", false},
		{"bad", "18:00", false}, // unparseable falls back to day
	}
	for _, tc := range cases {
		if got := IsNightWindow(tc.start, tc.end); got != tc.want {
			t.Errorf("IsNightWindow(%q, %q) = %v, want %v", tc.start, tc.end, got, tc.want)
		}
	}
}
