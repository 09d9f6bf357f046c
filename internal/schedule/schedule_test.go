package schedule

import "testing"

func TestTableAllows(t *testing.T) {
	table := Table{
		Monday: {Enabled: true, StartMinutes: 11 * 60, EndMinutes: 13*60 + 59},
		Friday: {Enabled: false, StartMinutes: 0, EndMinutes: 23*60 + 59},
	}

	tests := []struct {
		day          Weekday
		hour, minute int
		want         bool
	}{
		{Monday, 11, 0, true},   // start inclusive
		{Monday, 13, 59, true},  // end inclusive
		{Monday, 10, 59, false}, // one minute early
		{Monday, 14, 0, false},  // one minute late
		{Friday, 12, 0, false},  // disabled
		{Sunday, 12, 0, false},  // unconfigured
	}
	for _, tt := range tests {
		if got := table.Allows(tt.day, tt.hour, tt.minute); got != tt.want {
			t.Errorf("Allows(%v, %02d:%02d) = %v, want %v", tt.day, tt.hour, tt.minute, got, tt.want)
		}
	}
}

func TestParseWeekday(t *testing.T) {
	if d, ok := ParseWeekday(" MON "); !ok || d != Monday {
		t.Errorf("ParseWeekday(MON) = %v, %v", d, ok)
	}
	if _, ok := ParseWeekday("segunda"); ok {
		t.Error("full names are not valid keys")
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"11:00", 11 * 60, false},
		{"11h00", 11 * 60, false},
		{"09h30", 9*60 + 30, false},
		{"23:59", 23*60 + 59, false},
		{"24:00", 0, true},
		{"11:60", 0, true},
		{"nope", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(11*60 + 5); got != "11:05" {
		t.Errorf("FormatClock = %q", got)
	}
}

func TestClone_Independent(t *testing.T) {
	orig := Table{Monday: {Enabled: true}}
	c := orig.Clone()
	c[Monday] = Window{Enabled: false}
	if !orig[Monday].Enabled {
		t.Error("Clone must not share storage with the original")
	}
}
