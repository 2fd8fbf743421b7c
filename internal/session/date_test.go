package session

import (
	"errors"
	"testing"
	"time"
)

func TestParseDayHeading(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    DayContext
		wantErr error
	}{
		{
			name: "weekday month day year",
			text: "Wednesday, June 4, 2025",
			want: DayContext{Year: 2025, Month: time.June, Day: 4},
		},
		{
			name: "month day year",
			text: "June 5, 2025",
			want: DayContext{Year: 2025, Month: time.June, Day: 5},
		},
		{
			name: "extra whitespace from page markup",
			text: "\n\t  Friday,   June 6,\n 2025  ",
			want: DayContext{Year: 2025, Month: time.June, Day: 6},
		},
		{
			name: "lowercase month",
			text: "august 26, 2025",
			want: DayContext{Year: 2025, Month: time.August, Day: 26},
		},
		{
			name: "ordinal day",
			text: "Thursday, June 5th, 2025",
			want: DayContext{Year: 2025, Month: time.June, Day: 5},
		},
		{
			name:    "no commas",
			text:    "June 4 2025",
			wantErr: ErrUnrecognizedHeading,
		},
		{
			name:    "too many commas",
			text:    "Day 1, Wednesday, June 4, 2025",
			wantErr: ErrUnrecognizedHeading,
		},
		{
			name:    "abbreviated month",
			text:    "Wednesday, Jun 4, 2025",
			wantErr: ErrUnknownMonth,
		},
		{
			name:    "non-numeric day",
			text:    "June four, 2025",
			wantErr: ErrInvalidDate,
		},
		{
			name:    "non-numeric year",
			text:    "June 4, TBA",
			wantErr: ErrInvalidDate,
		},
		{
			name:    "day out of range",
			text:    "June 31, 2025",
			wantErr: ErrInvalidDate,
		},
		{
			name:    "empty",
			text:    "",
			wantErr: ErrUnrecognizedHeading,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDayHeading(tt.text)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseDayHeading(%q) error = %v, want %v", tt.text, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDayHeading(%q) unexpected error: %v", tt.text, err)
			}
			if got != tt.want {
				t.Errorf("ParseDayHeading(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantStart   string
		wantEnd     string
		wantHasEnd  bool
		wantZone    string
		wantWrapped bool
		wantErr     error
	}{
		{
			name:       "hyphen with zone",
			text:       "10:00 - 10:45 CEST",
			wantStart:  "10:00",
			wantEnd:    "10:45",
			wantHasEnd: true,
			wantZone:   "CEST",
		},
		{
			name:       "en dash without spaces",
			text:       "9:30–10:15",
			wantStart:  "09:30",
			wantEnd:    "10:15",
			wantHasEnd: true,
		},
		{
			name:      "start only defaults to one hour",
			text:      "14:00",
			wantStart: "14:00",
			wantEnd:   "15:00",
		},
		{
			name:      "start only with zone",
			text:      "Starts 8:15 CEST",
			wantStart: "08:15",
			wantEnd:   "09:15",
			wantZone:  "CEST",
		},
		{
			name:        "start only wraps at midnight",
			text:        "23:30",
			wantStart:   "23:30",
			wantEnd:     "00:30",
			wantWrapped: true,
		},
		{
			name:    "no time",
			text:    "Lunch break",
			wantErr: ErrNoTimeRange,
		},
		{
			name:    "hour out of range",
			text:    "25:00 - 26:00",
			wantErr: ErrInvalidClock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeRange(tt.text)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseTimeRange(%q) error = %v, want %v", tt.text, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeRange(%q) unexpected error: %v", tt.text, err)
			}
			if got.Start.String() != tt.wantStart {
				t.Errorf("Start = %s, want %s", got.Start, tt.wantStart)
			}
			if got.End.String() != tt.wantEnd {
				t.Errorf("End = %s, want %s", got.End, tt.wantEnd)
			}
			if got.HasEnd != tt.wantHasEnd {
				t.Errorf("HasEnd = %v, want %v", got.HasEnd, tt.wantHasEnd)
			}
			if got.Zone != tt.wantZone {
				t.Errorf("Zone = %q, want %q", got.Zone, tt.wantZone)
			}
			if got.Wrapped != tt.wantWrapped {
				t.Errorf("Wrapped = %v, want %v", got.Wrapped, tt.wantWrapped)
			}
		})
	}
}

func TestDayContext_Span(t *testing.T) {
	day := DayContext{Year: 2025, Month: time.June, Day: 4}

	tests := []struct {
		name      string
		text      string
		offset    int
		wantStart string
		wantEnd   string
	}{
		{
			name:      "CEST range",
			text:      "10:00 - 10:45 CEST",
			offset:    120,
			wantStart: "20250604T080000Z",
			wantEnd:   "20250604T084500Z",
		},
		{
			name:      "early morning crosses to previous UTC day",
			text:      "01:00 - 01:30",
			offset:    120,
			wantStart: "20250603T230000Z",
			wantEnd:   "20250603T233000Z",
		},
		{
			name:      "negative offset",
			text:      "09:00",
			offset:    -420,
			wantStart: "20250604T160000Z",
			wantEnd:   "20250604T170000Z",
		},
		{
			name:      "zero offset",
			text:      "12:00 - 13:00",
			offset:    0,
			wantStart: "20250604T120000Z",
			wantEnd:   "20250604T130000Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := ParseTimeRange(tt.text)
			if err != nil {
				t.Fatalf("ParseTimeRange(%q) error: %v", tt.text, err)
			}
			start, end := day.Span(tr, tt.offset)
			if got := start.Format("20060102T150405Z"); got != tt.wantStart {
				t.Errorf("start = %s, want %s", got, tt.wantStart)
			}
			if got := end.Format("20060102T150405Z"); got != tt.wantEnd {
				t.Errorf("end = %s, want %s", got, tt.wantEnd)
			}
		})
	}
}

func TestClock_Add(t *testing.T) {
	tests := []struct {
		clock       Clock
		d           time.Duration
		want        string
		wantWrapped bool
	}{
		{Clock{10, 0}, 45 * time.Minute, "10:45", false},
		{Clock{10, 30}, 45 * time.Minute, "11:15", false},
		{Clock{23, 0}, time.Hour, "00:00", true},
		{Clock{23, 30}, 45 * time.Minute, "00:15", true},
	}

	for _, tt := range tests {
		t.Run(tt.clock.String(), func(t *testing.T) {
			got, wrapped := tt.clock.Add(tt.d)
			if got.String() != tt.want {
				t.Errorf("Add(%v) = %s, want %s", tt.d, got, tt.want)
			}
			if wrapped != tt.wantWrapped {
				t.Errorf("Add(%v) wrapped = %v, want %v", tt.d, wrapped, tt.wantWrapped)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("tzdata not available: %v", err)
	}

	tests := []struct {
		name    string
		attr    string
		loc     *time.Location
		wantUTC string
		wantErr bool
	}{
		{
			name:    "with offset",
			attr:    "2025-06-06T10:00:00+02:00",
			loc:     la,
			wantUTC: "2025-06-06T08:00:00Z",
		},
		{
			name:    "utc designator",
			attr:    "2025-06-06T08:00:00Z",
			wantUTC: "2025-06-06T08:00:00Z",
		},
		{
			name:    "no offset read in location",
			attr:    "2025-08-26T10:00:00",
			loc:     la,
			wantUTC: "2025-08-26T17:00:00Z",
		},
		{
			name:    "no seconds",
			attr:    "2025-08-26T10:00",
			loc:     la,
			wantUTC: "2025-08-26T17:00:00Z",
		},
		{
			name:    "offset without seconds",
			attr:    "2025-06-06T10:00+02:00",
			loc:     la,
			wantUTC: "2025-06-06T08:00:00Z",
		},
		{
			name:    "utc designator without seconds",
			attr:    "2025-06-06T08:00Z",
			loc:     la,
			wantUTC: "2025-06-06T08:00:00Z",
		},
		{
			name:    "space separated with offset",
			attr:    "2025-06-06 10:00:00+02:00",
			wantUTC: "2025-06-06T08:00:00Z",
		},
		{
			name:    "space separated no seconds read in location",
			attr:    "2025-08-26 10:00",
			loc:     la,
			wantUTC: "2025-08-26T17:00:00Z",
		},
		{
			name:    "no offset nil location defaults to UTC",
			attr:    "2025-08-26T10:00:00",
			wantUTC: "2025-08-26T10:00:00Z",
		},
		{
			name:    "garbage",
			attr:    "next tuesday",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.attr, tt.loc)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTimestamp) {
					t.Fatalf("ParseTimestamp(%q) error = %v, want ErrInvalidTimestamp", tt.attr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) unexpected error: %v", tt.attr, err)
			}
			if s := got.UTC().Format(time.RFC3339); s != tt.wantUTC {
				t.Errorf("ParseTimestamp(%q) = %s, want %s", tt.attr, s, tt.wantUTC)
			}
		})
	}
}

func TestEndFromText(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2025-06-06T10:00:00+02:00")

	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{
			name:   "explicit range",
			text:   "June 6, 2025 at 10:00 - 11:00 CEST",
			want:   "2025-06-06T09:00:00Z",
			wantOK: true,
		},
		{
			name:   "en dash",
			text:   "10:00–10:30",
			want:   "2025-06-06T08:30:00Z",
			wantOK: true,
		},
		{
			name:   "start only",
			text:   "June 6, 2025 at 10:00 CEST",
			wantOK: false,
		},
		{
			name:   "empty",
			text:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EndFromText(start, tt.text, 120)
			if ok != tt.wantOK {
				t.Fatalf("EndFromText(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if ok && got.UTC().Format(time.RFC3339) != tt.want {
				t.Errorf("EndFromText(%q) = %s, want %s", tt.text, got.UTC().Format(time.RFC3339), tt.want)
			}
		})
	}
}
