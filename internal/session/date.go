package session

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUnrecognizedHeading = errors.New("unrecognized day heading")
	ErrUnknownMonth        = errors.New("unknown month name")
	ErrInvalidDate         = errors.New("invalid date")
	ErrNoTimeRange         = errors.New("no time range found")
	ErrInvalidClock        = errors.New("invalid clock time")
	ErrInvalidTimestamp    = errors.New("invalid datetime attribute")
)

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var (
	// "10:00 - 10:45 CEST", "10:00–10:45", "14:00"
	timeRangePattern = regexp.MustCompile(`(\d{1,2}:\d{2})\s*(?:[–-]\s*(\d{1,2}:\d{2}))?\s*([A-Z]{2,5}\b)?`)

	// Only matches when both ends are present, e.g. "June 6, 2025 at 10:00 - 11:00 CEST"
	explicitRangePattern = regexp.MustCompile(`(\d{1,2}:\d{2})\s*[–-]\s*(\d{1,2}:\d{2})`)
)

// DayContext is the calendar date shared by every session in one schedule block
type DayContext struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// ParseDayHeading parses a schedule block heading into a DayContext.
// Supports "Wednesday, June 4, 2025" and "June 4, 2025"; the shape is picked by comma count.
func ParseDayHeading(text string) (DayContext, error) {
	text = NormalizeText(text)

	var monthDay, yearText string
	parts := strings.Split(text, ", ")
	switch len(parts) {
	case 3: // Weekday, Month Day, Year
		monthDay, yearText = parts[1], parts[2]
	case 2: // Month Day, Year
		monthDay, yearText = parts[0], parts[1]
	default:
		return DayContext{}, fmt.Errorf("%w: %q", ErrUnrecognizedHeading, text)
	}

	fields := strings.Fields(monthDay)
	if len(fields) != 2 {
		return DayContext{}, fmt.Errorf("%w: %q", ErrUnrecognizedHeading, text)
	}

	month, ok := lookupMonth(fields[0])
	if !ok {
		return DayContext{}, fmt.Errorf("%w: %q in %q", ErrUnknownMonth, fields[0], text)
	}

	day, err := strconv.Atoi(trimOrdinal(fields[1]))
	if err != nil {
		return DayContext{}, fmt.Errorf("%w: day %q in %q", ErrInvalidDate, fields[1], text)
	}
	year, err := strconv.Atoi(strings.TrimSpace(yearText))
	if err != nil {
		return DayContext{}, fmt.Errorf("%w: year %q in %q", ErrInvalidDate, yearText, text)
	}

	dc := DayContext{Year: year, Month: month, Day: day}
	if !dc.valid() {
		return DayContext{}, fmt.Errorf("%w: %q", ErrInvalidDate, text)
	}
	return dc, nil
}

// lookupMonth resolves a full English month name, ignoring case
func lookupMonth(name string) (time.Month, bool) {
	for i, m := range monthNames {
		if strings.EqualFold(m, name) {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

// trimOrdinal strips "st", "nd", "rd" and "th" from day numbers like "4th"
func trimOrdinal(s string) string {
	for _, suffix := range []string{"st", "nd", "rd", "th"} {
		if strings.HasSuffix(s, suffix) {
			return strings.TrimSuffix(s, suffix)
		}
	}
	return s
}

// valid rejects dates time.Date would silently normalize (June 31 -> July 1)
func (d DayContext) valid() bool {
	if d.Year < 1 || d.Year > 9999 {
		return false
	}
	t := d.Date(time.UTC)
	return t.Month() == d.Month && t.Day() == d.Day
}

// Date returns midnight of the day in loc
func (d DayContext) Date(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d DayContext) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Clock is a wall-clock time of day
type Clock struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ParseClock parses "H:MM" or "HH:MM"
func ParseClock(s string) (Clock, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// Add advances the clock by d and wraps at 24:00. wrapped reports whether it did.
func (c Clock) Add(d time.Duration) (next Clock, wrapped bool) {
	const day = 24 * 60
	total := c.Hour*60 + c.Minute + int(d/time.Minute)
	if total >= day {
		total -= day
		wrapped = true
	}
	return Clock{Hour: total / 60, Minute: total % 60}, wrapped
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// TimeRange is the parsed form of a session's free-text time field
type TimeRange struct {
	Start  Clock  `json:"start"`
	End    Clock  `json:"end"`
	HasEnd bool   `json:"has_end"`
	Zone   string `json:"zone,omitempty"` // Label as printed on the page, e.g. "CEST"

	// Wrapped is set when the default end rolled past midnight onto the same day
	Wrapped bool `json:"wrapped,omitempty"`
}

// ParseTimeRange extracts "H:MM [- H:MM] [ZONE]" from text.
// Without an explicit end the range is one hour long. The end hour wraps at 24 but the
// date does not advance: "23:30" ends at "00:30" of the same calendar day.
func ParseTimeRange(text string) (TimeRange, error) {
	return ParseTimeRangeDefault(text, DefaultDuration)
}

// ParseTimeRangeDefault is ParseTimeRange with a caller-chosen default length
func ParseTimeRangeDefault(text string, d time.Duration) (TimeRange, error) {
	m := timeRangePattern.FindStringSubmatch(text)
	if m == nil {
		return TimeRange{}, fmt.Errorf("%w: %q", ErrNoTimeRange, text)
	}

	start, err := ParseClock(m[1])
	if err != nil {
		return TimeRange{}, err
	}

	tr := TimeRange{Start: start, Zone: m[3]}
	if m[2] != "" {
		end, err := ParseClock(m[2])
		if err != nil {
			return TimeRange{}, err
		}
		tr.End = end
		tr.HasEnd = true
	} else {
		tr.End, tr.Wrapped = start.Add(d)
	}
	return tr, nil
}

// FixedZone returns a zone offsetMinutes east of UTC
func FixedZone(offsetMinutes int) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+03d:%02d", offsetMinutes/60, abs(offsetMinutes%60)), offsetMinutes*60)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ToUTC converts a wall-clock time on day, read at UTC+offsetMinutes, into a UTC instant.
// This is plain offset arithmetic: the source page's offset is known in advance and no
// daylight-saving rules are consulted.
func ToUTC(day DayContext, c Clock, offsetMinutes int) time.Time {
	local := time.Date(day.Year, day.Month, day.Day, c.Hour, c.Minute, 0, 0, time.UTC)
	return local.Add(-time.Duration(offsetMinutes) * time.Minute)
}

// Span combines a day with a time range into a UTC start/end pair
func (d DayContext) Span(tr TimeRange, offsetMinutes int) (start, end time.Time) {
	return ToUTC(d, tr.Start, offsetMinutes), ToUTC(d, tr.End, offsetMinutes)
}

// ParseTimestamp parses a machine-readable datetime attribute.
// An explicit offset ("2025-06-06T10:00:00+02:00") wins; otherwise the wall clock is read in loc.
func ParseTimestamp(attr string, loc *time.Location) (time.Time, error) {
	attr = strings.TrimSpace(attr)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04Z07:00", "2006-01-02 15:04:05Z07:00", "2006-01-02 15:04Z07:00"} {
		if t, err := time.Parse(layout, attr); err == nil {
			return t, nil
		}
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, attr, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, attr)
}

// EndFromText looks for an explicit "H:MM - H:MM" range in text and returns its end on
// start's date, reading the clock at UTC+offsetMinutes. ok is false when text has no
// complete range.
func EndFromText(start time.Time, text string, offsetMinutes int) (end time.Time, ok bool) {
	m := explicitRangePattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	c, err := ParseClock(m[2])
	if err != nil {
		return time.Time{}, false
	}

	y, mo, d := start.In(FixedZone(offsetMinutes)).Date()
	return ToUTC(DayContext{Year: y, Month: mo, Day: d}, c, offsetMinutes), true
}
