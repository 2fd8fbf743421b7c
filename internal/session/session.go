package session

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultDuration is used when a session has no explicit end time.
	DefaultDuration = time.Hour

	// ShortSessionDuration is the fixed length of WordCamp US 2025 sessions.
	ShortSessionDuration = 45 * time.Minute
)

var (
	ErrMissingTitle   = errors.New("session has no title")
	ErrMissingStart   = errors.New("session has no start time")
	ErrEndBeforeStart = errors.New("session ends before it starts")
)

// Session represents a single talk extracted from a schedule or session page
type Session struct {
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Location  string    `json:"location,omitempty"`
	Speakers  string    `json:"speakers,omitempty"`
	SourceURL string    `json:"source_url"`
	RawTime   string    `json:"raw_time,omitempty"` // Time text the instants were parsed from

	// Wrapped is set when the end clock rolled past 24:00 onto the same calendar day,
	// which leaves End before Start. Kept as-is to match the source pages' convention.
	Wrapped bool `json:"wrapped,omitempty"`
}

// New creates a Session with whitespace-normalized text fields.
// A zero end is replaced by start + DefaultDuration.
func New(title string, start, end time.Time, sourceURL string) *Session {
	if end.IsZero() && !start.IsZero() {
		end = start.Add(DefaultDuration)
	}
	return &Session{
		Title:     NormalizeText(title),
		Start:     start,
		End:       end,
		SourceURL: sourceURL,
	}
}

// Duration returns End - Start
func (s *Session) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Validate checks the fields a calendar link cannot be built without.
// An end before the start is only accepted for Wrapped sessions.
func (s *Session) Validate() error {
	if s.Title == "" {
		return ErrMissingTitle
	}
	if s.Start.IsZero() {
		return ErrMissingStart
	}
	if s.End.Before(s.Start) && !s.Wrapped {
		return fmt.Errorf("%w: %s > %s", ErrEndBeforeStart,
			s.Start.Format(time.RFC3339), s.End.Format(time.RFC3339))
	}
	return nil
}

// NormalizeText collapses runs of whitespace into single spaces and trims the result.
// Text pulled from the DOM keeps the indentation of the page source otherwise.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
