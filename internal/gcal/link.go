package gcal

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/andrasguseo/wordcamp-gcal/internal/config"
	"github.com/andrasguseo/wordcamp-gcal/internal/session"
)

const (
	BaseURL = "https://calendar.google.com/calendar/render"

	utcLayout   = "20060102T150405Z"
	localLayout = "20060102T150405"
)

// LinkRequest is everything a calendar template URL is built from
type LinkRequest struct {
	Title    string
	Details  string
	Location string
	Start    time.Time
	End      time.Time
	Encoding config.Encoding
	TimeZone string // IANA zone, sent as ctz with EncodingLocal

	loc *time.Location
}

// NewLinkRequest derives a LinkRequest from a session using the site's encoding and defaults
func NewLinkRequest(s *session.Session, site *config.Site) (LinkRequest, error) {
	if err := s.Validate(); err != nil {
		return LinkRequest{}, err
	}

	location := s.Location
	if location == "" {
		location = site.DefaultLocation
	}

	req := LinkRequest{
		Title:    s.Title,
		Details:  Details(s.Speakers, s.SourceURL),
		Location: location,
		Start:    s.Start,
		End:      s.End,
		Encoding: site.Encoding,
		TimeZone: site.TimeZone,
	}

	if req.Encoding == config.EncodingLocal {
		loc, err := site.Location()
		if err != nil {
			return LinkRequest{}, fmt.Errorf("loading timezone %s: %w", site.TimeZone, err)
		}
		req.loc = loc
	}
	return req, nil
}

// Details composes the event description: an optional presenter line and the page URL
func Details(speakers, pageURL string) string {
	var b strings.Builder
	if speakers != "" {
		b.WriteString("Presented by: ")
		b.WriteString(speakers)
		b.WriteString("\n\n")
	}
	b.WriteString("More info: ")
	b.WriteString(pageURL)
	return b.String()
}

// Dates returns the dates parameter value, "START/END"
func (r LinkRequest) Dates() string {
	if r.Encoding == config.EncodingLocal {
		loc := r.location()
		return FormatLocal(r.Start, loc) + "/" + FormatLocal(r.End, loc)
	}
	return FormatUTC(r.Start) + "/" + FormatUTC(r.End)
}

func (r LinkRequest) location() *time.Location {
	if r.loc != nil {
		return r.loc
	}
	if r.TimeZone != "" {
		if loc, err := time.LoadLocation(r.TimeZone); err == nil {
			return loc
		}
	}
	return r.Start.Location()
}

// URL builds the calendar template URL. Parameter order is fixed so output is stable.
func (r LinkRequest) URL() string {
	var b strings.Builder
	b.WriteString(BaseURL)
	b.WriteString("?action=TEMPLATE")
	b.WriteString("&text=" + EncodeComponent(r.Title))
	b.WriteString("&dates=" + r.Dates())
	if r.Encoding == config.EncodingLocal {
		b.WriteString("&ctz=" + EncodeComponent(r.location().String()))
	}
	b.WriteString("&details=" + EncodeComponent(r.Details))
	b.WriteString("&location=" + EncodeComponent(r.Location))
	return b.String()
}

// FormatUTC formats t as "20060102T150405Z" in UTC
func FormatUTC(t time.Time) string {
	return t.UTC().Format(utcLayout)
}

// FormatLocal formats the wall clock of t in loc as "20060102T150405"
func FormatLocal(t time.Time, loc *time.Location) string {
	if loc == nil {
		return t.Format(localLayout)
	}
	return t.In(loc).Format(localLayout)
}

// componentUnescaper undoes QueryEscape for the characters encodeURIComponent keeps literal
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent percent-encodes s the way encodeURIComponent does: spaces become %20
// and !'()* stay literal
func EncodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
