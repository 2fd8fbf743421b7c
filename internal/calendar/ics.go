// Package calendar exports extracted sessions as an iCalendar (.ics) file, for calendar
// apps that import files rather than follow Google Calendar template links.
package calendar

import (
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/andrasguseo/wordcamp-gcal/internal/config"
	"github.com/andrasguseo/wordcamp-gcal/internal/gcal"
	"github.com/andrasguseo/wordcamp-gcal/internal/session"
)

const ProductID = "-//wordcamp-gcal//wordcamp-gcal//EN"

// UID returns a stable identifier for a session, so re-importing a page updates events
// instead of duplicating them
func UID(s *session.Session) string {
	key := s.SourceURL + "|" + s.Title + "|" + s.Start.UTC().Format(time.RFC3339)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String() + "@wordcamp-gcal"
}

// GenerateICS builds one VCALENDAR holding a VEVENT per session.
// Returns "" when there are no sessions.
func GenerateICS(sessions []*session.Session, site *config.Site) string {
	if len(sessions) == 0 {
		return ""
	}

	cal := ics.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetMethod(ics.MethodPublish)
	if site != nil && site.EventName != "" {
		cal.SetXWRCalName(site.EventName)
	}

	stamp := time.Now().UTC()
	for _, s := range sessions {
		evt := cal.AddEvent(UID(s))
		evt.SetDtStampTime(stamp)
		evt.SetStartAt(s.Start)
		evt.SetEndAt(eventEnd(s))
		evt.SetSummary(s.Title)
		evt.SetDescription(gcal.Details(s.Speakers, s.SourceURL))
		if loc := location(s, site); loc != "" {
			evt.SetLocation(loc)
		}
		if s.SourceURL != "" {
			evt.SetURL(s.SourceURL)
		}
	}

	return cal.Serialize()
}

// eventEnd moves a wrapped end onto the next day; DTEND may not precede DTSTART
func eventEnd(s *session.Session) time.Time {
	if s.Wrapped && s.End.Before(s.Start) {
		return s.End.AddDate(0, 0, 1)
	}
	return s.End
}

func location(s *session.Session, site *config.Site) string {
	if s.Location != "" {
		return s.Location
	}
	if site != nil {
		return site.DefaultLocation
	}
	return ""
}
