package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/andrasguseo/wordcamp-gcal/internal/config"
	"github.com/andrasguseo/wordcamp-gcal/internal/logger"
	"github.com/andrasguseo/wordcamp-gcal/internal/session"
)

// ProcessSession links a single session page.
//
// The datetime attribute of the time element is the start. The end comes from the
// "H:MM - H:MM" text of the same element when the site enables EndFromText, otherwise
// from the site's default duration. Title, date container and time element are required;
// location and speakers fall back to the site default and "".
func ProcessSession(doc *goquery.Document, site *config.Site, pageURL string, opts Options) *Report {
	r := newReport(site, pageURL)
	sel := site.Selectors

	titleEl := doc.Find(sel.Title).First()
	container := doc.Find(sel.DateContainer).First()
	timeEl := container.Find(sel.Time).First()
	if titleEl.Length() == 0 || container.Length() == 0 || timeEl.Length() == 0 {
		r.skip("sessions.skipped", Skip{Reason: "could not find title or date/time element for single session page"}, nil)
		return r
	}
	title := session.NormalizeText(titleEl.Text())

	attr, ok := timeEl.Attr("datetime")
	if !ok || strings.TrimSpace(attr) == "" {
		r.skip("sessions.skipped", Skip{Reason: "could not find datetime attribute on time tag", Title: title}, nil)
		return r
	}

	loc, err := site.Location()
	if err != nil {
		logger.Warn("unknown site timezone, using source offset", logger.Fields{"timezone": site.TimeZone})
		loc = session.FixedZone(site.SourceOffsetMinutes)
	}

	start, err := session.ParseTimestamp(attr, loc)
	if err != nil {
		r.skip("sessions.skipped", Skip{Reason: "failed to parse date/time for single session page", Title: title, Raw: attr}, err)
		return r
	}

	timeText := session.NormalizeText(timeEl.Text())
	end := start.Add(site.DefaultDuration)
	if site.EndFromText {
		if e, ok := session.EndFromText(start, timeText, site.SourceOffsetMinutes); ok {
			end = e
		}
	}

	s := session.New(title, start, end, pageURL)
	s.RawTime = attr
	s.Location = optionalText(doc, sel.Location, "location")
	s.Speakers = optionalText(doc, sel.Speaker, "speaker")

	r.emit(s, site, container, opts)
	return r
}

// optionalText joins the text of every match of selector with ", ".
// An unset selector yields "" quietly; a set one that matches nothing is logged.
func optionalText(doc *goquery.Document, selector, field string) string {
	if selector == "" {
		return ""
	}

	var parts []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if text := session.NormalizeText(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		logger.Warn("optional element not found, using default", logger.Fields{
			"field":    field,
			"selector": selector,
		})
		return ""
	}
	return strings.Join(parts, ", ")
}
