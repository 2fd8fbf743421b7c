package scraper

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/andrasguseo/wordcamp-gcal/internal/config"
	"github.com/andrasguseo/wordcamp-gcal/internal/logger"
	"github.com/andrasguseo/wordcamp-gcal/internal/session"
)

// ProcessSchedule links every session of a multi-day schedule page.
// Times on the page are read at the site's fixed source offset.
func ProcessSchedule(doc *goquery.Document, site *config.Site, pageURL string, opts Options) *Report {
	r := newReport(site, pageURL)
	sel := site.Selectors

	doc.Find(sel.DayBlock).Each(func(_ int, block *goquery.Selection) {
		heading := block.Find(sel.DayHeading).First()
		if heading.Length() == 0 {
			r.skip("blocks.skipped", Skip{Reason: "could not find date element for a daily schedule block"}, nil)
			return
		}

		raw := session.NormalizeText(heading.Text())
		day, err := session.ParseDayHeading(raw)
		if err != nil {
			r.skip("blocks.skipped", Skip{Reason: "failed to parse schedule date", Raw: raw}, err)
			return
		}

		block.Find(sel.SessionRow).Each(func(_ int, row *goquery.Selection) {
			titleEl := row.Find(sel.SessionTitle).First()
			timeEl := row.Find(sel.SessionTime).First()
			if titleEl.Length() == 0 || timeEl.Length() == 0 {
				// Breaks and other untitled rows
				logger.Debug("schedule row without title or time", logger.Fields{"day": day.String()})
				return
			}

			title := session.NormalizeText(titleEl.Text())
			timeText := session.NormalizeText(timeEl.Text())

			tr, err := session.ParseTimeRangeDefault(timeText, site.DefaultDuration)
			if err != nil {
				r.skip("sessions.skipped", Skip{Reason: "could not extract time string from session", Title: title, Raw: timeText}, err)
				return
			}

			start, end := day.Span(tr, site.SourceOffsetMinutes)
			s := session.New(title, start, end, pageURL)
			s.RawTime = timeText
			s.Wrapped = tr.Wrapped

			r.emit(s, site, timeEl, opts)
		})
	})

	return r
}
