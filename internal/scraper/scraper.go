package scraper

import (
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/andrasguseo/wordcamp-gcal/internal/config"
	"github.com/andrasguseo/wordcamp-gcal/internal/gcal"
	"github.com/andrasguseo/wordcamp-gcal/internal/logger"
	"github.com/andrasguseo/wordcamp-gcal/internal/session"
)

// Options control what processing does to the document
type Options struct {
	LinkText string

	// SkipExisting leaves targets already followed by a calendar link alone.
	SkipExisting bool

	// DryRun builds links without touching the document.
	DryRun bool
}

func (o Options) linkText() string {
	if o.LinkText == "" {
		return config.DefaultLinkText
	}
	return o.LinkText
}

// Link is a calendar link built for one session
type Link struct {
	Session  *session.Session `json:"session"`
	URL      string           `json:"url"`
	Inserted bool             `json:"inserted"`
}

// Skip records a block or session that produced no link
type Skip struct {
	Reason string `json:"reason"`
	Title  string `json:"title,omitempty"`
	Raw    string `json:"raw,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Report is the outcome of processing one page
type Report struct {
	Site    string `json:"site"`
	PageURL string `json:"page_url"`
	Links   []Link `json:"links"`
	Skipped []Skip `json:"skipped,omitempty"`
}

// Sessions returns the sessions a link was built for, in page order
func (r *Report) Sessions() []*session.Session {
	sessions := make([]*session.Session, 0, len(r.Links))
	for _, l := range r.Links {
		sessions = append(sessions, l.Session)
	}
	return sessions
}

// Inserted counts links that were added to the document
func (r *Report) Inserted() int {
	n := 0
	for _, l := range r.Links {
		if l.Inserted {
			n++
		}
	}
	return n
}

// Process runs the site's pipeline over doc
func Process(doc *goquery.Document, site *config.Site, pageURL string, opts Options) (*Report, error) {
	start := time.Now()
	defer func() { logger.RecordTiming("page.process", time.Since(start)) }()

	switch site.Pipeline {
	case config.PipelineSchedule:
		return ProcessSchedule(doc, site, pageURL, opts), nil
	case config.PipelineSession:
		return ProcessSession(doc, site, pageURL, opts), nil
	default:
		return nil, fmt.Errorf("site %s: unknown pipeline %q", site.Name, site.Pipeline)
	}
}

func newReport(site *config.Site, pageURL string) *Report {
	return &Report{
		Site:    site.Name,
		PageURL: pageURL,
		Links:   make([]Link, 0),
	}
}

// skip records and logs an item that produced no link
func (r *Report) skip(counter string, s Skip, err error) {
	if err != nil {
		s.Error = err.Error()
	}
	r.Skipped = append(r.Skipped, s)
	logger.IncrCounter(counter)

	fields := logger.Fields{"site": r.Site, "page_url": r.PageURL}
	if s.Title != "" {
		fields["title"] = s.Title
	}
	if s.Raw != "" {
		fields["raw"] = s.Raw
	}
	if err != nil {
		logger.Error(s.Reason, fields, err)
		return
	}
	logger.Warn(s.Reason, fields)
}

// emit builds the link for s and inserts it after target
func (r *Report) emit(s *session.Session, site *config.Site, target *goquery.Selection, opts Options) {
	req, err := gcal.NewLinkRequest(s, site)
	if err != nil {
		r.skip("sessions.skipped", Skip{Reason: "invalid session", Title: s.Title, Raw: s.RawTime}, err)
		return
	}

	link := Link{Session: s, URL: req.URL()}
	if !opts.DryRun {
		err := gcal.InsertAfter(target, gcal.NewAnchor(link.URL, opts.linkText()), opts.SkipExisting)
		switch {
		case errors.Is(err, gcal.ErrAlreadyLinked):
			logger.Debug("calendar link already present", logger.Fields{"title": s.Title})
			logger.IncrCounter("links.existing")
		case err != nil:
			logger.Error("could not append calendar link", logger.Fields{"title": s.Title}, err)
			logger.IncrCounter("links.failed")
		default:
			link.Inserted = true
			logger.IncrCounter("links.inserted")
		}
	}
	r.Links = append(r.Links, link)
}
