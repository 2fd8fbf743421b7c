// Package cli implements the command-line interface for wordcamp-gcal.
//
// The cli package provides the Cobra-based commands: inject (rewrite a page with
// "Add to Google Calendar" buttons), links (list the extracted sessions and their calendar
// URLs as text or JSON), ics (export the sessions as an iCalendar file) and sites (show the
// configured site profiles). It coordinates the config, scraper, gcal and calendar packages.
package cli
