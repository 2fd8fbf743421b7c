package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/andrasguseo/wordcamp-gcal/internal/config"
	"github.com/andrasguseo/wordcamp-gcal/internal/scraper"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt time.Time      `json:"checked_at"`
	Site      string         `json:"site"`
	PageURL   string         `json:"page_url"`
	Links     []scraper.Link `json:"links"`
	LinkCount int            `json:"link_count"`
	Skipped   []scraper.Skip `json:"skipped,omitempty"`
}

// WriteOutput writes the result in the specified format.
// Text output shows session times in loc.
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, loc *time.Location, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, loc, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, loc *time.Location, verbose bool) error {
	if loc == nil {
		loc = time.UTC
	}

	if result.LinkCount == 0 {
		fmt.Fprintln(w, "No sessions found.")
	}

	for _, l := range result.Links {
		s := l.Session
		start := s.Start.In(loc)
		fmt.Fprintf(w, "%s  %s-%s  %s\n",
			start.Format("Mon Jan 2"), start.Format("15:04"), s.End.In(loc).Format("15:04 MST"), s.Title)
		if s.Location != "" {
			fmt.Fprintf(w, "    Location: %s\n", s.Location)
		}
		if s.Speakers != "" {
			fmt.Fprintf(w, "    Speakers: %s\n", s.Speakers)
		}
		fmt.Fprintf(w, "    %s\n", l.URL)
	}

	if verbose && len(result.Skipped) > 0 {
		fmt.Fprintf(w, "\nSkipped (%d):\n", len(result.Skipped))
		for _, s := range result.Skipped {
			line := s.Reason
			if s.Title != "" {
				line += ": " + s.Title
			} else if s.Raw != "" {
				line += ": " + s.Raw
			}
			if s.Error != "" {
				line += " (" + s.Error + ")"
			}
			fmt.Fprintf(w, "  - %s\n", line)
		}
	}

	fmt.Fprintf(w, "\nTotal: %d session(s)", result.LinkCount)
	if len(result.Skipped) > 0 {
		fmt.Fprintf(w, ", %d skipped", len(result.Skipped))
	}
	fmt.Fprintln(w)
	return nil
}

// writeSites lists the configured site profiles
func writeSites(w io.Writer, cfg *config.Config) error {
	for _, s := range cfg.Sites {
		fmt.Fprintf(w, "%s (%s)\n", s.Name, s.Pipeline)
		fmt.Fprintf(w, "    Event:    %s\n", s.EventName)
		fmt.Fprintf(w, "    Zone:     %s (page offset %+d min)\n", s.TimeZone, s.SourceOffsetMinutes)
		fmt.Fprintf(w, "    Duration: %s, %s encoding\n", s.DefaultDuration, s.Encoding)
		for _, m := range s.Match {
			fmt.Fprintf(w, "    Match:    %s\n", m)
		}
	}
	return nil
}
