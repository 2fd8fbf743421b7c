// Package config holds the site profiles that decide which pipeline runs on a page and
// how its text is interpreted.
//
// Profiles are built in for the WordCamp Europe 2025 and WordCamp US 2025 pages. A YAML
// file can replace them when a host site changes its markup or a new event needs support.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/andrasguseo/wordcamp-gcal/internal/session"
)

// Pipeline names the extractor a site uses
type Pipeline string

const (
	PipelineSchedule Pipeline = "schedule"
	PipelineSession  Pipeline = "session"
)

// Encoding selects how the calendar link carries the time pair
type Encoding string

const (
	// EncodingUTC sends two UTC instants ("20250604T080000Z").
	EncodingUTC Encoding = "utc"
	// EncodingLocal sends two wall-clock times plus a ctz zone parameter.
	EncodingLocal Encoding = "local"
)

const (
	DefaultUserAgent = "wordcamp-gcal/1.0 (github.com/andrasguseo/wordcamp-gcal)"
	DefaultLinkText  = "Add to Google Calendar"
)

var ErrNoMatchingSite = errors.New("no site profile matches page URL")

// Selectors are the CSS selectors of a host page's markup
type Selectors struct {
	// Schedule pages
	DayBlock     string `yaml:"day_block,omitempty" json:"day_block,omitempty"`
	DayHeading   string `yaml:"day_heading,omitempty" json:"day_heading,omitempty"`
	SessionRow   string `yaml:"session_row,omitempty" json:"session_row,omitempty"`
	SessionTitle string `yaml:"session_title,omitempty" json:"session_title,omitempty"`
	SessionTime  string `yaml:"session_time,omitempty" json:"session_time,omitempty"`

	// Session pages
	Title         string `yaml:"title,omitempty" json:"title,omitempty"`
	DateContainer string `yaml:"date_container,omitempty" json:"date_container,omitempty"`
	Time          string `yaml:"time,omitempty" json:"time,omitempty"`
	Location      string `yaml:"location,omitempty" json:"location,omitempty"`
	Speaker       string `yaml:"speaker,omitempty" json:"speaker,omitempty"`
}

// Site is one page template the tool knows how to process
type Site struct {
	Name     string   `yaml:"name" json:"name"`
	Match    []string `yaml:"match" json:"match"`
	Pipeline Pipeline `yaml:"pipeline" json:"pipeline"`

	// EventName is used as the location when the page names none.
	EventName       string `yaml:"event_name" json:"event_name"`
	DefaultLocation string `yaml:"default_location,omitempty" json:"default_location,omitempty"`

	// TimeZone is the IANA zone of the venue, used for local encoding and for
	// datetime attributes that carry no offset.
	TimeZone string `yaml:"timezone" json:"timezone"`

	// SourceOffsetMinutes is the fixed UTC offset of times printed on the page.
	SourceOffsetMinutes int `yaml:"source_offset_minutes" json:"source_offset_minutes"`

	DefaultDuration time.Duration `yaml:"default_duration" json:"default_duration"`
	Encoding        Encoding      `yaml:"encoding" json:"encoding"`

	// EndFromText re-derives the end from a "H:MM - H:MM" range next to the datetime attribute.
	EndFromText bool `yaml:"end_from_text" json:"end_from_text"`

	Selectors Selectors `yaml:"selectors" json:"selectors"`
}

// Config is the top-level configuration
type Config struct {
	UserAgent string `yaml:"user_agent" json:"user_agent"`
	LinkText  string `yaml:"link_text" json:"link_text"`

	// SkipExisting turns on the duplicate-link guard for pages processed more than once.
	SkipExisting bool `yaml:"skip_existing" json:"skip_existing"`

	Sites []Site `yaml:"sites" json:"sites"`
}

// DefaultScheduleSelectors match the wordcamp.org schedule block markup
func DefaultScheduleSelectors() Selectors {
	return Selectors{
		DayBlock:     ".wordcamp-schedule",
		DayHeading:   ".wordcamp-schedule__date",
		SessionRow:   ".wordcamp-schedule__session",
		SessionTitle: ".wordcamp-schedule__session-title",
		SessionTime:  "p",
	}
}

// DefaultSessionSelectors match the wordcamp.org single session template
func DefaultSessionSelectors() Selectors {
	return Selectors{
		Title:         ".wp-block-post-title",
		DateContainer: ".wp-block-wordcamp-session-date",
		Time:          "time",
	}
}

// DefaultConfig returns the built-in profiles for WordCamp Europe 2025 and WordCamp US 2025
func DefaultConfig() *Config {
	wcusSelectors := DefaultSessionSelectors()
	wcusSelectors.Location = ".taxonomy-wcb_track a"
	wcusSelectors.Speaker = ".wp-block-wordcamp-session-speakers__name a"

	return &Config{
		UserAgent: DefaultUserAgent,
		LinkText:  DefaultLinkText,
		Sites: []Site{
			{
				Name:                "wceu-2025-schedule",
				Match:               []string{"europe.wordcamp.org/2025/schedule/"},
				Pipeline:            PipelineSchedule,
				EventName:           "WordCamp Europe 2025",
				TimeZone:            "Europe/Zurich",
				SourceOffsetMinutes: 120,
				DefaultDuration:     session.DefaultDuration,
				Encoding:            EncodingUTC,
				Selectors:           DefaultScheduleSelectors(),
			},
			{
				Name:                "wceu-2025-session",
				Match:               []string{"europe.wordcamp.org/2025/session/*"},
				Pipeline:            PipelineSession,
				EventName:           "WordCamp Europe 2025",
				TimeZone:            "Europe/Zurich",
				SourceOffsetMinutes: 120,
				DefaultDuration:     session.DefaultDuration,
				Encoding:            EncodingUTC,
				EndFromText:         true,
				Selectors:           DefaultSessionSelectors(),
			},
			{
				Name:                "wcus-2025-session",
				Match:               []string{"us.wordcamp.org/2025/session/*"},
				Pipeline:            PipelineSession,
				EventName:           "WordCamp US 2025",
				TimeZone:            "America/Los_Angeles",
				SourceOffsetMinutes: -420,
				DefaultDuration:     session.ShortSessionDuration,
				Encoding:            EncodingLocal,
				Selectors:           wcusSelectors,
			},
		},
	}
}

// Normalize fills in missing/zero values so partially-filled files still behave
func (c *Config) Normalize() {
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.LinkText == "" {
		c.LinkText = DefaultLinkText
	}
	for i := range c.Sites {
		c.Sites[i].normalize()
	}
}

func (s *Site) normalize() {
	if s.DefaultDuration <= 0 {
		s.DefaultDuration = session.DefaultDuration
	}
	if s.Encoding == "" {
		s.Encoding = EncodingUTC
	}
	if s.TimeZone == "" {
		s.TimeZone = "UTC"
	}
	if s.DefaultLocation == "" {
		s.DefaultLocation = s.EventName
	}

	var defaults Selectors
	switch s.Pipeline {
	case PipelineSchedule:
		defaults = DefaultScheduleSelectors()
	case PipelineSession:
		defaults = DefaultSessionSelectors()
	}
	sel := &s.Selectors
	fill(&sel.DayBlock, defaults.DayBlock)
	fill(&sel.DayHeading, defaults.DayHeading)
	fill(&sel.SessionRow, defaults.SessionRow)
	fill(&sel.SessionTitle, defaults.SessionTitle)
	fill(&sel.SessionTime, defaults.SessionTime)
	fill(&sel.Title, defaults.Title)
	fill(&sel.DateContainer, defaults.DateContainer)
	fill(&sel.Time, defaults.Time)
}

func fill(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

// Validate reports the first invalid site profile
func (c *Config) Validate() error {
	if len(c.Sites) == 0 {
		return errors.New("config has no sites")
	}
	seen := make(map[string]bool)
	for _, s := range c.Sites {
		if s.Name == "" {
			return errors.New("site has no name")
		}
		if seen[s.Name] {
			return fmt.Errorf("site %s: duplicate name", s.Name)
		}
		seen[s.Name] = true

		if len(s.Match) == 0 {
			return fmt.Errorf("site %s: no match patterns", s.Name)
		}
		switch s.Pipeline {
		case PipelineSchedule, PipelineSession:
		default:
			return fmt.Errorf("site %s: unknown pipeline %q", s.Name, s.Pipeline)
		}
		switch s.Encoding {
		case EncodingUTC, EncodingLocal:
		default:
			return fmt.Errorf("site %s: unknown encoding %q", s.Name, s.Encoding)
		}
		if _, err := time.LoadLocation(s.TimeZone); err != nil {
			return fmt.Errorf("site %s: loading timezone: %w", s.Name, err)
		}
		if s.DefaultDuration >= 24*time.Hour {
			return fmt.Errorf("site %s: default duration %s must be under 24h", s.Name, s.DefaultDuration)
		}
		if s.SourceOffsetMinutes < -14*60 || s.SourceOffsetMinutes > 14*60 {
			return fmt.Errorf("site %s: source offset %d out of range", s.Name, s.SourceOffsetMinutes)
		}
	}
	return nil
}

// Load reads a YAML config file. An empty path returns the built-in defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := DefaultConfig()
		cfg.Normalize()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// Location loads the site's IANA time zone
func (s *Site) Location() (*time.Location, error) {
	return time.LoadLocation(s.TimeZone)
}

// Match returns the first site whose patterns match pageURL
func (c *Config) Match(pageURL string) (*Site, error) {
	key, err := matchKey(pageURL)
	if err != nil {
		return nil, err
	}
	for i := range c.Sites {
		for _, pattern := range c.Sites[i].Match {
			if matchPattern(pattern, key) {
				return &c.Sites[i], nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoMatchingSite, pageURL)
}

// Site returns the site with the given name
func (c *Config) Site(name string) (*Site, error) {
	for i := range c.Sites {
		if c.Sites[i].Name == name {
			return &c.Sites[i], nil
		}
	}
	return nil, fmt.Errorf("unknown site: %s", name)
}

// matchKey reduces a URL to "host/path" without the scheme, query or fragment
func matchKey(pageURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil {
		return "", fmt.Errorf("parsing page URL: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("page URL has no host: %q", pageURL)
	}
	return strings.ToLower(u.Host) + u.EscapedPath(), nil
}

// matchPattern compares a "host/path" key with a pattern. A trailing "*" makes the
// pattern a prefix; otherwise trailing slashes are ignored.
func matchPattern(pattern, key string) bool {
	pattern = strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(pattern, "https://"), "http://"))
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(key, prefix) && len(key) > len(prefix)
	}
	return strings.TrimSuffix(pattern, "/") == strings.TrimSuffix(key, "/")
}
