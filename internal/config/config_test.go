package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andrasguseo/wordcamp-gcal/internal/session"
)

func TestDefaultConfig_Match(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	tests := []struct {
		url      string
		wantSite string
		wantErr  bool
	}{
		{"https://europe.wordcamp.org/2025/schedule/", "wceu-2025-schedule", false},
		{"https://europe.wordcamp.org/2025/schedule", "wceu-2025-schedule", false},
		{"https://europe.wordcamp.org/2025/schedule/?day=2#top", "wceu-2025-schedule", false},
		{"http://Europe.WordCamp.org/2025/schedule/", "wceu-2025-schedule", false},
		{"https://europe.wordcamp.org/2025/session/keynote/", "wceu-2025-session", false},
		{"https://us.wordcamp.org/2025/session/building-blocks/", "wcus-2025-session", false},
		{"https://us.wordcamp.org/2025/session/", "", true},
		{"https://us.wordcamp.org/2025/schedule/", "", true},
		{"https://europe.wordcamp.org/2024/schedule/", "", true},
		{"not a url", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			site, err := cfg.Match(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Match(%q) = %s, want error", tt.url, site.Name)
				}
				return
			}
			if err != nil {
				t.Fatalf("Match(%q) unexpected error: %v", tt.url, err)
			}
			if site.Name != tt.wantSite {
				t.Errorf("Match(%q) = %s, want %s", tt.url, site.Name, tt.wantSite)
			}
		})
	}
}

func TestMatch_NoSiteSentinel(t *testing.T) {
	cfg := DefaultConfig()
	_, err := cfg.Match("https://example.com/")
	if !errors.Is(err, ErrNoMatchingSite) {
		t.Errorf("Match() error = %v, want ErrNoMatchingSite", err)
	}
}

func TestDefaultConfig_Profiles(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	wcus, err := cfg.Site("wcus-2025-session")
	if err != nil {
		t.Fatal(err)
	}
	if wcus.DefaultDuration != session.ShortSessionDuration {
		t.Errorf("wcus DefaultDuration = %v, want %v", wcus.DefaultDuration, session.ShortSessionDuration)
	}
	if wcus.Encoding != EncodingLocal {
		t.Errorf("wcus Encoding = %s, want local", wcus.Encoding)
	}
	if wcus.DefaultLocation != "WordCamp US 2025" {
		t.Errorf("wcus DefaultLocation = %q, want %q", wcus.DefaultLocation, "WordCamp US 2025")
	}

	wceu, err := cfg.Site("wceu-2025-schedule")
	if err != nil {
		t.Fatal(err)
	}
	if wceu.SourceOffsetMinutes != 120 {
		t.Errorf("wceu SourceOffsetMinutes = %d, want 120", wceu.SourceOffsetMinutes)
	}
	if wceu.Selectors.SessionTime != "p" {
		t.Errorf("wceu SessionTime selector = %q, want p", wceu.Selectors.SessionTime)
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sites.yaml")

	content := `
link_text: "Save to calendar"
skip_existing: true
sites:
  - name: wcasia-2026-session
    match:
      - "asia.wordcamp.org/2026/session/*"
    pipeline: session
    event_name: "WordCamp Asia 2026"
    timezone: "Asia/Kolkata"
    source_offset_minutes: 330
    default_duration: 30m
    encoding: local
    selectors:
      speaker: ".speaker-name"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.LinkText != "Save to calendar" {
		t.Errorf("LinkText = %q", cfg.LinkText)
	}
	if !cfg.SkipExisting {
		t.Error("SkipExisting = false, want true")
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q, want default", cfg.UserAgent)
	}

	site, err := cfg.Match("https://asia.wordcamp.org/2026/session/opening/")
	if err != nil {
		t.Fatalf("Match() error: %v", err)
	}
	if site.DefaultDuration != 30*time.Minute {
		t.Errorf("DefaultDuration = %v, want 30m", site.DefaultDuration)
	}
	if site.Selectors.Title != ".wp-block-post-title" {
		t.Errorf("Title selector = %q, want default", site.Selectors.Title)
	}
	if site.Selectors.Speaker != ".speaker-name" {
		t.Errorf("Speaker selector = %q", site.Selectors.Speaker)
	}
	if site.DefaultLocation != "WordCamp Asia 2026" {
		t.Errorf("DefaultLocation = %q", site.DefaultLocation)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid yaml",
			content: "sites: [",
			wantErr: "parsing config",
		},
		{
			name:    "no sites",
			content: "link_text: x\n",
			wantErr: "no sites",
		},
		{
			name: "unknown pipeline",
			content: `
sites:
  - name: x
    match: ["example.org/*"]
    pipeline: agenda
`,
			wantErr: "unknown pipeline",
		},
		{
			name: "bad timezone",
			content: `
sites:
  - name: x
    match: ["example.org/*"]
    pipeline: session
    timezone: Mars/Olympus
`,
			wantErr: "timezone",
		},
		{
			name: "duration of a day or more",
			content: `
sites:
  - name: x
    match: ["example.org/*"]
    pipeline: schedule
    default_duration: 25h
`,
			wantErr: "default duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load() of missing file expected error, got nil")
	}
}
