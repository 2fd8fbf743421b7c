package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"github.com/andrasguseo/wordcamp-gcal/internal/calendar"
	"github.com/andrasguseo/wordcamp-gcal/internal/config"
	"github.com/andrasguseo/wordcamp-gcal/internal/logger"
	"github.com/andrasguseo/wordcamp-gcal/internal/scraper"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitNoLinks = 2
)

// ErrNoLinks is returned when a page matched a site but no calendar link was built or inserted
var ErrNoLinks = errors.New("no calendar links produced")

var (
	flagConfig       string
	flagFile         string
	flagURL          string
	flagSite         string
	flagRender       bool
	flagLogLevel     string
	flagVerbose      bool
	flagOut          string
	flagSkipExisting bool
	flagFormat       string
	flagSort         string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordcamp-gcal",
		Short: "Add Google Calendar links to WordCamp schedule and session pages",
		Long: `A CLI tool that reads WordCamp schedule and session pages, works out each
session's start and end time, and builds "Add to Google Calendar" links for them.

Pages are fetched from their URL, or read from a saved file with --file. The page URL
selects the site profile (schedule or single-session template) used to read it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logger.ParseLevel(flagLogLevel)
			if err != nil {
				return err
			}
			if flagVerbose && level != logger.LevelDebug {
				level = logger.LevelDebug
			}
			logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				data, _ := json.MarshalIndent(logger.GetMetricsSnapshot(), "", "  ")
				fmt.Fprintf(cmd.ErrOrStderr(), "metrics: %s\n", data)
			}
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "YAML file with site profiles (default: built-in profiles)")
	pf.StringVar(&flagFile, "file", "", "Read the page from a saved HTML file instead of fetching it")
	pf.StringVar(&flagURL, "url", "", "Page URL, used for site matching and the \"More info\" line")
	pf.StringVar(&flagSite, "site", "", "Use this site profile instead of matching the page URL")
	pf.BoolVar(&flagRender, "render", false, "Render the page in headless Chrome before reading it")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	pf.BoolVar(&flagVerbose, "verbose", false, "Enable debug logging and print run metrics")

	cmd.AddCommand(newInjectCmd(), newLinksCmd(), newICSCmd(), newSitesCmd())

	return cmd
}

func newInjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inject [page-url]",
		Short: "Write the page with calendar links inserted",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInject,
	}
	cmd.Flags().StringVarP(&flagOut, "out", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&flagSkipExisting, "skip-existing", false, "Do not add a link where one is already present")
	return cmd
}

func newLinksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links [page-url]",
		Short: "List sessions and their calendar links",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLinks,
	}
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagSort, "sort", "page", "Sort order: page, date or title")
	return cmd
}

func newICSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ics [page-url]",
		Short: "Export sessions as an iCalendar file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runICS,
	}
	cmd.Flags().StringVarP(&flagOut, "out", "o", "", "Output file (default: stdout)")
	return cmd
}

func newSitesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List configured site profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			return writeSites(cmd.OutOrStdout(), cfg)
		},
	}
}

// page is a loaded document and the profile it is read with
type page struct {
	cfg  *config.Config
	site *config.Site
	url  string
	doc  *goquery.Document
}

// loadPage resolves the page URL and site profile, then fetches or reads the document
func loadPage(ctx context.Context, args []string) (*page, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	pageURL := strings.TrimSpace(flagURL)
	if len(args) > 0 {
		pageURL = strings.TrimSpace(args[0])
	}
	if pageURL == "" {
		return nil, fmt.Errorf("page URL is required (argument or --url)")
	}

	var site *config.Site
	if flagSite != "" {
		site, err = cfg.Site(flagSite)
	} else {
		site, err = cfg.Match(pageURL)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("processing page", logger.Fields{
		"site":     site.Name,
		"pipeline": string(site.Pipeline),
		"page_url": pageURL,
	})

	start := time.Now()
	var doc *goquery.Document
	if flagFile != "" {
		doc, err = scraper.LoadFile(flagFile)
	} else {
		var fetcher scraper.Fetcher = scraper.NewHTTPFetcher(cfg.UserAgent)
		if flagRender {
			fetcher = &scraper.ChromeFetcher{UserAgent: cfg.UserAgent}
		}
		doc, err = fetcher.Fetch(ctx, pageURL)
	}
	if err != nil {
		return nil, fmt.Errorf("loading page: %w", err)
	}
	logger.RecordTiming("page.fetch", time.Since(start))

	return &page{cfg: cfg, site: site, url: pageURL, doc: doc}, nil
}

func runInject(cmd *cobra.Command, args []string) error {
	p, err := loadPage(cmd.Context(), args)
	if err != nil {
		return err
	}

	report, err := scraper.Process(p.doc, p.site, p.url, scraper.Options{
		LinkText:     p.cfg.LinkText,
		SkipExisting: p.cfg.SkipExisting || flagSkipExisting,
	})
	if err != nil {
		return err
	}

	logger.Info("links inserted", logger.Fields{
		"site":     report.Site,
		"inserted": report.Inserted(),
		"skipped":  len(report.Skipped),
	})

	if err := writeTo(cmd.OutOrStdout(), flagOut, func(w io.Writer) error {
		return scraper.Render(w, p.doc)
	}); err != nil {
		return err
	}

	if report.Inserted() == 0 {
		return ErrNoLinks
	}
	return nil
}

func runLinks(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	order := SortOrder(strings.ToLower(flagSort))
	if !order.valid() {
		return fmt.Errorf("invalid sort order: %s (must be 'page', 'date' or 'title')", flagSort)
	}

	p, err := loadPage(cmd.Context(), args)
	if err != nil {
		return err
	}

	report, err := scraper.Process(p.doc, p.site, p.url, scraper.Options{DryRun: true})
	if err != nil {
		return err
	}
	sortLinks(report.Links, order)

	result := &OutputResult{
		CheckedAt: time.Now().UTC(),
		Site:      report.Site,
		PageURL:   report.PageURL,
		Links:     report.Links,
		LinkCount: len(report.Links),
		Skipped:   report.Skipped,
	}
	loc, err := p.site.Location()
	if err != nil {
		loc = time.UTC
	}
	if err := WriteOutput(cmd.OutOrStdout(), result, format, loc, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if len(report.Links) == 0 {
		return ErrNoLinks
	}
	return nil
}

func runICS(cmd *cobra.Command, args []string) error {
	p, err := loadPage(cmd.Context(), args)
	if err != nil {
		return err
	}

	report, err := scraper.Process(p.doc, p.site, p.url, scraper.Options{DryRun: true})
	if err != nil {
		return err
	}
	if len(report.Links) == 0 {
		return ErrNoLinks
	}

	out := calendar.GenerateICS(report.Sessions(), p.site)
	return writeTo(cmd.OutOrStdout(), flagOut, func(w io.Writer) error {
		_, err := io.WriteString(w, out)
		return err
	})
}

// writeTo runs write against path, or against stdout when path is empty
func writeTo(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	return nil
}

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().ExecuteContext(context.Background())
	switch {
	case err == nil:
		os.Exit(ExitSuccess)
	case errors.Is(err, ErrNoLinks):
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(ExitNoLinks)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
