package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"golang.org/x/net/html"

	"github.com/andrasguseo/wordcamp-gcal/internal/config"
)

const (
	Timeout = 30 * time.Second
)

// Fetcher loads a page into a document
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*goquery.Document, error)
}

// HTTPFetcher fetches server-rendered pages with a plain GET
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates an HTTPFetcher. An empty userAgent uses config.DefaultUserAgent.
func NewHTTPFetcher(userAgent string) *HTTPFetcher {
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: Timeout,
		},
		userAgent: userAgent,
	}
}

// Fetch implements Fetcher
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return Parse(resp.Body)
}

// ChromeFetcher loads pages in headless Chrome, for schedules rendered client-side
type ChromeFetcher struct {
	UserAgent string

	// WaitSelector must be present before the DOM is captured. Defaults to "body".
	WaitSelector string

	// Timeout bounds the whole navigation. Defaults to Timeout.
	Timeout time.Duration
}

// Fetch implements Fetcher
func (f *ChromeFetcher) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	wait := f.WaitSelector
	if wait == "" {
		wait = "body"
	}
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = Timeout
	}

	opts := chromedp.DefaultExecAllocatorOptions[:]
	if f.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(f.UserAgent))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	defer cancelTimeout()

	var outer string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady(wait, chromedp.ByQuery),
		chromedp.OuterHTML("html", &outer, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}

	return Parse(strings.NewReader(outer))
}

// Parse reads an HTML document
func Parse(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// LoadFile parses a saved HTML page
func LoadFile(path string) (*goquery.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Render writes the full document, doctype included
func Render(w io.Writer, doc *goquery.Document) error {
	if doc == nil || len(doc.Nodes) == 0 {
		return fmt.Errorf("rendering page: empty document")
	}
	if err := html.Render(w, doc.Nodes[0]); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}
