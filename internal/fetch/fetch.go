// Package fetch retrieves applicant-supplied URLs and inspects them, mainly to
// decide whether a deployed demo can be embedded in the recruiter dashboard.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; HiringDesk/1.0)"

	// maxBodyBytes bounds how much of a page is read.
	maxBodyBytes = 2 << 20
)

// ErrInvalidURL is returned for URLs without a scheme or host.
var ErrInvalidURL = errors.New("invalid URL")

// Page is a fetched document.
type Page struct {
	URL         string
	FinalURL    string
	Body        string
	ContentType string
	StatusCode  int
	Header      http.Header
}

// HTML reports whether the page declares (or omits) an HTML content type.
func (p *Page) HTML() bool {
	return p.ContentType == "" || strings.Contains(p.ContentType, "html")
}

// Error records which URL a fetch failed for.
type Error struct {
	URL string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Options configures a fetch. A nil *Options uses the defaults.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

func (o *Options) client() *http.Client {
	if o == nil || o.Timeout <= 0 {
		return &http.Client{Timeout: DefaultTimeout}
	}
	return &http.Client{Timeout: o.Timeout}
}

func (o *Options) userAgent() string {
	if o == nil || o.UserAgent == "" {
		return DefaultUserAgent
	}
	return o.UserAgent
}

// Get retrieves a page, following redirects. A non-2xx status returns both the
// page and an error.
func Get(ctx context.Context, rawURL string, opts *Options) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &Error{URL: rawURL, Err: ErrInvalidURL}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", opts.userAgent())

	resp, err := opts.client().Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{URL: rawURL, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	page := &Page{
		URL:         rawURL,
		FinalURL:    resp.Request.URL.String(),
		Body:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		Header:      resp.Header,
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return page, &Error{URL: rawURL, Err: fmt.Errorf("HTTP status %d", resp.StatusCode)}
	}
	return page, nil
}

var (
	noiseSelector    = "nav, footer, header, script, style, noscript, .sidebar, .cookie-banner, .popup"
	contentSelectors = []string{"main", "article", "#root", "#__next", "#app", ".content", "#content"}
)

// MainText returns the visible text of the page's main content, one line per
// non-empty text line. Noise elements are removed from doc.
func MainText(doc *goquery.Document) string {
	doc.Find(noiseSelector).Remove()

	main := doc.Find("body")
	for _, sel := range contentSelectors {
		if s := doc.Find(sel); s.Length() > 0 {
			main = s.First()
			break
		}
	}

	var lines []string
	for _, line := range strings.Split(main.Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
