package fetch

import (
	"context"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/hiring-desk/internal/logging"
)

// ProbeResult describes a deployed demo
type ProbeResult struct {
	URL           string `json:"url"`
	Reachable     bool   `json:"reachable"`
	StatusCode    int    `json:"status_code,omitempty"`
	Title         string `json:"title,omitempty"`
	CanEmbed      bool   `json:"can_embed"`
	RequiresLogin bool   `json:"requires_login"`
	Summary       string `json:"summary,omitempty"`
}

// Prober inspects deploy URLs
type Prober interface {
	Probe(ctx context.Context, url string) (*ProbeResult, error)
}

// HTTPProber probes pages with a plain HTTP GET
type HTTPProber struct {
	Options *Options
}

var loginPathHints = []string{"login", "signin", "sign-in", "auth"}

// Probe fetches url and reports whether it can be shown in an iframe and
// whether it sits behind a login. Unreachable pages are not an error.
func (p *HTTPProber) Probe(ctx context.Context, url string) (*ProbeResult, error) {
	page, err := Get(ctx, url, p.Options)
	if errors.Is(err, ErrInvalidURL) {
		return nil, err
	}
	out := &ProbeResult{URL: url}
	if page == nil {
		return out, nil
	}

	out.StatusCode = page.StatusCode
	out.Reachable = page.StatusCode < 500
	out.CanEmbed = page.StatusCode < 500 &&
		Embeddable(page.Header.Get("X-Frame-Options"), page.Header.Get("Content-Security-Policy"))
	out.RequiresLogin = page.StatusCode == 401 || page.StatusCode == 403 || looksLikeLogin(page.FinalURL)

	if page.HTML() {
		if doc, perr := goquery.NewDocumentFromReader(strings.NewReader(page.Body)); perr == nil {
			out.Title = strings.TrimSpace(doc.Find("title").First().Text())
			if doc.Find(`input[type="password"]`).Length() > 0 {
				out.RequiresLogin = true
			}
			out.Summary = logging.Truncate(MainText(doc), 280)
		}
	}
	return out, nil
}

// Embeddable reports whether the framing headers allow embedding on another origin.
func Embeddable(xFrameOptions, csp string) bool {
	xfo := strings.ToUpper(strings.TrimSpace(xFrameOptions))
	if xfo == "DENY" || xfo == "SAMEORIGIN" || strings.HasPrefix(xfo, "ALLOW-FROM") {
		return false
	}
	for _, directive := range strings.Split(csp, ";") {
		fields := strings.Fields(strings.ToLower(directive))
		if len(fields) == 0 || fields[0] != "frame-ancestors" {
			continue
		}
		for _, src := range fields[1:] {
			if src == "*" || src == "https:" {
				return true
			}
		}
		return false
	}
	return true
}

func looksLikeLogin(finalURL string) bool {
	lower := strings.ToLower(finalURL)
	for _, hint := range loginPathHints {
		if strings.Contains(lower, "/"+hint) {
			return true
		}
	}
	return false
}
