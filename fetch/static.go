// Package fetch implements the fast static-HTML path: a single GET with a
// browser-like TLS fingerprint, HTML parsing without script execution, and
// the sufficiency heuristic that decides whether full rendering is needed.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	tls "github.com/refraction-networking/utls"

	"github.com/SanyamSharma26/universal-website-scraper/config"
	"github.com/SanyamSharma26/universal-website-scraper/models"
	"github.com/SanyamSharma26/universal-website-scraper/segment"
)

// maxBody caps response reads to prevent unbounded memory use.
const maxBody = 10 << 20

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to http/1.1
// only. Computed once at init time and reused for every connection.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		// Spec generation failing leaves the zero spec; the dialer falls
		// back to HelloChrome_Auto in that case.
		return
	}
	// Replace h2 with http/1.1 only in the ALPN extension so the server
	// never negotiates HTTP/2, which Go's http.Transport cannot handle
	// over a utls connection.
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// Static performs the static fetch path. Safe for concurrent use.
type Static struct {
	client *http.Client
	cfg    config.FetchConfig
	seg    *segment.Segmenter
}

// NewStatic creates a static fetcher with a Chrome-like TLS fingerprint.
func NewStatic(cfg config.FetchConfig, seg *segment.Segmenter) *Static {
	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			dialer := &net.Dialer{Timeout: 10 * time.Second}
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			host, _, _ := net.SplitHostPort(addr)
			tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
			if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
				conn.Close()
				return nil, fmt.Errorf("fetch: apply tls spec: %w", err)
			}
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return tlsConn, nil
		},
		ForceAttemptHTTP2: false,
	}

	return &Static{
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		cfg: cfg,
		seg: seg,
	}
}

// Fetch performs one GET against rawURL, parses the HTML without executing
// scripts and segments it. It never returns a Go error: every failure is
// recorded on the outcome with sufficient=false, and Escalate tells the
// caller whether rendering could plausibly do better.
func (f *Static) Fetch(ctx context.Context, rawURL string) *Outcome {
	outcome := &Outcome{Strategy: StrategyStatic}

	target, err := url.Parse(rawURL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		outcome.appendError(models.NewScrapeError(models.PhaseFetch,
			fmt.Sprintf("invalid URL %q: must be a well-formed http(s) URL", rawURL)))
		return outcome
	}

	ctx, cancel := context.WithTimeout(ctx, f.cfg.StaticTimeout)
	defer cancel()

	// Short randomized delay before the request to mimic human timing.
	select {
	case <-time.After(time.Duration(100+rand.Intn(200)) * time.Millisecond):
	case <-ctx.Done():
		outcome.appendError(models.NewScrapeError(models.PhaseFetch, "request canceled before fetch"))
		return outcome
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		outcome.appendError(models.NewScrapeError(models.PhaseFetch, err.Error()))
		return outcome
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		outcome.appendError(classifyTransportError(err))
		return outcome
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		scrapeErr := models.NewScrapeError(models.PhaseFetch,
			fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
		if isBotBlockStatus(resp.StatusCode) {
			// 403/429/503 often mean automated requests are being turned
			// away; a real browser fingerprint may get through.
			outcome.Escalate = true
			scrapeErr = scrapeErr.WithSuggestion("Site may be blocking automated requests. Try JS rendering.")
		}
		outcome.appendError(scrapeErr)
		return outcome
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !isHTMLContentType(ct) {
		outcome.appendError(models.NewScrapeError(models.PhaseFetch,
			fmt.Sprintf("non-HTML content type %q", ct)))
		return outcome
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		outcome.appendError(models.NewScrapeError(models.PhaseFetch,
			fmt.Sprintf("read body: %v", err)))
		outcome.Escalate = true
		return outcome
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		outcome.appendError(models.NewScrapeError(models.PhaseParse, err.Error()))
		outcome.Escalate = true
		return outcome
	}

	segment.StripNoise(doc)

	outcome.Doc = doc
	outcome.Meta = segment.ExtractMeta(doc, rawURL)
	outcome.Meta.Strategy = StrategyStatic
	outcome.Sections = f.seg.Segment(doc, rawURL)
	outcome.Escalate = true

	if ForcedJS(rawURL, f.cfg.ForcedJSDomains) {
		slog.Debug("forced-JS domain, static result discarded as insufficient", "url", rawURL)
		outcome.Sufficient = false
	} else {
		outcome.Sufficient = Sufficient(outcome.Sections, f.cfg)
	}

	return outcome
}

// setHeaders simulates browser request headers with a user agent rotated
// from the configured pool.
func (f *Static) setHeaders(req *http.Request) {
	ua := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	if len(f.cfg.UserAgents) > 0 {
		ua = f.cfg.UserAgents[rand.Intn(len(f.cfg.UserAgents))]
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
}

// classifyTransportError tags transport failures. DNS failures get a
// suggestion-free error since rendering cannot resolve a host either.
func classifyTransportError(err error) models.ScrapeError {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return models.NewScrapeError(models.PhaseFetch,
			fmt.Sprintf("DNS lookup failed for %s", dnsErr.Name))
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return models.NewScrapeError(models.PhaseFetch, "request timed out")
	}
	return models.NewScrapeError(models.PhaseFetch, err.Error())
}

// isBotBlockStatus reports whether the status plausibly indicates bot
// blocking rather than a genuinely missing or broken resource.
func isBotBlockStatus(code int) bool {
	return code == http.StatusForbidden ||
		code == http.StatusTooManyRequests ||
		code == http.StatusServiceUnavailable
}

func isHTMLContentType(ct string) bool {
	ct = strings.ToLower(ct)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}
