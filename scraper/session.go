package scraper

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	tls "github.com/refraction-networking/utls"
	"github.com/use-agent/webscraper/config"
)

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to http/1.1
// only. Computed once at init time and reused for every connection.
var (
	chromeH1Spec   tls.ClientHelloSpec
	chromeH1SpecOK bool
)

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return
	}
	// Go's http.Transport cannot speak h2 over a utls connection, so only
	// offer http/1.1.
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
	chromeH1SpecOK = true
}

// session is the single HTTP client shared by every page fetch of one
// scrape. It is not safe for concurrent use and must be closed when the
// scrape ends.
type session struct {
	client  *http.Client
	header  http.Header
	maxBody int64
}

// fetchedPage is a successful (HTTP 200) response body.
type fetchedPage struct {
	body        []byte
	contentType string
}

// statusError reports a response whose status was not 200 OK.
type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("scraper: HTTP %d for %s", e.code, e.url)
}

func newSession(cfg config.ScraperConfig) *session {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   false,
	}
	if cfg.TLSFingerprint && chromeH1SpecOK {
		transport.DialTLSContext = dialTLSChrome
	}

	header := make(http.Header)
	header.Set("User-Agent", cfg.UserAgent)
	header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	header.Set("Accept-Language", "en-US,en;q=0.5")
	header.Set("Connection", "keep-alive")
	header.Set("Upgrade-Insecure-Requests", "1")

	return &session{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.RequestTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		header:  header,
		maxBody: cfg.MaxBodyBytes,
	}
}

// get fetches url. Transport errors, body read errors and non-200 statuses
// are all returned as errors; the caller decides whether to skip the page.
func (s *session) get(ctx context.Context, url string) (*fetchedPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("scraper: build request: %w", err)
	}
	req.Header = s.header.Clone()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scraper: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &statusError{code: resp.StatusCode, url: url}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBody))
	if err != nil {
		return nil, fmt.Errorf("scraper: read body: %w", err)
	}

	return &fetchedPage{
		body:        body,
		contentType: resp.Header.Get("Content-Type"),
	}, nil
}

// close releases pooled connections.
func (s *session) close() {
	s.client.CloseIdleConnections()
}

// dialTLSChrome establishes a TLS connection using a Chrome fingerprint via utls.
func dialTLSChrome(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
	if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
		conn.Close()
		return nil, fmt.Errorf("scraper: apply tls spec: %w", err)
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return tlsConn, nil
}
