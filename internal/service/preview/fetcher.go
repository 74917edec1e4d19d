package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"syscall"
	"time"

	"golang.org/x/net/html/charset"

	"linkpreview/internal/domain"
)

// Fetch defaults
const (
	DefaultUserAgent    = "Keevo-Link-Preview/1.0"
	DefaultTimeout      = 5 * time.Second
	DefaultMaxRedirects = 5
	DefaultMaxBodyBytes = int64(2 * 1024 * 1024) // 2 MiB

	dialerTimeout   = 5 * time.Second
	dialerKeepAlive = 30 * time.Second
)

var errPrivateAddress = errors.New("refusing to connect to private network address")

// FetcherOptions configures outbound page requests
type FetcherOptions struct {
	Timeout              time.Duration
	MaxRedirects         int
	MaxBodyBytes         int64
	UserAgent            string
	BlockPrivateNetworks bool
}

// DefaultFetcherOptions returns the standard preview fetch settings
func DefaultFetcherOptions() FetcherOptions {
	return FetcherOptions{
		Timeout:              DefaultTimeout,
		MaxRedirects:         DefaultMaxRedirects,
		MaxBodyBytes:         DefaultMaxBodyBytes,
		UserAgent:            DefaultUserAgent,
		BlockPrivateNetworks: true,
	}
}

func (o FetcherOptions) withDefaults() FetcherOptions {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxRedirects < 0 {
		o.MaxRedirects = DefaultMaxRedirects
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	return o
}

// HTTPFetcher downloads pages over HTTP(S)
type HTTPFetcher struct {
	httpClient   *http.Client
	userAgent    string
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewHTTPFetcher creates a fetcher with a bounded timeout and redirect count.
// No retries are attempted.
func NewHTTPFetcher(opts FetcherOptions, logger *slog.Logger) *HTTPFetcher {
	opts = opts.withDefaults()

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.BlockPrivateNetworks {
		transport.DialContext = newSafeDialer().DialContext
	}

	maxRedirects := opts.MaxRedirects
	return &HTTPFetcher{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				// via holds every request made so far, the original included
				if len(via) > maxRedirects {
					return fmt.Errorf("maximum number of redirects exceeded (%d)", maxRedirects)
				}
				return nil
			},
		},
		userAgent:    opts.UserAgent,
		maxBodyBytes: opts.MaxBodyBytes,
		logger:       logger,
	}
}

// Fetch performs a GET request and returns the response body decoded to UTF-8.
// Every failure is returned as a *domain.FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &domain.FetchError{URL: rawURL, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", &domain.FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &domain.FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	// Limit response body size to prevent memory issues
	limited := io.LimitReader(resp.Body, f.maxBodyBytes)

	reader, err := charset.NewReader(limited, resp.Header.Get("Content-Type"))
	if err != nil {
		f.logger.Debug("Unknown charset, reading body as-is",
			"url", rawURL,
			"content_type", resp.Header.Get("Content-Type"),
			"error", err,
		)
		reader = limited
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", &domain.FetchError{URL: rawURL, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	f.logger.Debug("Fetched page",
		"url", rawURL,
		"status_code", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start),
	)

	return string(body), nil
}

// newSafeDialer refuses connections to private, loopback, link-local and
// unspecified addresses. Control runs after name resolution, so the address
// is the IP actually being dialled.
func newSafeDialer() *net.Dialer {
	return &net.Dialer{
		Timeout:   dialerTimeout,
		KeepAlive: dialerKeepAlive,
		Control: func(_, address string, _ syscall.RawConn) error {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				return err
			}
			ip := net.ParseIP(host)
			if ip == nil {
				return fmt.Errorf("unexpected dial address %q", address)
			}
			if isPrivateIP(ip) {
				return errPrivateAddress
			}
			return nil
		},
	}
}

func isPrivateIP(ip net.IP) bool {
	return ip.IsPrivate() ||
		ip.IsLoopback() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified()
}
