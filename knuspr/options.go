package knuspr

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	timeout     time.Duration
	minInterval time.Duration
	userAgent   string
	language    string
	httpClient  *http.Client
	logger      zerolog.Logger
}

func defaultOptions() *clientOptions {
	return &clientOptions{
		timeout:     10 * time.Second,
		minInterval: 100 * time.Millisecond,
		userAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
			"AppleWebKit/537.36 (KHTML, like Gecko) " +
			"Chrome/119.0.0.0 Safari/537.36",
		language: "de-DE,de;q=0.9,en;q=0.8",
		logger:   zerolog.Nop(),
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithMinRequestInterval sets the minimum interval between the starts of
// consecutive API calls. Zero disables rate limiting.
func WithMinRequestInterval(interval time.Duration) Option {
	return func(o *clientOptions) {
		if interval >= 0 {
			o.minInterval = interval
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithLanguage sets the Accept-Language header value.
func WithLanguage(language string) Option {
	return func(o *clientOptions) {
		o.language = language
	}
}

// WithHTTPClient sets a custom underlying HTTP client. The client's cookie
// jar is replaced when the session opens.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = httpClient
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}
