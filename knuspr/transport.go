package knuspr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// envelope is the response wrapper most knuspr endpoints use. Endpoints
// that return the payload directly leave Data empty.
type envelope struct {
	Status   int             `json:"status"`
	Data     json.RawMessage `json:"data"`
	Messages []apiMessage    `json:"messages"`
}

type apiMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func (e envelope) firstMessage(fallback string) string {
	if len(e.Messages) > 0 && e.Messages[0].Content != "" {
		return e.Messages[0].Content
	}
	return fallback
}

// transport issues rate-limited HTTP calls with the session cookie jar and
// maps responses onto the error taxonomy. It holds no domain knowledge.
type transport struct {
	rest      *resty.Client
	limiter   *rateLimiter
	logger    zerolog.Logger
	sessionID string
}

func newTransport(baseURL string, opts *clientOptions, limiter *rateLimiter, logger zerolog.Logger) (*transport, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	rest := resty.New()
	if opts.httpClient != nil {
		rest = resty.NewWithClient(opts.httpClient)
	}
	rest.SetBaseURL(baseURL)
	rest.SetCookieJar(jar)
	rest.SetTimeout(opts.timeout)
	rest.SetHeaders(defaultHeaders(baseURL, opts.userAgent, opts.language))

	sessionID := uuid.NewString()

	return &transport{
		rest:      rest,
		limiter:   limiter,
		logger:    logger.With().Str("session_id", sessionID).Logger(),
		sessionID: sessionID,
	}, nil
}

// requestOptions carries the per-call query and body.
type requestOptions struct {
	query url.Values
	body  any
}

// request performs a single API call: rate-limiter gate, HTTP exchange,
// envelope decoding. The returned bytes are the envelope's data payload,
// or the whole body for endpoints without an envelope. No retries.
func (t *transport) request(ctx context.Context, method, path string, opts requestOptions) (json.RawMessage, error) {
	if err := t.limiter.wait(ctx); err != nil {
		return nil, &NetworkError{Op: path, Err: err}
	}

	req := t.rest.R().SetContext(ctx)
	if len(opts.query) > 0 {
		req.SetQueryParamsFromValues(opts.query)
	}
	if opts.body != nil {
		req.SetBody(opts.body)
	}

	start := time.Now()
	res, err := req.Execute(method, path)
	if err != nil {
		return nil, &NetworkError{Op: path, Err: err}
	}

	t.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", res.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("API request")

	return t.handleResponse(path, res)
}

func (t *transport) handleResponse(path string, res *resty.Response) (json.RawMessage, error) {
	switch {
	case res.StatusCode() == http.StatusTooManyRequests:
		return nil, &RateLimitError{RetryAfter: res.Header().Get("Retry-After")}
	case res.StatusCode() == http.StatusUnauthorized, res.StatusCode() == http.StatusForbidden:
		return nil, &AuthError{Message: "session expired or invalid"}
	case !res.IsSuccess():
		return nil, &APIError{
			StatusCode: res.StatusCode(),
			Message:    http.StatusText(res.StatusCode()),
			Body:       string(res.Body()),
		}
	}

	body := res.Body()
	if len(body) > 0 && body[0] == '[' {
		// Some endpoints return a bare array without the envelope.
		return body, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &APIError{
			Message: "malformed JSON response from " + path,
			Body:    string(body),
		}
	}

	switch {
	case env.Status == http.StatusUnauthorized || env.Status == http.StatusForbidden:
		return nil, &AuthError{Message: "session expired or invalid"}
	case env.Status >= 400:
		return nil, &APIError{
			StatusCode: env.Status,
			Message:    env.firstMessage("API error"),
			Body:       string(body),
		}
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		return body, nil
	}
	return env.Data, nil
}

func defaultHeaders(baseURL, userAgent, language string) map[string]string {
	// Browser-like headers: the frontend API rejects clients that look
	// like bots.
	return map[string]string{
		"Accept":             "application/json, text/plain, */*",
		"Content-Type":       "application/json",
		"User-Agent":         userAgent,
		"Referer":            baseURL,
		"Origin":             baseURL,
		"Accept-Language":    language,
		"sec-ch-ua":          `"Google Chrome";v="119", "Chromium";v="119", "Not?A_Brand";v="24"`,
		"sec-ch-ua-mobile":   "?0",
		"sec-ch-ua-platform": `"macOS"`,
		"sec-fetch-dest":     "empty",
		"sec-fetch-mode":     "cors",
		"sec-fetch-site":     "same-origin",
	}
}
