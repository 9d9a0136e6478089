package facades

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sbilibin2017/readify/internal/logger"
	"github.com/sbilibin2017/readify/internal/models"
	"golang.org/x/time/rate"
)

// DefaultGoogleBooksURL is the public volumes search endpoint.
const DefaultGoogleBooksURL = "https://www.googleapis.com/books/v1/volumes"

// ErrNetwork is returned when the catalog cannot be reached or answers with a failure.
var ErrNetwork = errors.New("google books unavailable")

// GoogleBooksFacade searches the Google Books catalog over HTTP.
type GoogleBooksFacade struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// Opt configures a GoogleBooksFacade.
type Opt func(*GoogleBooksFacade)

// WithBaseURL overrides the volumes endpoint.
func WithBaseURL(u string) Opt {
	return func(f *GoogleBooksFacade) {
		if u != "" {
			f.baseURL = u
		}
	}
}

// WithAPIKey sends the key with every request. Empty keys are ignored.
func WithAPIKey(key string) Opt {
	return func(f *GoogleBooksFacade) {
		f.apiKey = strings.TrimSpace(key)
	}
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Opt {
	return func(f *GoogleBooksFacade) {
		if d > 0 {
			f.httpClient.Timeout = d
		}
	}
}

// WithRateLimit limits outgoing requests to rps with the given burst.
func WithRateLimit(rps float64, burst int) Opt {
	return func(f *GoogleBooksFacade) {
		if rps > 0 && burst > 0 {
			f.rateLimiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// NewGoogleBooksFacade creates a facade with a 15s timeout and 5 requests per second.
func NewGoogleBooksFacade(opts ...Opt) *GoogleBooksFacade {
	f := &GoogleBooksFacade{
		baseURL:     DefaultGoogleBooksURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		rateLimiter: rate.NewLimiter(rate.Limit(5), 10),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
	ImageLinks  *struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"imageLinks"`
}

// Search queries the catalog and maps the volumes into book candidates.
// No results is an empty slice, not an error.
func (f *GoogleBooksFacade) Search(ctx context.Context, query string, maxResults int) ([]models.BookFields, error) {
	if err := f.rateLimiter.Wait(ctx); err != nil {
		logger.Log.Errorw("google books rate limiter", "query", query, "error", err)
		return nil, fmt.Errorf("%w: rate limit: %v", ErrNetwork, err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	if f.apiKey != "" {
		params.Set("key", f.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		logger.Log.Errorw("google books request failed", "query", query, "error", err)
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: request to Google Books API timed out: %v", ErrNetwork, err)
		}
		return nil, fmt.Errorf("%w: error connecting to Google Books API: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.Errorw("google books bad status", "query", query, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: unexpected status %d", ErrNetwork, resp.StatusCode)
	}

	var body volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logger.Log.Errorw("google books decode failed", "query", query, "error", err)
		return nil, fmt.Errorf("%w: error processing Google Books response: %v", ErrNetwork, err)
	}

	candidates := make([]models.BookFields, 0, len(body.Items))
	for _, item := range body.Items {
		candidates = append(candidates, toCandidate(item))
	}

	logger.Log.Infow("google books search", "query", query, "max_results", maxResults, "result", len(candidates))
	return candidates, nil
}

func toCandidate(v volume) models.BookFields {
	info := v.VolumeInfo
	c := models.BookFields{
		ExternalID:  optional(v.ID),
		Title:       info.Title,
		Author:      optional(strings.Join(info.Authors, ", ")),
		Description: optional(info.Description),
	}
	if info.ImageLinks != nil {
		c.CoverImage = optional(info.ImageLinks.Thumbnail)
	}
	if len(info.Categories) > 0 {
		c.Category = optional(info.Categories[0])
	}
	return c
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
