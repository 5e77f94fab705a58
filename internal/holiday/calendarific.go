package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/calendo/internal/calendar"
)

const (
	// DefaultBaseURL is the Calendarific holidays endpoint.
	DefaultBaseURL     = "https://calendarific.com/api/v2/holidays"
	defaultHTTPTimeout = 10 * time.Second
	defaultCacheTTL    = 24 * time.Hour
)

// Calendarific implements Source using the Calendarific API.
type Calendarific struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
	cache      map[Query]*cachedMonth
	cacheMu    sync.RWMutex
	cacheTTL   time.Duration
	now        func() time.Time
}

type cachedMonth struct {
	holidays  []Holiday
	fetchedAt time.Time
}

// calendarificResponse mirrors the parts of the API payload that are used.
type calendarificResponse struct {
	Response struct {
		Holidays []struct {
			Name string `json:"name"`
			Date struct {
				Datetime struct {
					Year  int `json:"year"`
					Month int `json:"month"`
					Day   int `json:"day"`
				} `json:"datetime"`
			} `json:"date"`
		} `json:"holidays"`
	} `json:"response"`
}

// CalendarificOption configures a Calendarific client.
type CalendarificOption func(*Calendarific)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) CalendarificOption {
	return func(c *Calendarific) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) CalendarificOption {
	return func(c *Calendarific) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithCacheTTL sets how long a month is reused before refetching.
func WithCacheTTL(d time.Duration) CalendarificOption {
	return func(c *Calendarific) {
		if d > 0 {
			c.cacheTTL = d
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) CalendarificOption {
	return func(c *Calendarific) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewCalendarific creates a new Calendarific client.
func NewCalendarific(apiKey string, logger *zap.Logger, opts ...CalendarificOption) *Calendarific {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Calendarific{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger:   logger,
		cache:    make(map[Query]*cachedMonth),
		cacheTTL: defaultCacheTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Holidays returns the holidays of q's month. Results are cached per query.
func (c *Calendarific) Holidays(ctx context.Context, q Query) ([]Holiday, error) {
	c.cacheMu.RLock()
	if cached, ok := c.cache[q]; ok && c.now().Sub(cached.fetchedAt) < c.cacheTTL {
		c.cacheMu.RUnlock()
		c.logger.Debug("Using cached holidays",
			zap.Int("year", q.Year),
			zap.Int("month", int(q.Month)))
		return cached.holidays, nil
	}
	c.cacheMu.RUnlock()

	hs, err := c.fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	c.cacheMu.Lock()
	c.cache[q] = &cachedMonth{holidays: hs, fetchedAt: c.now()}
	c.cacheMu.Unlock()

	return hs, nil
}

func (c *Calendarific) fetch(ctx context.Context, q Query) ([]Holiday, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	params := u.Query()
	params.Set("api_key", c.apiKey)
	params.Set("country", q.Country)
	if q.Region != "" {
		params.Set("location", q.Region)
	}
	params.Set("year", strconv.Itoa(q.Year))
	params.Set("month", strconv.Itoa(int(q.Month)))
	u.RawQuery = params.Encode()

	c.logger.Debug("Fetching holidays",
		zap.String("country", q.Country),
		zap.String("region", q.Region),
		zap.Int("year", q.Year),
		zap.Int("month", int(q.Month)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching holidays: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	hs, err := decodeCalendarific(body)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Holidays fetched",
		zap.Int("year", q.Year),
		zap.Int("month", int(q.Month)),
		zap.Int("count", len(hs)))

	return hs, nil
}

// decodeCalendarific converts a response body to holidays, skipping entries
// whose date is not a real day.
func decodeCalendarific(body []byte) ([]Holiday, error) {
	var payload calendarificResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decoding holidays: %w", err)
	}

	hs := make([]Holiday, 0, len(payload.Response.Holidays))
	for _, h := range payload.Response.Holidays {
		dt := h.Date.Datetime
		d, err := calendar.NewDate(dt.Year, time.Month(dt.Month), dt.Day)
		if err != nil {
			continue
		}
		hs = append(hs, Holiday{Name: h.Name, Date: d})
	}
	return hs, nil
}
