// Package holiday fetches public holidays used to label calendar days.
package holiday

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/calendo/internal/calendar"
	"github.com/javiermolinar/calendo/internal/dateutil"
)

// Holiday is a named public holiday.
type Holiday struct {
	Name string
	Date calendar.Date
}

// Query selects the holidays of one month at one location.
type Query struct {
	Country string
	Region  string
	Year    int
	Month   time.Month
}

// Source provides holidays for a month.
type Source interface {
	Holidays(ctx context.Context, q Query) ([]Holiday, error)
}

// Merge indexes holidays by store key. When two holidays share a date the
// first one in hs wins.
func Merge(hs []Holiday) map[string]string {
	labels := make(map[string]string, len(hs))
	for _, h := range hs {
		key := dateutil.FormatKey(h.Date)
		if _, ok := labels[key]; ok {
			continue
		}
		labels[key] = h.Name
	}
	return labels
}

// Composite tries primary and falls back to fallback when it fails.
type Composite struct {
	primary  Source
	fallback Source
	logger   *zap.Logger
}

// NewComposite creates a Composite.
func NewComposite(primary, fallback Source, logger *zap.Logger) *Composite {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composite{primary: primary, fallback: fallback, logger: logger}
}

// Holidays returns the primary's holidays, or the fallback's on error.
func (c *Composite) Holidays(ctx context.Context, q Query) ([]Holiday, error) {
	hs, err := c.primary.Holidays(ctx, q)
	if err == nil {
		return hs, nil
	}

	c.logger.Warn("Primary holiday source failed, falling back",
		zap.Int("year", q.Year),
		zap.Int("month", int(q.Month)),
		zap.Error(err))

	return c.fallback.Holidays(ctx, q)
}

// None is a Source with no holidays.
type None struct{}

// Holidays returns nothing.
func (None) Holidays(context.Context, Query) ([]Holiday, error) { return nil, nil }
