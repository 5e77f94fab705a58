package holiday

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/javiermolinar/calendo/internal/config"
)

// FromConfig builds the Source described by cfg. A Calendarific source with a
// holiday file configured falls back to the file.
func FromConfig(cfg *config.Config, logger *zap.Logger) (Source, error) {
	h := cfg.Holidays
	switch h.Provider {
	case "", config.ProviderNone:
		return None{}, nil
	case config.ProviderFile:
		return NewFileSource(h.File, logger), nil
	case config.ProviderCalendarific:
		api := NewCalendarific(h.APIKey, logger,
			WithBaseURL(h.BaseURL),
			WithTimeout(cfg.HolidayTimeout()),
			WithCacheTTL(cfg.HolidayCacheTTL()),
		)
		if h.File == "" {
			return api, nil
		}
		return NewComposite(api, NewFileSource(h.File, logger), logger), nil
	default:
		return nil, fmt.Errorf("unknown holiday provider: %s", h.Provider)
	}
}
