package holiday

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/calendo/internal/calendar"
	"github.com/javiermolinar/calendo/internal/dateutil"
)

// FileSource reads holidays from a local text file.
//
// Format, one holiday per line:
//
//	# comment
//	2025-12-25 Christmas Day
//
// Location is ignored; the file is assumed to describe the configured one.
type FileSource struct {
	path   string
	logger *zap.Logger

	once     sync.Once
	loadErr  error
	holidays []Holiday
}

// NewFileSource creates a FileSource. The file is read on first use.
func NewFileSource(path string, logger *zap.Logger) *FileSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSource{path: path, logger: logger}
}

// Holidays returns the file's holidays falling in q's month.
func (f *FileSource) Holidays(_ context.Context, q Query) ([]Holiday, error) {
	f.once.Do(f.load)
	if f.loadErr != nil {
		return nil, f.loadErr
	}

	var out []Holiday
	for _, h := range f.holidays {
		if h.Date.Year == q.Year && h.Date.Month == q.Month {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *FileSource) load() {
	file, err := os.Open(f.path)
	if err != nil {
		f.loadErr = fmt.Errorf("opening holiday file: %w", err)
		return
	}
	defer func() { _ = file.Close() }()

	f.holidays, f.loadErr = Parse(file)
	if f.loadErr == nil {
		f.logger.Info("Holiday file loaded",
			zap.String("path", f.path),
			zap.Int("count", len(f.holidays)))
	}
}

// Parse reads holiday lines from r.
func Parse(r io.Reader) ([]Holiday, error) {
	var hs []Holiday
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		dateStr, name, _ := strings.Cut(line, " ")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("line %d: missing holiday name", lineNo)
		}
		t, err := time.Parse(dateutil.DateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, dateutil.ErrInvalidDateFormat)
		}
		hs = append(hs, Holiday{Name: name, Date: calendar.DateOf(t)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading holiday file: %w", err)
	}
	return hs, nil
}
