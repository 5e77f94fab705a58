// Package server exposes the calendar over a small JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/javiermolinar/calendo/internal/calendar"
	"github.com/javiermolinar/calendo/internal/coordinator"
	"github.com/javiermolinar/calendo/internal/dateutil"
	"github.com/javiermolinar/calendo/internal/export"
	"github.com/javiermolinar/calendo/internal/holiday"
	"github.com/javiermolinar/calendo/internal/task"
)

// Navigation actions accepted by POST /api/v1/navigate.
const (
	ActionNextMonth = "next_month"
	ActionPrevMonth = "prev_month"
	ActionNextWeek  = "next_week"
	ActionPrevWeek  = "prev_week"
	ActionToday     = "today"
)

// Server serves one coordinator. Requests are serialized.
type Server struct {
	mu     sync.Mutex
	coord  *coordinator.Coordinator
	store  task.Store
	logger *zap.Logger
	echo   *echo.Echo
}

// New creates a server over coord. store is used for exports.
func New(coord *coordinator.Coordinator, store task.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		coord:  coord,
		store:  store,
		logger: logger,
	}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(s.requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.GET("/health", s.handleHealth)

	api := e.Group("/api/v1")
	api.GET("/month", s.handleMonth)
	api.GET("/week", s.handleWeek)
	api.POST("/navigate", s.handleNavigate)
	api.GET("/tasks/:key", s.handleTasks)
	api.POST("/tasks/:key", s.handleAddTask)
	api.POST("/tasks/:key/:id/toggle", s.handleToggleTask)
	api.GET("/holidays", s.handleHolidays)
	api.GET("/export.ics", s.handleExport)

	s.echo = e
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting server", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		req := c.Request()
		res := c.Response()
		s.logger.Info("HTTP request",
			zap.String("method", req.Method),
			zap.String("uri", req.RequestURI),
			zap.Int("status", res.Status),
			zap.Int64("size", res.Size),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", res.Header().Get(echo.HeaderXRequestID)))
		return nil
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// MonthResponse is the month page with the selected day's tasks.
type MonthResponse struct {
	Month coordinator.MonthView `json:"month"`
	Panel coordinator.TaskPanel `json:"panel"`
	Today string                `json:"today"`
}

// handleMonth returns the displayed month. ?date=YYYY-MM-DD jumps first.
func (s *Server) handleMonth(c echo.Context) error {
	ctx := c.Request().Context()
	s.mu.Lock()
	defer s.mu.Unlock()

	if v := c.QueryParam("date"); v != "" {
		d, err := dateutil.ParseRelativeDate(v, s.coord.Engine().Today().Time())
		if err != nil {
			return httpError(err)
		}
		if err := s.coord.GoTo(d); err != nil {
			return httpError(err)
		}
	}
	s.refreshHolidays(ctx)
	return c.JSON(http.StatusOK, s.monthResponse(ctx))
}

func (s *Server) handleWeek(c echo.Context) error {
	ctx := c.Request().Context()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshHolidays(ctx)
	return c.JSON(http.StatusOK, s.coord.WeekView(ctx))
}

// NavigateRequest moves the displayed calendar.
type NavigateRequest struct {
	Action string `json:"action"`
}

func (s *Server) handleNavigate(c echo.Context) error {
	var req NavigateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch req.Action {
	case ActionNextMonth:
		err = s.coord.NextMonth()
	case ActionPrevMonth:
		err = s.coord.PrevMonth()
	case ActionNextWeek:
		err = s.coord.NextWeek()
	case ActionPrevWeek:
		err = s.coord.PrevWeek()
	case ActionToday:
		s.coord.Today()
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown action: "+req.Action)
	}
	if err != nil {
		return httpError(err)
	}
	s.refreshHolidays(ctx)
	return c.JSON(http.StatusOK, s.monthResponse(ctx))
}

func (s *Server) handleTasks(c echo.Context) error {
	d, err := dateutil.ParseKey(c.Param("key"))
	if err != nil {
		return httpError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.coord.TaskPanelFor(c.Request().Context(), d))
}

// AddTaskRequest creates a task.
type AddTaskRequest struct {
	Task string `json:"task"`
}

// TaskResponse is a single task with its id within the day.
type TaskResponse struct {
	ID         int    `json:"id"`
	Date       string `json:"date"`
	Task       string `json:"task"`
	IsComplete bool   `json:"isComplete"`
}

func (s *Server) handleAddTask(c echo.Context) error {
	d, err := dateutil.ParseKey(c.Param("key"))
	if err != nil {
		return httpError(err)
	}
	var req AddTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, id, err := s.coord.AddTask(c.Request().Context(), d, req.Task)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, TaskResponse{ID: id, Date: t.Date, Task: t.Text, IsComplete: t.IsComplete})
}

func (s *Server) handleToggleTask(c echo.Context) error {
	d, err := dateutil.ParseKey(c.Param("key"))
	if err != nil {
		return httpError(err)
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.coord.ToggleTask(c.Request().Context(), d, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, TaskResponse{ID: id, Date: t.Date, Task: t.Text, IsComplete: t.IsComplete})
}

// HolidayResponse is one holiday.
type HolidayResponse struct {
	Date string `json:"date"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// handleHolidays lists holidays of ?month=YYYY-MM, or of the displayed month.
func (s *Server) handleHolidays(c echo.Context) error {
	ctx := c.Request().Context()
	s.mu.Lock()
	t := s.coord.HolidayTicket()
	s.mu.Unlock()

	if v := c.QueryParam("month"); v != "" {
		year, month, err := dateutil.ParseMonth(v)
		if err != nil {
			return httpError(err)
		}
		t.Year, t.Month = year, month
	}

	hs, err := s.coord.FetchHolidays(ctx, t)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "holiday lookup failed")
	}
	out := make([]HolidayResponse, 0, len(hs))
	for _, h := range hs {
		out = append(out, HolidayResponse{Date: h.Date.String(), Key: dateutil.FormatKey(h.Date), Name: h.Name})
	}
	return c.JSON(http.StatusOK, out)
}

// handleExport returns every stored task as an iCalendar feed.
// ?month=YYYY-MM limits the tasks to that month and adds its holidays.
func (s *Server) handleExport(c echo.Context) error {
	ctx := c.Request().Context()
	opts := export.Options{}
	if v := c.QueryParam("month"); v != "" {
		year, month, err := dateutil.ParseMonth(v)
		if err != nil {
			return httpError(err)
		}
		opts.Year, opts.Month = year, month
	}

	var hs []holiday.Holiday
	if opts.Month != 0 {
		s.mu.Lock()
		t := s.coord.HolidayTicket()
		s.mu.Unlock()
		t.Year, t.Month = opts.Year, opts.Month

		fetched, err := s.coord.FetchHolidays(ctx, t)
		if err != nil {
			s.logger.Warn("Export without holidays", zap.Error(err))
		}
		hs = fetched
	}

	cal, err := export.Build(ctx, s.store, hs, opts)
	if err != nil {
		return httpError(err)
	}
	c.Response().Header().Set(echo.HeaderContentType, "text/calendar; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return export.Write(c.Response(), cal)
}

func (s *Server) monthResponse(ctx context.Context) MonthResponse {
	return MonthResponse{
		Month: s.coord.MonthView(ctx),
		Panel: s.coord.TaskPanel(ctx),
		Today: s.coord.TodayTitle(),
	}
}

// refreshHolidays loads the displayed month's labels. Failures only mean
// no labels.
func (s *Server) refreshHolidays(ctx context.Context) {
	_ = s.coord.RefreshHolidays(ctx)
}

// httpError maps domain errors onto HTTP statuses.
func httpError(err error) error {
	switch {
	case errors.Is(err, task.ErrEmptyText),
		errors.Is(err, calendar.ErrInvalidDate),
		errors.Is(err, dateutil.ErrInvalidKey),
		errors.Is(err, dateutil.ErrInvalidDateFormat),
		errors.Is(err, dateutil.ErrInvalidMonthFormat):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, task.ErrTaskNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, task.ErrMalformedPayload):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
