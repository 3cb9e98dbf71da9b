// Package server serves a dashboard over HTTP, with the table filters taken from the
// query string of each request.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wesleyorama2/jmdash/internal/chart"
	"github.com/wesleyorama2/jmdash/internal/config"
	"github.com/wesleyorama2/jmdash/internal/dataset"
	"github.com/wesleyorama2/jmdash/internal/output"
	"github.com/wesleyorama2/jmdash/internal/render"
	"github.com/wesleyorama2/jmdash/internal/report"
)

// Query parameters overriding the default render configuration.
const (
	ParamControllersOnly         = "controllersOnly"
	ParamSeriesFilter            = "seriesFilter"
	ParamFiltersOnlySampleSeries = "filtersOnlySampleSeries"
)

// shutdownTimeout bounds the graceful shutdown of Run.
const shutdownTimeout = 5 * time.Second

// Config contains the server settings.
type Config struct {
	Addr     string
	Title    string
	Defaults config.RenderConfig
	Logger   output.Logger
}

// Server serves one dashboard.
type Server struct {
	dashboard *dataset.Dashboard
	config    Config
	engine    *gin.Engine
}

// New validates the dashboard and the default filters and builds the router.
func New(d *dataset.Dashboard, cfg Config) (*Server, error) {
	if d == nil {
		return nil, fmt.Errorf("dashboard cannot be nil")
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dashboard: %w", err)
	}
	if _, err := cfg.Defaults.CompileSeriesFilter(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = output.NewNoopLogger()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	s := &Server{dashboard: d, config: cfg}
	s.engine = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestIDMiddleware(), accessLogMiddleware(s.config.Logger))

	r.GET("/health", s.handleHealth)
	r.GET("/", s.handleReport(config.FormatHTML))
	r.GET("/report.json", s.handleReport(config.FormatJSON))
	r.GET("/report.xlsx", s.handleReport(config.FormatXLSX))
	r.GET("/chart", s.handleChart)

	api := r.Group("/api")
	api.GET("/summary", s.handleSummary)
	api.GET("/tables", s.handleTables)
	api.GET("/tables/:id", s.handleTable)
	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.config.Logger.LogServerStart(s.config.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	s.config.Logger.LogServerStop()
	return nil
}

// renderConfig merges the query parameters of the request over the defaults.
func (s *Server) renderConfig(c *gin.Context) (config.RenderConfig, error) {
	cfg := s.config.Defaults

	boolParams := []struct {
		name string
		dst  *bool
	}{
		{ParamControllersOnly, &cfg.ShowControllersOnly},
		{ParamFiltersOnlySampleSeries, &cfg.FiltersOnlySampleSeries},
	}
	for _, p := range boolParams {
		raw, ok := c.GetQuery(p.name)
		if !ok {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %q is not a boolean", p.name, raw)
		}
		*p.dst = v
	}

	if filter, ok := c.GetQuery(ParamSeriesFilter); ok {
		cfg.SeriesFilter = filter
	}
	if _, err := cfg.CompileSeriesFilter(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (s *Server) options(c *gin.Context) (report.Options, bool) {
	cfg, err := s.renderConfig(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return report.Options{}, false
	}
	return report.Options{Render: cfg, Title: s.config.Title}, true
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

var contentTypes = map[string]string{
	config.FormatHTML: "text/html; charset=utf-8",
	config.FormatJSON: "application/json; charset=utf-8",
	config.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

func (s *Server) handleReport(format string) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts, ok := s.options(c)
		if !ok {
			return
		}

		var buf bytes.Buffer
		if err := report.Write(&buf, s.dashboard, format, opts); err != nil {
			s.config.Logger.Warn("failed to render report", "format", format, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if format == config.FormatXLSX {
			c.Header("Content-Disposition", `attachment; filename="`+report.DefaultPath(format)+`"`)
		}
		c.Data(http.StatusOK, contentTypes[format], buf.Bytes())
	}
}

func (s *Server) handleChart(c *gin.Context) {
	var buf bytes.Buffer
	if err := chart.RenderPage(&buf, s.dashboard.RequestsSummary, chart.Options{Title: s.title()}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, contentTypes[config.FormatHTML], buf.Bytes())
}

func (s *Server) handleSummary(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"title":           s.title(),
		"requestsSummary": s.dashboard.RequestsSummary,
		"slices":          chart.Slices(s.dashboard.RequestsSummary),
	})
}

// tableResponse is a table with its rows in initial sort order.
type tableResponse struct {
	*render.Table
	Rows []render.Row `json:"rows"`
}

func (s *Server) tables(c *gin.Context) ([]*render.Table, bool) {
	opts, ok := s.options(c)
	if !ok {
		return nil, false
	}
	r, err := render.NewRenderer(opts.Render)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	tables, err := r.Dashboard(s.dashboard)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return tables, true
}

func (s *Server) handleTables(c *gin.Context) {
	tables, ok := s.tables(c)
	if !ok {
		return
	}
	resp := make([]tableResponse, len(tables))
	for i, t := range tables {
		resp[i] = tableResponse{Table: t, Rows: t.SortedRows()}
	}
	c.JSON(http.StatusOK, gin.H{"tables": resp})
}

func (s *Server) handleTable(c *gin.Context) {
	tables, ok := s.tables(c)
	if !ok {
		return
	}
	id := c.Param("id")
	for _, t := range tables {
		if t.ID == id {
			c.JSON(http.StatusOK, tableResponse{Table: t, Rows: t.SortedRows()})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("table %q not found", id)})
}

func (s *Server) title() string {
	if s.config.Title != "" {
		return s.config.Title
	}
	return s.dashboard.Title
}

// requestIDMiddleware adds a request ID to every request and response.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Set("request_id", reqID)
		c.Header("X-Request-ID", reqID)
		c.Next()
	}
}

// accessLogMiddleware logs every request at debug level.
func accessLogMiddleware(logger output.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString("request_id"),
		)
	}
}
