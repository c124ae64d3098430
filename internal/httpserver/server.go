package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tinytelemetry/variantscope/internal/linkview"
	"github.com/tinytelemetry/variantscope/internal/model"
)

// Server provides a read-only HTTP API over the variant dataset and its
// linked views.
type Server struct {
	addr      string
	store     model.ReadAPI
	engine    *linkview.Engine
	server    *http.Server
	listener  net.Listener
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, store model.ReadAPI, engine *linkview.Engine) *Server {
	if addr == "" {
		addr = "0.0.0.0:3000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:   addr,
		store:  store,
		engine: engine,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/api/health", s.handleHealth)
	r.GET("/api/countries", s.handleCountries)
	r.GET("/api/countries/:country/variants", s.handleCountryVariants)
	r.GET("/api/views", s.handleViews)
	r.GET("/api/schema", s.handleSchema)
	r.POST("/api/query", s.handleQuery)
}

// Start binds the address and serves in the background.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	go s.Serve()
	return nil
}

// Listen builds the router and binds the TCP address.
func (s *Server) Listen() error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	s.registerRoutes(r)

	s.server = &http.Server{
		Handler:           r,
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.startTime = time.Now()
	return nil
}

// Addr is the bound address, useful when listening on port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Serve blocks serving requests. It returns nil once Stop shuts the server
// down and an error for any other reason.
func (s *Server) Serve() error {
	if s.server == nil || s.listener == nil {
		return errors.New("httpserver: Serve called before Listen")
	}
	if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpserver: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	sum, err := s.store.Summary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read health metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"uptime":       time.Since(s.startTime).String(),
		"record_count": sum.Records,
		"countries":    sum.Countries,
		"variants":     sum.Variants,
	})
}

func (s *Server) handleCountries(c *gin.Context) {
	countries, err := s.store.ListCountries()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list countries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"countries": nonNil(countries)})
}

func (s *Server) handleCountryVariants(c *gin.Context) {
	country := c.Param("country")

	countries, err := s.store.ListCountries()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list countries"})
		return
	}
	if !containsString(countries, country) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":      fmt.Sprintf("unknown country %q", country),
			"suggestion": linkview.Suggest(country, countries),
		})
		return
	}

	variants, err := s.store.VariantsInCountry(country)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list variants"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"country": country, "variants": nonNil(variants)})
}

func (s *Server) handleViews(c *gin.Context) {
	country := c.Query("country")
	if country == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing country parameter"})
		return
	}

	var metric model.Metric
	if raw := c.Query("metric"); raw != "" {
		m, err := model.ParseMetric(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		metric = m
	}

	snap, err := s.engine.Resolve(linkview.Selection{
		Country: country,
		Variant: c.Query("variant"),
		Metric:  metric,
	})
	if err != nil {
		var uce *linkview.UnknownCountryError
		switch {
		case errors.As(err, &uce):
			c.JSON(http.StatusNotFound, gin.H{"error": uce.Error(), "suggestion": uce.Suggestion})
		case errors.Is(err, linkview.ErrVariantNotInCountry):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, linkview.ErrEmptyDataset):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build views"})
		}
		return
	}

	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleSchema(c *gin.Context) {
	description := s.store.GetSchemaDescription()

	tables, err := s.store.ExecuteQuery(
		"SELECT table_name, column_name, data_type FROM information_schema.columns WHERE table_schema = 'main' ORDER BY table_name, ordinal_position",
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read schema metadata"})
		return
	}

	schema := make(map[string][]map[string]string)
	for _, row := range tables {
		tableName := fmt.Sprintf("%v", row["table_name"])
		schema[tableName] = append(schema[tableName], map[string]string{
			"column": fmt.Sprintf("%v", row["column_name"]),
			"type":   fmt.Sprintf("%v", row["data_type"]),
		})
	}

	counts, err := s.store.TableRowCounts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read table row counts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"description": description,
		"tables":      schema,
		"row_counts":  counts,
	})
}

func (s *Server) handleQuery(c *gin.Context) {
	var req struct {
		SQL string `json:"sql" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing sql field"})
		return
	}

	results, err := s.store.ExecuteQuery(req.SQL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var columns []string
	if len(results) > 0 {
		for col := range results[0] {
			columns = append(columns, col)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"columns":   columns,
		"rows":      results,
		"row_count": len(results),
	})
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
