package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bastiangx/wordscape/internal/logger"
	"github.com/bastiangx/wordscape/pkg/config"
	"github.com/bastiangx/wordscape/pkg/search"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/time/rate"
)

// ShutdownTimeout bounds how long Serve waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// Server is the HTTP search service.
type Server struct {
	engine  *search.Engine
	router  *gin.Engine
	limiter *rate.Limiter
	metrics *metrics
	logger  *log.Logger
	host    string
}

// New builds the service and its routes from cfg.
func New(engine *search.Engine, cfg config.ServerConfig) *Server {
	s := &Server{
		engine:  engine,
		limiter: rate.NewLimiter(limitFor(cfg.RateLimit), cfg.RateBurst),
		metrics: newMetrics(engine),
		logger:  logger.New("server"),
		host:    cfg.Host,
	}
	engine.SetMaxResults(cfg.MaxResults)
	s.router = s.routes(cfg)
	return s
}

func limitFor(perSecond float64) rate.Limit {
	if perSecond <= 0 {
		return rate.Inf
	}
	return rate.Limit(perSecond)
}

func (s *Server) routes(cfg config.ServerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.logRequests(), allowAnyOrigin())

	api := r.Group("/api", s.rateLimit())
	api.GET("/search", s.handleSearch)
	api.GET("/search/", s.handleSearch)

	r.GET("/healthz", s.handleHealth)
	if cfg.Metrics {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))
	}
	if cfg.StaticDir != "" {
		s.logger.Infof("Serving static files from %s", cfg.StaticDir)
		r.NoRoute(gin.WrapH(http.FileServer(gin.Dir(cfg.StaticDir, false))))
	}
	return r
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ApplyConfig updates the limits that can change without a restart.
func (s *Server) ApplyConfig(cfg config.ServerConfig) {
	s.limiter.SetLimit(limitFor(cfg.RateLimit))
	s.limiter.SetBurst(cfg.RateBurst)
	s.engine.SetMaxResults(cfg.MaxResults)
	if cfg.Host != s.host {
		s.logger.Warnf("Host changed to %s; restart to apply", cfg.Host)
	}
	s.logger.Debugf("Applied config: rate=%v burst=%d max_results=%d", cfg.RateLimit, cfg.RateBurst, cfg.MaxResults)
}

// Run listens on the configured host and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.host)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Debug("Server stopped")
	return nil
}

func (s *Server) handleSearch(c *gin.Context) {
	letters := strings.ToLower(c.Query("letters"))
	template := strings.ToLower(c.Query("template"))

	res, err := s.engine.Find(c.Request.Context(), letters, template)
	if err != nil {
		switch {
		case errors.Is(err, search.ErrInvalidQuery):
			s.metrics.requests.WithLabelValues(outcomeInvalid).Inc()
			s.logger.Debugf("Invalid parameters: %v", err)
			sendError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			s.metrics.requests.WithLabelValues(outcomeCanceled).Inc()
			sendError(c, http.StatusServiceUnavailable, "search canceled")
		default:
			s.metrics.requests.WithLabelValues(outcomeError).Inc()
			s.logger.Errorf("Search failed: %v", err)
			sendError(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	s.metrics.requests.WithLabelValues(outcomeOK).Inc()
	s.metrics.duration.Observe(res.Elapsed.Seconds())
	s.metrics.results.Observe(float64(len(res.Words)))
	if res.Cached {
		s.metrics.cacheHits.Inc()
	}
	s.logger.Debugf("Search time: %v", res.Elapsed)
	render(c, http.StatusOK, res.Words)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		Words:  s.engine.Stats()["totalWords"],
	})
}

func wantsMsgpack(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), MIMEMsgpack)
}

// render writes v as msgpack when the client asked for it, JSON otherwise.
func render(c *gin.Context, status int, v any) {
	if !wantsMsgpack(c) {
		c.JSON(status, v)
		return
	}
	b, err := msgpack.Marshal(v)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "failed to encode response")
		return
	}
	c.Data(status, MIMEMsgpack, b)
}

func sendError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Status: status})
}
