package hostsim

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/danmuck/locuslink/internal/action"
	"github.com/danmuck/locuslink/internal/auth"
	"github.com/danmuck/locuslink/internal/config"
	"github.com/danmuck/locuslink/internal/observability"
	"github.com/danmuck/locuslink/internal/protocol/record"
	"github.com/danmuck/locuslink/internal/protocol/wire"
	"github.com/danmuck/locuslink/internal/transport/httpbridge"
	"github.com/danmuck/locuslink/internal/transport/tlsconf"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	serviceName     = "hostsim"
	maxRequestBytes = 16 << 20
	shutdownTimeout = 5 * time.Second
)

// Server exposes a Host over the HTTP bridge protocol.
type Server struct {
	Addr    string
	Started time.Time

	host       *Host
	deliveries *DeliveryLog
	router     *gin.Engine
	logger     zerolog.Logger
	token      string
	tls        tlsconf.Config
}

func NewServer(cfg config.HostSimConfig, logger zerolog.Logger) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetricsMiddleware(serviceName))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type", auth.Header, httpbridge.RequestIDHeader},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		Addr:       cfg.Addr,
		Started:    time.Now(),
		host:       NewHost(cfg),
		deliveries: NewDeliveryLog(0),
		router:     r,
		logger:     logger,
		token:      cfg.AuthToken,
		tls:        cfg.TLS,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Host() *Host {
	return s.host
}

func (s *Server) Deliveries() *DeliveryLog {
	return s.deliveries
}

func (s *Server) HTTPRouter() *gin.Engine {
	return s.router
}

// TLSConfig returns the listener TLS settings, or nil for plain HTTP.
func (s *Server) TLSConfig() (*tls.Config, error) {
	return s.tls.Server()
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		inst := s.host.Installation()
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"uptime":       time.Since(s.Started).String(),
			"service":      serviceName,
			"package":      inst.PackageName,
			"version_code": inst.VersionCode,
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	guarded := s.router.Group("/")
	if s.token != "" {
		guarded.Use(requireToken(auth.StaticToken{Token: s.token}))
	}

	guarded.GET(httpbridge.PathInstallations, func(c *gin.Context) {
		c.JSON(http.StatusOK, []httpbridge.Installation{
			httpbridge.FromInstallation(s.host.Installation()),
		})
	})

	guarded.POST(httpbridge.PathDispatch, s.handleDispatch)
	guarded.POST(httpbridge.PathQuery, s.handleQuery)

	guarded.GET("/v1/deliveries", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"deliveries": s.deliveries.List()})
	})

	guarded.GET("/v1/state", func(c *gin.Context) {
		snap := s.host.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"recorder":   s.host.RecorderState().String(),
			"tracks":     len(s.host.Tracks()),
			"map_center": []float64{snap.MapCenterLatitude, snap.MapCenterLongitude},
			"guiding":    snap.GuideActive,
			"guide_name": snap.GuideTargetName,
		})
	})
}

func requireToken(v auth.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.Check(v, c.GetHeader(auth.Header)); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpbridge.ErrorBody{Error: err.Error()})
			return
		}
		c.Next()
	}
}

func (s *Server) handleDispatch(c *gin.Context) {
	req, ok := s.readRequest(c)
	if !ok {
		return
	}
	id := strings.TrimSpace(c.GetHeader(httpbridge.RequestIDHeader))
	if id == "" {
		id = req.ID
	}

	delivery, applied := s.deliveries.Seen(id, req.Action, time.Now())
	if applied {
		s.logger.Debug().
			Str("request_id", id).
			Str("action", req.Action).
			Int("attempts", delivery.Attempts).
			Msg("duplicate dispatch ignored")
		c.Status(http.StatusNoContent)
		return
	}

	err := s.host.Apply(req)
	s.deliveries.MarkResult(id, err)
	if err != nil {
		s.fail(c, req, err)
		return
	}
	s.logger.Info().
		Str("request_id", id).
		Str("action", req.Action).
		Str("kind", req.Kind.String()).
		Msg("dispatch applied")
	c.Status(http.StatusNoContent)
}

func (s *Server) handleQuery(c *gin.Context) {
	req, ok := s.readRequest(c)
	if !ok {
		return
	}
	resp, err := s.host.Answer(req)
	if err != nil {
		s.fail(c, req, err)
		return
	}
	if resp == nil {
		c.Status(http.StatusNoContent)
		return
	}
	body, err := action.EncodeResponse(*resp)
	if err != nil {
		s.fail(c, req, err)
		return
	}
	c.Data(http.StatusOK, httpbridge.ContentTypeRecord, body)
}

func (s *Server) readRequest(c *gin.Context) (action.Request, bool) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRequestBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpbridge.ErrorBody{Error: err.Error()})
		return action.Request{}, false
	}
	req, err := action.DecodeRequest(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpbridge.ErrorBody{Error: err.Error()})
		return action.Request{}, false
	}
	return *req, true
}

func (s *Server) fail(c *gin.Context, req action.Request, err error) {
	status := statusFor(err)
	event := s.logger.Warn()
	if status >= http.StatusInternalServerError {
		event = s.logger.Error()
	}
	event.
		Str("request_id", req.ID).
		Str("action", req.Action).
		Str("address", req.Address).
		Int("status", status).
		Err(err).
		Msg("host request failed")
	c.JSON(status, httpbridge.ErrorBody{Error: err.Error()})
}

func statusFor(err error) int {
	var (
		verr ValidationError
		merr *record.MalformedRecordError
		uerr *wire.UnderflowError
	)
	switch {
	case errors.As(err, &verr),
		errors.As(err, &merr),
		errors.As(err, &uerr),
		errors.Is(err, ErrInvalidRecord),
		errors.Is(err, action.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrWrongHost),
		errors.Is(err, ErrUnknownRoute):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	tlsCfg, err := s.TLSConfig()
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.router,
		TLSConfig:         tlsCfg,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if tlsCfg != nil {
			errCh <- srv.ListenAndServeTLS("", "")
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	inst := s.host.Installation()
	s.logger.Info().
		Str("addr", s.Addr).
		Str("package", inst.PackageName).
		Int32("version_code", inst.VersionCode).
		Bool("tls", tlsCfg != nil).
		Bool("mutual_tls", s.tls.Mutual).
		Msg("hostsim started")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info().Msg("hostsim shutdown")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
