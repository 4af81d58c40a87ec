package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"PoolLedger/internal/observability"
	"PoolLedger/internal/query"
)

// Server is the HTTP/JSON query surface over the projected entity tables,
// plus health and metrics endpoints.
type Server struct {
	svc     *query.Service
	health  *observability.HealthChecker
	metrics *observability.Metrics
	log     zerolog.Logger
	httpSrv *http.Server
}

func New(
	addr string,
	svc *query.Service,
	health *observability.HealthChecker,
	metrics *observability.Metrics,
	log zerolog.Logger,
) *Server {
	s := &Server{
		svc:     svc,
		health:  health,
		metrics: metrics,
		log:     log.With().Str("component", "http").Logger(),
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", health.LivenessHandler).Methods(http.MethodGet)
	r.HandleFunc("/readyz", health.ReadinessHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1/chains/{chainId:[0-9]+}").Subrouter()
	v1.HandleFunc("/factory/{address}", s.instrument("factory", s.handleFactory)).Methods(http.MethodGet)
	v1.HandleFunc("/bundle", s.instrument("bundle", s.handleBundle)).Methods(http.MethodGet)
	v1.HandleFunc("/tokens", s.instrument("tokens", s.handleListTokens)).Methods(http.MethodGet)
	v1.HandleFunc("/tokens/{address}", s.instrument("token", s.handleToken)).Methods(http.MethodGet)
	v1.HandleFunc("/pools", s.instrument("pools", s.handleListPools)).Methods(http.MethodGet)
	v1.HandleFunc("/pools/{address}", s.instrument("pool", s.handlePool)).Methods(http.MethodGet)
	v1.HandleFunc("/pools/{address}/ticks", s.instrument("pool_ticks", s.handlePoolTicks)).Methods(http.MethodGet)
	v1.HandleFunc("/pools/{address}/day", s.instrument("pool_day", s.handlePoolDayData)).Methods(http.MethodGet)
	v1.HandleFunc("/pools/{address}/hour", s.instrument("pool_hour", s.handlePoolHourData)).Methods(http.MethodGet)

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.httpSrv.Addr).Msg("http server listening")
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func (s *Server) instrument(route string, h handlerFunc) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if s.metrics != nil {
			s.metrics.QueryRequests.WithLabelValues(route).Inc()
		}
		h(w, r)
		if s.metrics != nil {
			s.metrics.QueryDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, route string, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	if err == query.ErrNotFound {
		status = http.StatusNotFound
		msg = "not found"
	} else {
		s.log.Error().Err(err).Str("route", route).Msg("query failed")
	}
	if s.metrics != nil {
		s.metrics.QueryErrors.WithLabelValues(route, strconv.Itoa(status)).Inc()
	}
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func chainID(r *http.Request) int64 {
	// The route pattern constrains chainId to digits.
	id, _ := strconv.ParseInt(mux.Vars(r)["chainId"], 10, 64)
	return id
}

func pagination(r *http.Request) (limit, offset int) {
	q := r.URL.Query()
	limit, _ = strconv.Atoi(q.Get("limit"))
	offset, _ = strconv.Atoi(q.Get("offset"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *Server) handleFactory(w http.ResponseWriter, r *http.Request) {
	f, err := s.svc.GetFactory(r.Context(), chainID(r), mux.Vars(r)["address"])
	if err != nil {
		s.writeError(w, "factory", err)
		return
	}
	s.writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleBundle(w http.ResponseWriter, r *http.Request) {
	b, err := s.svc.GetBundle(r.Context(), chainID(r))
	if err != nil {
		s.writeError(w, "bundle", err)
		return
	}
	s.writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.GetToken(r.Context(), chainID(r), mux.Vars(r)["address"])
	if err != nil {
		s.writeError(w, "token", err)
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleListTokens(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	tokens, err := s.svc.ListTokens(r.Context(), chainID(r), limit, offset)
	if err != nil {
		s.writeError(w, "tokens", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"tokens": tokens})
}

func (s *Server) handlePool(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.GetPool(r.Context(), chainID(r), mux.Vars(r)["address"])
	if err != nil {
		s.writeError(w, "pool", err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleListPools(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	pools, err := s.svc.ListPools(r.Context(), chainID(r), limit, offset)
	if err != nil {
		s.writeError(w, "pools", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"pools": pools})
}

func (s *Server) handlePoolTicks(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	ticks, err := s.svc.GetPoolTicks(r.Context(), chainID(r), mux.Vars(r)["address"], limit, offset)
	if err != nil {
		s.writeError(w, "pool_ticks", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"ticks": ticks})
}

func (s *Server) handlePoolDayData(w http.ResponseWriter, r *http.Request) {
	limit, _ := pagination(r)
	buckets, err := s.svc.GetPoolDayData(r.Context(), chainID(r), mux.Vars(r)["address"], limit)
	if err != nil {
		s.writeError(w, "pool_day", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"buckets": buckets})
}

func (s *Server) handlePoolHourData(w http.ResponseWriter, r *http.Request) {
	limit, _ := pagination(r)
	buckets, err := s.svc.GetPoolHourData(r.Context(), chainID(r), mux.Vars(r)["address"], limit)
	if err != nil {
		s.writeError(w, "pool_hour", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"buckets": buckets})
}
