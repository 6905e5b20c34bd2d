// Package server exposes the slope-field engine over HTTP: SVG frames, CSV
// samples, JSON traces, config reload and Prometheus metrics.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/san-kum/slopefield/internal/config"
	"github.com/san-kum/slopefield/internal/dynamo"
	"github.com/san-kum/slopefield/internal/export"
	"github.com/san-kum/slopefield/internal/expr"
	"github.com/san-kum/slopefield/internal/field"
	"github.com/san-kum/slopefield/internal/logging"
	"github.com/san-kum/slopefield/internal/metrics"
	"github.com/san-kum/slopefield/internal/screen"
	"github.com/san-kum/slopefield/internal/sim"
	"github.com/san-kum/slopefield/internal/trace"
)

type Options struct {
	Surface  screen.Surface
	Workers  int
	Logger   *slog.Logger
	Registry *prometheus.Registry
}

// Server serves frames from a shared Store. Every request takes its own
// snapshot, so a concurrent reload never mixes two domains in one response.
type Server struct {
	store   *config.Store
	surface screen.Surface
	workers int
	logger  *slog.Logger
	prom    *metrics.Prometheus
	reloads *prometheus.CounterVec
}

// NewHandler creates a new HTTP handler for store.
func NewHandler(store *config.Store, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Surface == (screen.Surface{}) {
		opts.Surface = screen.Nominal
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	s := &Server{
		store:   store,
		surface: opts.Surface,
		workers: opts.Workers,
		logger:  opts.Logger,
		prom:    metrics.NewPrometheus(reg),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slopefield_reloads_total",
			Help: "Config reloads by result",
		}, []string{"result"}),
	}
	reg.MustRegister(s.reloads)

	r := chi.NewRouter()
	r.Get("/domain", s.Domain)
	r.Get("/field.svg", s.FieldSVG)
	r.Get("/samples.csv", s.SamplesCSV)
	r.Get("/trace", s.Trace)
	r.Post("/reload", s.Reload)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return r
}

// Domain handles GET /domain.
func (s *Server) Domain(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Snapshot().Spec())
}

// FieldSVG handles GET /field.svg?t=&y=. The curve is drawn when a seed is
// given.
func (s *Server) FieldSVG(w http.ResponseWriter, r *http.Request) {
	seed, hasSeed, err := seedFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// pin the request to one snapshot so the seed and the frame agree
	d := s.store.Snapshot()
	sm := sim.New(config.NewStore(d, s.logger), s.surface, sim.WithWorkers(s.workers), sim.WithLogger(s.logger))
	sm.AddObserver(s.prom)

	pointer, err := s.surface.ToDisplay(seed, d)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	svg := export.NewSVG(s.surface)
	if _, err := sm.Step(sim.PointerFunc(func() (dynamo.Point, bool) { return pointer, hasSeed }), svg); err != nil {
		http.Error(w, fmt.Sprintf("render error: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err := svg.WriteTo(w); err != nil {
		s.logger.Warn("svg write failed", "error", err)
	}
}

// SamplesCSV handles GET /samples.csv.
func (s *Server) SamplesCSV(w http.ResponseWriter, r *http.Request) {
	d := s.store.Snapshot()
	w.Header().Set("Content-Type", "text/csv")
	if err := export.WriteSamples(w, field.SampleParallel(d, s.workers)); err != nil {
		s.logger.Warn("csv write failed", "error", err)
	}
}

// Trace handles GET /trace?t=&y=.
func (s *Server) Trace(w http.ResponseWriter, r *http.Request) {
	seed, ok, err := seedFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !ok {
		http.Error(w, "missing seed: set t and y", http.StatusBadRequest)
		return
	}

	d := s.store.Snapshot()
	res := trace.Trace(seed, d)
	s.prom.OnFrame(&sim.Frame{Domain: d, HasSeed: true, Seed: seed, Trace: res})
	s.writeJSON(w, http.StatusOK, export.NewSummary(d, field.Stats{}, res))
}

type reloadResponse struct {
	Domain   *config.Spec `json:"domain,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
	Error    string       `json:"error,omitempty"`
	Caret    string       `json:"caret,omitempty"`
}

// Reload handles POST /reload. The body uses the key: value config format.
func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	ov, warnings, err := config.ParseText(r.Body)
	resp := reloadResponse{}
	for _, wn := range warnings {
		resp.Warnings = append(resp.Warnings, wn.String())
	}
	if err == nil {
		err = s.store.Reload("", ov)
	}
	if err != nil {
		s.reloads.WithLabelValues("rejected").Inc()
		resp.Error = err.Error()
		var pe *expr.ParseError
		if errors.As(err, &pe) {
			resp.Caret = pe.Caret()
		}
		s.writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	s.reloads.WithLabelValues("ok").Inc()
	spec := s.store.Snapshot().Spec()
	resp.Domain = &spec
	s.writeJSON(w, http.StatusOK, resp)
}

// seedFromQuery reads t and y. A seed is present when either is set; the
// other defaults to 0.
func seedFromQuery(r *http.Request) (dynamo.Point, bool, error) {
	q := r.URL.Query()
	var (
		p   dynamo.Point
		has bool
	)
	for _, c := range []struct {
		key string
		dst *float64
	}{{"t", &p.X}, {"y", &p.Y}} {
		raw := q.Get(c.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return dynamo.Point{}, false, fmt.Errorf("invalid %s %q: want a finite number", c.key, raw)
		}
		*c.dst = v
		has = true
	}
	return p, has, nil
}

// writeJSON encodes v before touching the response so an encoding failure
// still reaches the client as a 500.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.logger.Error("json encode failed", "error", err)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn("json write failed", "error", err)
	}
}
