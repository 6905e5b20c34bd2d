package config

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/san-kum/slopefield/internal/logging"
)

// Store owns the current Domain. Readers take a Snapshot at the start of a
// pass and use it until the pass ends; Reload publishes a complete new
// Domain or nothing at all.
type Store struct {
	cur    atomic.Pointer[Domain]
	mu     sync.Mutex
	logger *slog.Logger
}

func NewStore(d *Domain, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Store{logger: logger}
	s.cur.Store(d)
	return s
}

func (s *Store) Snapshot() *Domain {
	return s.cur.Load()
}

// Reload replaces the equation and applies ov on top of the current domain.
// An empty equation keeps the current one unless ov sets it. On error the
// current domain is left untouched and the error is a *ConfigError or an
// *expr.ParseError.
func (s *Store) Reload(equation string, ov Overrides) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.cur.Load()
	spec := ov.Apply(prev.Spec())
	if equation != "" {
		spec.Equation = equation
	}

	next, err := New(spec)
	if err != nil {
		s.logger.Warn("reload rejected", "error", err, "eq", spec.Equation)
		return err
	}

	s.cur.Store(next)
	s.logger.Info("reloaded",
		"eq", next.Equation.String(),
		"t", []float64{next.TMin, next.TMax},
		"y", []float64{next.YMin, next.YMax},
		"div", []int{next.TDiv, next.YDiv},
		"dt", next.Dt,
	)
	return nil
}

// ReloadFile loads overrides from path and applies them. Warnings are
// returned even when the reload fails.
func (s *Store) ReloadFile(path string) ([]Warning, error) {
	ov, warnings, err := LoadFile(path)
	for _, w := range warnings {
		s.logger.Warn("config", "file", path, "warning", w.String())
	}
	if err != nil {
		return warnings, err
	}
	return warnings, s.Reload("", ov)
}
