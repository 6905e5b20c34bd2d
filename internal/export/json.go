package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/slopefield/internal/config"
	"github.com/san-kum/slopefield/internal/field"
	"github.com/san-kum/slopefield/internal/trace"
)

type CursorSummary struct {
	T     float64 `json:"t"`
	Y     float64 `json:"y"`
	Steps int     `json:"steps"`
	Halt  string  `json:"halt"`
	Error string  `json:"error,omitempty"`
}

type TraceSummary struct {
	Seed       [2]float64    `json:"seed"`
	Left       CursorSummary `json:"left"`
	Right      CursorSummary `json:"right"`
	Iterations int           `json:"iterations"`
	Segments   int           `json:"segments"`
	Capped     bool          `json:"capped"`
}

type FieldSummary struct {
	Samples int `json:"samples"`
	Skipped int `json:"skipped"`
}

// Summary describes one computed frame without the raw geometry. Field is
// nil when the field was not sampled.
type Summary struct {
	Domain  config.Spec        `json:"domain"`
	Field   *FieldSummary      `json:"field,omitempty"`
	Trace   *TraceSummary      `json:"trace,omitempty"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

// NewSummary builds a summary. Zero stats mean no field was sampled; a nil
// res means no curve was traced.
func NewSummary(d *config.Domain, stats field.Stats, res *trace.Result) Summary {
	s := Summary{Domain: d.Spec()}
	if stats.Total > 0 {
		s.Field = &FieldSummary{Samples: stats.Total, Skipped: stats.Skipped}
	}
	if res != nil {
		s.Trace = &TraceSummary{
			Seed:       [2]float64{res.Seed.X, res.Seed.Y},
			Left:       cursorSummary(res.Left),
			Right:      cursorSummary(res.Right),
			Iterations: res.Iterations,
			Segments:   len(res.Segments),
			Capped:     res.Capped(),
		}
	}
	return s
}

func cursorSummary(c trace.Cursor) CursorSummary {
	cs := CursorSummary{T: c.Pos.X, Y: c.Pos.Y, Steps: c.Steps, Halt: c.Halt.String()}
	if c.Err != nil {
		cs.Error = c.Err.Error()
	}
	return cs
}

func WriteJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
