package sim

import (
	"time"

	"github.com/san-kum/slopefield/internal/config"
	"github.com/san-kum/slopefield/internal/dynamo"
	"github.com/san-kum/slopefield/internal/trace"
)

// RenderSink receives display-space segments. Clear and Present bracket each
// frame.
type RenderSink interface {
	Clear()
	Draw(segs []dynamo.Segment)
	Present() error
}

// PointerSource reports the pointer position in display space. ok is false
// when no position is known, e.g. before the first mouse event.
type PointerSource interface {
	Pointer() (p dynamo.Point, ok bool)
}

// PointerFunc adapts a function to PointerSource.
type PointerFunc func() (dynamo.Point, bool)

func (f PointerFunc) Pointer() (dynamo.Point, bool) { return f() }

// Observer is notified after every frame.
type Observer interface {
	OnFrame(f *Frame)
}

// Frame is everything computed for one tick.
type Frame struct {
	Domain  *config.Domain
	Samples []dynamo.SamplePoint
	Ticks   []dynamo.Segment

	// HasSeed is false when there was no pointer; Trace is nil then.
	HasSeed bool
	Seed    dynamo.Point
	Trace   *trace.Result
	Curve   []dynamo.Segment

	Elapsed time.Duration
}

// Segments returns ticks followed by the curve, all in display space.
func (f *Frame) Segments() []dynamo.Segment {
	out := make([]dynamo.Segment, 0, len(f.Ticks)+len(f.Curve))
	out = append(out, f.Ticks...)
	return append(out, f.Curve...)
}
