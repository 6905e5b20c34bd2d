// Package dynamo provides the shared primitives of the slope-field engine.
//
// The package defines the value types that flow between the numeric core and
// the render surfaces:
//
//   - [Point]: a pair of coordinates, in domain (t, y) or display (pixel) space
//   - [SamplePoint]: one slope-field sample, possibly marked as skipped
//   - [Segment]: one drawable line with its [Stroke]
//   - [Slope]: the right-hand side f(t, y) of dy/dt = f(t, y)
//
// # Example
//
//	spec := config.DefaultSpec()
//	spec.Equation = "t*y"
//	d, _ := config.New(spec)
//	samples := field.Sample(d)
//	res := trace.Trace(dynamo.Point{X: 0, Y: 1}, d)
//	fmt.Println(field.Summarize(samples), len(res.Segments))
//
// # Thread Safety
//
// All types here are plain values. [ParallelFor] is the only helper that
// starts goroutines; the callback must not share mutable state between chunks.
package dynamo
