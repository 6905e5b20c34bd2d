// Package sim drives one frame of the slope-field viewer.
//
// A frame takes a snapshot of the current [config.Domain], samples the field,
// traces the curve through the pointer position and maps everything to
// display space before handing it to a [RenderSink]. The snapshot is held for
// the whole frame, so a concurrent [config.Store.Reload] only becomes visible
// on the next frame.
//
// Simulator instances are NOT safe for concurrent Tick calls; the driver
// owns the frame loop.
package sim
