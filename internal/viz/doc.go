// Package viz is the terminal surface of the slope-field viewer.
//
//   - [Canvas]: Braille render target, one cell is 2x4 sub-pixels
//   - [App]: Bubble Tea program driving a sim.Simulator
//
// # Key Bindings
//
//	mouse - seed the traced curve
//	E     - edit the equation (Enter applies, Esc cancels)
//	R     - reload the config file
//	B     - toggle strict / time-only bounds
//	T     - cycle color themes
//	Esc   - clear the curve
//	?     - show help
//	Q     - quit
package viz
