// Package display drives a text plane renderer from a host's refresh loop.
//
// A Layer owns the frame geometry, accumulates dirty regions and, on each
// refresh, brackets one delegate Render call with BeginDraw and EndDraw.
// FPSMeter reports the achieved frame rate for diagnostics.
package display
