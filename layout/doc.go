// Package layout shapes strings into text lines for the frame renderer.
//
// Shaping uses the HarfBuzz port in github.com/go-text/typesetting, with
// golang.org/x/text/unicode/bidi splitting mixed-direction paragraphs into
// runs first. Lines are single-paragraph and unwrapped; wrapping and
// multi-line layout belong to the caller.
package layout
