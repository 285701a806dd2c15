package layout

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/textplane"
	"github.com/gogpu/textplane/internal/lru"
)

// DefaultSize is the font size used when Style.Size is zero.
const DefaultSize = 14

// ErrUnknownFont is returned for a Style whose font was never registered.
var ErrUnknownFont = errors.New("layout: unknown font")

// Style describes how a line of text is shaped and colored.
type Style struct {
	Font  textplane.FontRef
	Flags textplane.RenderFlags

	// Size is the font size in logical pixels per em. It must match the
	// size the glyphs are rasterized at. Default: DefaultSize
	Size float32

	Color textplane.RGBA

	// Background fills the line's extent when its alpha is non-zero.
	Background textplane.RGBA
}

// Line is a shaped line with its metrics, in logical pixels.
type Line struct {
	textplane.TextLine

	// Width is the total advance of the line.
	Width float32

	// Ascent and Descent are measured from the baseline. Glyph Y positions
	// place the baseline Ascent below the line origin.
	Ascent, Descent float32
}

// Height returns Ascent + Descent.
func (l *Line) Height() float32 {
	return l.Ascent + l.Descent
}

// Shaper turns strings into positioned glyph lines using HarfBuzz shaping
// from go-text/typesetting.
//
// Shaped lines are cached by text and style, since an editor redraws the
// same lines every frame. Returned lines are shared and must not be
// modified.
//
// Shaper is not safe for concurrent use.
type Shaper struct {
	fonts map[textplane.FontRef]*font.Font
	hb    shaping.HarfbuzzShaper
	lang  language.Language
	cache *lru.Cache[lineKey, *Line]
}

type lineKey struct {
	text  string
	style Style
}

// CacheStats reports shaped-line cache usage.
type CacheStats = lru.Stats

// New creates a shaper with no fonts. Text is shaped as English unless
// changed with SetLanguage.
func New(opts ...Option) *Shaper {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := &Shaper{
		fonts: make(map[textplane.FontRef]*font.Font),
		lang:  language.NewLanguage("en"),
	}
	if o.cacheSize > 0 {
		s.cache = lru.New[lineKey, *Line](o.cacheSize)
	}
	return s
}

// RegisterTTF parses font data and makes it available under ref.
// The same data should be registered with the rasterizer under the same
// ref so glyph IDs agree.
func (s *Shaper) RegisterTTF(ref textplane.FontRef, data []byte) error {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("layout: parse font %d: %w", ref, err)
	}
	s.fonts[ref] = face.Font
	s.invalidate()
	return nil
}

// SetLanguage sets the language used for OpenType feature selection,
// as a BCP 47 tag.
func (s *Shaper) SetLanguage(tag string) {
	s.lang = language.NewLanguage(tag)
	s.invalidate()
}

// CacheStats returns statistics of the shaped-line cache.
func (s *Shaper) CacheStats() CacheStats {
	if s.cache == nil {
		return CacheStats{}
	}
	return s.cache.Stats()
}

func (s *Shaper) invalidate() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

// Line shapes text into a single line. Mixed-direction text is split into
// bidi runs which are laid out left to right in visual order.
func (s *Shaper) Line(text string, style Style) (*Line, error) {
	f, ok := s.fonts[style.Font]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFont, style.Font)
	}
	key := lineKey{text: text, style: style}
	if s.cache != nil {
		if l, ok := s.cache.Get(key); ok {
			return l, nil
		}
	}
	line := s.shape(f, text, style)
	if s.cache != nil {
		s.cache.Set(key, line)
	}
	return line, nil
}

func (s *Shaper) shape(f *font.Font, text string, style Style) *Line {
	size := style.Size
	if size <= 0 {
		size = DefaultSize
	}

	face := font.NewFace(f)
	runes := []rune(text)
	line := &Line{}
	var pen fixed.Int26_6

	var shaped [][]shaping.Glyph
	for _, r := range splitRuns(text) {
		dir := di.DirectionLTR
		if r.rtl {
			dir = di.DirectionRTL
		}
		out := s.hb.Shape(shaping.Input{
			Text:      runes,
			RunStart:  r.start,
			RunEnd:    r.end,
			Direction: dir,
			Face:      face,
			Size:      fixed.Int26_6(size * 64),
			Script:    runScript(runes[r.start:r.end]),
			Language:  s.lang,
		})
		if a := fixedToFloat(out.LineBounds.Ascent); a > line.Ascent {
			line.Ascent = a
		}
		// Descent is negative below the baseline.
		if d := -fixedToFloat(out.LineBounds.Descent); d > line.Descent {
			line.Descent = d
		}
		shaped = append(shaped, out.Glyphs)
	}

	for _, glyphs := range shaped {
		for _, g := range glyphs {
			line.Glyphs = append(line.Glyphs, textplane.GlyphInstance{
				Font:  style.Font,
				Glyph: textplane.GlyphID(g.GlyphID),
				Flags: style.Flags,
				X:     fixedToFloat(pen + g.XOffset),
				Y:     line.Ascent - fixedToFloat(g.YOffset),
				Color: style.Color,
			})
			pen += g.Advance
		}
	}
	line.Width = fixedToFloat(pen)

	if style.Background.A > 0 && line.Width > 0 {
		line.BgRanges = append(line.BgRanges, textplane.BgRange{
			Span: textplane.Span{Start: 0, End: line.Width},
			ARGB: style.Background.ARGB(),
		})
	}
	return line
}

// runScript returns the script of the first character with one.
func runScript(runes []rune) language.Script {
	for _, r := range runes {
		if sc := language.LookupScript(r); sc != language.Common && sc != language.Inherited {
			return sc
		}
	}
	return language.Latin
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
