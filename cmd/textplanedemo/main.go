// Command textplanedemo renders a few lines of shaped text through the text
// plane and writes the frame as a PNG.
//
// Usage:
//
//	textplanedemo [flags]
//
// Every flag has an environment variable with the TEXTPLANE_ prefix, for
// example TEXTPLANE_SCALE=3 or TEXTPLANE_TEXT='hello\nworld'.
package main

import (
	"fmt"
	"image"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/term"

	"github.com/gogpu/textplane"
	"github.com/gogpu/textplane/atlas"
	"github.com/gogpu/textplane/backend"
	"github.com/gogpu/textplane/backend/software"
	"github.com/gogpu/textplane/display"
	"github.com/gogpu/textplane/frame"
	"github.com/gogpu/textplane/layout"
	"github.com/gogpu/textplane/raster"
)

const fontRef textplane.FontRef = 0

// stats summarizes one demo run.
type stats struct {
	frame.Stats
	Lines       int
	AtlasGlyphs int
	AtlasUsed   float64
	Elapsed     time.Duration
	Width       int
	Height      int
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("textplanedemo: %v", err)
	}
	if cfg.Verbose {
		textplane.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	st, err := run(cfg)
	if err != nil {
		log.Fatalf("textplanedemo: %v", err)
	}
	printStats(os.Stdout, cfg, st, term.IsTerminal(int(os.Stdout.Fd())))
}

// run renders the configured text and saves the image.
func run(cfg Config) (stats, error) {
	start := time.Now()

	b, err := backend.Get(cfg.Backend)
	if err != nil {
		return stats{}, fmt.Errorf("%w (available: %v)", err, backend.Available())
	}
	defer b.Close()
	sw, ok := b.(*software.Backend)
	if !ok {
		return stats{}, fmt.Errorf("backend %q does not produce images", cfg.Backend)
	}

	size := float32(cfg.FontSize)
	rast := raster.New(raster.WithSize(size))
	if err := rast.RegisterTTF(fontRef, goregular.TTF); err != nil {
		return stats{}, err
	}
	shaper := layout.New()
	if err := shaper.RegisterTTF(fontRef, goregular.TTF); err != nil {
		return stats{}, err
	}

	fr, err := frame.New(b, rast, frame.WithAtlasConfig(atlas.Config{
		Width:   cfg.AtlasSize,
		Height:  cfg.AtlasSize,
		Padding: 1,
	}))
	if err != nil {
		return stats{}, err
	}
	fr.Clear(textplane.FromARGB(0xFF1E1E2E))

	lines := make([]*layout.Line, 0, len(cfg.Lines()))
	for i, text := range cfg.Lines() {
		style := layout.Style{Font: fontRef, Size: size, Color: textplane.FromARGB(0xFFCDD6F4)}
		if i%2 == 1 {
			style.Background = textplane.FromARGB(0xFF313244)
		}
		line, err := shaper.Line(text, style)
		if err != nil {
			return stats{}, err
		}
		lines = append(lines, line)
	}

	layer := display.New(fr)
	layer.SetDelegate(display.DelegateFunc(func(r textplane.Renderer, _ textplane.Rect) {
		const margin = 8
		y := float32(margin)
		for _, line := range lines {
			r.DrawLineBg(&line.TextLine, margin, textplane.Span{Start: y, End: y + line.Height()})
			r.DrawLine(&line.TextLine, margin, y)
			y += line.Height()
		}
	}))
	layer.SetFrame(textplane.Size{Width: float32(cfg.Width), Height: float32(cfg.Height)}, float32(cfg.Scale))
	layer.Refresh()

	front := sw.Front()
	if front == nil {
		return stats{}, fmt.Errorf("no frame was presented")
	}
	var img image.Image = front
	if cfg.Logical && cfg.Scale != 1 {
		img = imaging.Resize(img, cfg.Width, cfg.Height, imaging.Lanczos)
	}
	if err := imaging.Save(img, cfg.Output); err != nil {
		return stats{}, fmt.Errorf("save: %w", err)
	}

	bounds := img.Bounds()
	return stats{
		Stats:       fr.Stats(),
		Lines:       len(lines),
		AtlasGlyphs: fr.Atlas().Len(),
		AtlasUsed:   fr.Atlas().Utilization(),
		Elapsed:     time.Since(start),
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}, nil
}

// printStats writes a summary, aligned for people on a terminal and as
// key=value pairs otherwise.
func printStats(w io.Writer, cfg Config, st stats, human bool) {
	if human {
		fmt.Fprintf(w, "Saved %s (%dx%d)\n", cfg.Output, st.Width, st.Height)
		fmt.Fprintf(w, "  backend:        %s\n", cfg.Backend)
		fmt.Fprintf(w, "  lines:          %d\n", st.Lines)
		fmt.Fprintf(w, "  quads:          %d\n", st.Quads)
		fmt.Fprintf(w, "  skipped glyphs: %d\n", st.SkippedGlyphs)
		fmt.Fprintf(w, "  atlas glyphs:   %d (%.1f%% used, %d flushes)\n", st.AtlasGlyphs, st.AtlasUsed*100, st.AtlasFlushes)
		fmt.Fprintf(w, "  elapsed:        %v\n", st.Elapsed.Round(time.Microsecond))
		return
	}
	fmt.Fprintf(w, "output=%s width=%d height=%d backend=%s lines=%d quads=%d skipped_glyphs=%d atlas_glyphs=%d atlas_used=%.4f atlas_flushes=%d elapsed_us=%d\n",
		cfg.Output, st.Width, st.Height, cfg.Backend, st.Lines, st.Quads, st.SkippedGlyphs,
		st.AtlasGlyphs, st.AtlasUsed, st.AtlasFlushes, st.Elapsed.Microseconds())
}
