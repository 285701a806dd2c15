package layout

import "golang.org/x/text/unicode/bidi"

// run is a directional run of rune indices [start, end).
type run struct {
	start, end int
	rtl        bool
}

// splitRuns splits a paragraph into directional runs in visual order.
// Text that cannot be ordered is returned as a single left-to-right run.
func splitRuns(text string) []run {
	n := len([]rune(text))
	if n == 0 {
		return nil
	}
	whole := []run{{start: 0, end: n}}

	var p bidi.Paragraph
	if _, err := p.SetString(text); err != nil {
		return whole
	}
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return whole
	}

	runs := make([]run, 0, ordering.NumRuns())
	for i := 0; i < ordering.NumRuns(); i++ {
		r := ordering.Run(i)
		start, end := r.Pos() // end is inclusive
		runs = append(runs, run{
			start: start,
			end:   min(end+1, n),
			rtl:   r.Direction() == bidi.RightToLeft,
		})
	}
	return runs
}
