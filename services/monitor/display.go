package monitor

import (
	"powerlog-go/errcode"
	"powerlog-go/types"
	"powerlog-go/x/decfmt"
)

// Display is the opaque text surface: four fixed lines, one metric each.
type Display interface {
	SetCursor(line int)
	WriteText(s string) error
	Commit() error
}

// Display line assignment.
const (
	lineLoadVolts = iota
	lineCurrent
	linePower
	lineEnergy
	numLines
)

// Renderer formats the four metrics as fixed-width text and redraws only
// the lines whose text changed since the previous cycle. A full-panel
// redraw is the most expensive operation in the loop, so unchanged lines
// are skipped entirely.
type Renderer struct {
	disp Display
	last [numLines]string
}

func NewRenderer(disp Display) *Renderer {
	return &Renderer{disp: disp}
}

// Render draws changed lines and commits once if anything was drawn. A
// line enters the cache only after the commit lands: a failed write or a
// failed commit leaves it out, so it is redrawn next cycle even when the
// values have not moved.
func (r *Renderer) Render(m types.Metrics, currentMA float64) error {
	if r.disp == nil {
		return errcode.DisplayFailure
	}

	texts := [numLines]string{
		decfmt.Fixed(m.LoadVolts, 8, 3) + " V",
		decfmt.Fixed(currentMA, 8, 3) + " mA",
		decfmt.Fixed(m.PowerMilliW, 8, 3) + " mW",
		decfmt.Fixed(m.EnergyMilliWH, 8, 3) + " mWh",
	}

	var written [numLines]bool
	dirty := false
	var firstErr error
	for i, s := range texts {
		if s == r.last[i] {
			continue
		}
		r.disp.SetCursor(i)
		if err := r.disp.WriteText(s); err != nil {
			if firstErr == nil {
				firstErr = &errcode.E{C: errcode.DisplayFailure, Op: "write", Err: err}
			}
			continue
		}
		written[i] = true
		dirty = true
	}

	if !dirty {
		return firstErr
	}
	if err := r.disp.Commit(); err != nil {
		if firstErr == nil {
			firstErr = &errcode.E{C: errcode.DisplayFailure, Op: "commit", Err: err}
		}
		return firstErr
	}
	for i := range texts {
		if written[i] {
			r.last[i] = texts[i]
		}
	}
	return firstErr
}
