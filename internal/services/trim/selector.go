package trim

import (
	"fmt"
	"time"
)

// Handle identifies which part of the selection a drag targets
type Handle int

const (
	HandleStart Handle = iota
	HandleEnd
	HandleWindow
)

// ChangeFunc receives the live time range on every drag update and on
// gesture end. Consumers such as a preview player use it to loop
// playback inside the selected window.
type ChangeFunc func(start, end time.Duration)

// Config describes the track geometry and the duration policy.
// A nonzero FixedDuration selects the linked-handle policy where the
// selection width is invariant; otherwise handles move independently
// within [MinDuration, MaxDuration].
type Config struct {
	TrackWidth  float64
	HandleWidth float64

	SourceDuration time.Duration
	MinDuration    time.Duration
	MaxDuration    time.Duration
	FixedDuration  time.Duration
}

// Selector converts drag input on a fixed-width track into a valid
// [start, end) time range. All positions are kept in the track's pixel
// space; time is derived on demand. Inputs are clamped, never rejected:
// an in-progress gesture always leaves the selection valid.
type Selector struct {
	cfg    Config
	usable float64 // track width minus one handle width
	origin float64 // leftmost handle-center position

	startPos float64
	endPos   float64

	// snapshot taken at gesture begin; drags are cumulative from here
	savedStart float64
	savedEnd   float64

	onChange ChangeFunc
}

// NewSelector builds a selector over the given source. It returns an
// error when the source is too short for the configured policy; the
// caller is expected to have rejected such sources before reaching
// the trim step.
func NewSelector(cfg Config, onChange ChangeFunc) (*Selector, error) {
	if cfg.TrackWidth <= cfg.HandleWidth {
		return nil, fmt.Errorf("track width %.1f must exceed handle width %.1f", cfg.TrackWidth, cfg.HandleWidth)
	}
	if cfg.SourceDuration <= 0 {
		return nil, fmt.Errorf("source duration must be positive, got %v", cfg.SourceDuration)
	}

	minRequired := cfg.MinDuration
	if cfg.FixedDuration > 0 {
		minRequired = cfg.FixedDuration
	}
	if cfg.SourceDuration < minRequired {
		return nil, fmt.Errorf("source duration %v shorter than required %v", cfg.SourceDuration, minRequired)
	}

	s := &Selector{
		cfg:      cfg,
		usable:   cfg.TrackWidth - cfg.HandleWidth,
		origin:   cfg.HandleWidth / 2,
		onChange: onChange,
	}

	initialEnd := cfg.FixedDuration
	if initialEnd == 0 {
		initialEnd = cfg.MaxDuration
		if cfg.SourceDuration < initialEnd {
			initialEnd = cfg.SourceDuration
		}
	}

	s.startPos = s.origin
	s.endPos = s.positionOf(initialEnd)
	s.savedStart = s.startPos
	s.savedEnd = s.endPos

	return s, nil
}

// Begin snapshots the current handle positions. Subsequent Drag calls
// for this gesture pass the cumulative translation from this point.
func (s *Selector) Begin(handle Handle) {
	s.savedStart = s.startPos
	s.savedEnd = s.endPos
}

// Drag applies a cumulative horizontal translation to the given handle,
// clamps the result to the active duration policy and the track bounds,
// and reports the resulting time range.
func (s *Selector) Drag(handle Handle, translation float64) {
	if s.cfg.FixedDuration > 0 && handle != HandleWindow {
		// Linked handles: dragging either one slides the whole window
		// so the duration stays fixed
		s.dragWindow(translation)
	} else {
		switch handle {
		case HandleStart:
			s.dragStart(translation)
		case HandleEnd:
			s.dragEnd(translation)
		case HandleWindow:
			s.dragWindow(translation)
		}
	}

	s.emit()
}

// End settles the gesture: the clamped positions become the new
// snapshot and the final range is reported.
func (s *Selector) End(handle Handle) {
	s.savedStart = s.startPos
	s.savedEnd = s.endPos
	s.emit()
}

// Range returns the current selection in time units.
func (s *Selector) Range() (start, end time.Duration) {
	return s.timeOf(s.startPos), s.timeOf(s.endPos)
}

func (s *Selector) dragStart(translation float64) {
	minStart := s.origin
	if floor := s.endPos - s.widthOf(s.cfg.MaxDuration); floor > minStart {
		minStart = floor
	}
	maxStart := s.endPos - s.widthOf(s.cfg.MinDuration)

	s.startPos = clamp(s.savedStart+translation, minStart, maxStart)
}

func (s *Selector) dragEnd(translation float64) {
	minEnd := s.startPos + s.widthOf(s.cfg.MinDuration)
	maxEnd := s.usable + s.origin
	if ceil := s.startPos + s.widthOf(s.cfg.MaxDuration); ceil < maxEnd {
		maxEnd = ceil
	}

	s.endPos = clamp(s.savedEnd+translation, minEnd, maxEnd)
}

func (s *Selector) dragWindow(translation float64) {
	width := s.savedEnd - s.savedStart

	minStart := s.origin
	maxStart := s.usable + s.origin - width

	newStart := clamp(s.savedStart+translation, minStart, maxStart)
	s.startPos = newStart
	s.endPos = newStart + width
}

func (s *Selector) emit() {
	if s.onChange != nil {
		s.onChange(s.Range())
	}
}

// positionOf maps a time offset to a handle-center position
func (s *Selector) positionOf(t time.Duration) float64 {
	return s.origin + s.widthOf(t)
}

// widthOf maps a duration to a width in track pixels
func (s *Selector) widthOf(d time.Duration) float64 {
	return float64(d) / float64(s.cfg.SourceDuration) * s.usable
}

// timeOf maps a handle-center position back to a time offset
func (s *Selector) timeOf(pos float64) time.Duration {
	return time.Duration((pos - s.origin) / s.usable * float64(s.cfg.SourceDuration))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
