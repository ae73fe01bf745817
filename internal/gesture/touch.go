package gesture

import (
	"golang.org/x/mobile/event/touch"

	"github.com/example/wallsmith/internal/transform"
)

// Tracker keeps the set of live touches keyed by their sequence id, in the
// order the fingers landed.
type Tracker struct {
	order []touch.Sequence
	pos   map[touch.Sequence]Point
}

// Apply records e and returns the live touches after it, oldest first.
func (t *Tracker) Apply(e touch.Event) []Point {
	if t.pos == nil {
		t.pos = make(map[touch.Sequence]Point)
	}
	p := Point{X: float64(e.X), Y: float64(e.Y)}
	switch e.Type {
	case touch.TypeBegin:
		if _, ok := t.pos[e.Sequence]; !ok {
			t.order = append(t.order, e.Sequence)
		}
		t.pos[e.Sequence] = p
	case touch.TypeMove:
		if _, ok := t.pos[e.Sequence]; ok {
			t.pos[e.Sequence] = p
		}
	case touch.TypeEnd:
		delete(t.pos, e.Sequence)
		for i, seq := range t.order {
			if seq == e.Sequence {
				t.order = append(t.order[:i], t.order[i+1:]...)
				break
			}
		}
	}
	return t.Live()
}

// Live returns the active touches, oldest first.
func (t *Tracker) Live() []Point {
	out := make([]Point, 0, len(t.order))
	for _, seq := range t.order {
		out = append(out, t.pos[seq])
	}
	return out
}

// Len reports how many touches are active.
func (t *Tracker) Len() int { return len(t.order) }

// Dispatch feeds e through the tracker into in and returns the updated state.
func (in *Interpreter) Dispatch(t *Tracker, e touch.Event, s transform.State) transform.State {
	live := t.Apply(e)
	switch e.Type {
	case touch.TypeBegin:
		return in.TouchStart(live, s)
	case touch.TypeMove:
		return in.TouchMove(live, s)
	case touch.TypeEnd:
		return in.TouchEnd(live, s)
	}
	return s
}
