package assembly

import "math"

// maxPointers: pointer 0 is the mouse, 1-9 are touches.
const maxPointers = 10

// PointerEvent carries a pointer id and pixel coordinates (origin top-left).
type PointerEvent struct {
	ID int
	X  float64
	Y  float64
}

func (e PointerEvent) valid() bool {
	return e.ID >= 0 && e.ID < maxPointers
}

type pointerState struct {
	down   bool
	startX float64
	startY float64
	lastX  float64
	lastY  float64
}

type pinchState struct {
	active   bool
	pointer0 int
	pointer1 int
	prevDist float64
}

type pointerTracker struct {
	pointers [maxPointers]pointerState
	pinch    pinchState
}

// press records a pointer going down and returns how many are now down.
func (t *pointerTracker) press(ev PointerEvent) int {
	p := &t.pointers[ev.ID]
	p.down = true
	p.startX, p.startY = ev.X, ev.Y
	p.lastX, p.lastY = ev.X, ev.Y

	n := t.downCount()
	if n == 2 {
		t.startPinch()
	}
	return n
}

// move updates the pointer and returns its delta since the last event.
func (t *pointerTracker) move(ev PointerEvent) (float64, float64) {
	p := &t.pointers[ev.ID]
	dx, dy := ev.X-p.lastX, ev.Y-p.lastY
	p.lastX, p.lastY = ev.X, ev.Y
	return dx, dy
}

func (t *pointerTracker) release(ev PointerEvent) int {
	p := &t.pointers[ev.ID]
	p.down = false
	p.lastX, p.lastY = ev.X, ev.Y
	if t.pinch.active && (ev.ID == t.pinch.pointer0 || ev.ID == t.pinch.pointer1) {
		t.pinch = pinchState{}
	}
	return t.downCount()
}

func (t *pointerTracker) isDown(id int) bool {
	return id >= 0 && id < maxPointers && t.pointers[id].down
}

func (t *pointerTracker) downCount() int {
	n := 0
	for i := range t.pointers {
		if t.pointers[i].down {
			n++
		}
	}
	return n
}

func (t *pointerTracker) startPinch() {
	first, second := -1, -1
	for i := range t.pointers {
		if !t.pointers[i].down {
			continue
		}
		if first < 0 {
			first = i
		} else {
			second = i
			break
		}
	}
	if second < 0 {
		return
	}
	t.pinch = pinchState{
		active:   true,
		pointer0: first,
		pointer1: second,
		prevDist: t.pointerDist(first, second),
	}
}

func (t *pointerTracker) pointerDist(a, b int) float64 {
	pa, pb := t.pointers[a], t.pointers[b]
	return math.Hypot(pb.lastX-pa.lastX, pb.lastY-pa.lastY)
}

// pinchFactor returns the spread ratio since the previous pinch update.
func (t *pointerTracker) pinchFactor() (float32, bool) {
	if !t.pinch.active {
		return 0, false
	}
	d := t.pointerDist(t.pinch.pointer0, t.pinch.pointer1)
	prev := t.pinch.prevDist
	t.pinch.prevDist = d
	if prev < 1e-6 || d < 1e-6 {
		return 0, false
	}
	return float32(d / prev), true
}

func (t *pointerTracker) inPinch(id int) bool {
	return t.pinch.active && (id == t.pinch.pointer0 || id == t.pinch.pointer1)
}

func (t *pointerTracker) reset() {
	*t = pointerTracker{}
}
