package assembly

// CompletionState maps itemIndex -> partId -> filled.
type CompletionState map[int]map[PartKind]bool

// ItemComplete reports whether every part the blueprint lists for the item is
// filled in s.
func (s CompletionState) ItemComplete(bp *Blueprint, itemIndex int) bool {
	if bp == nil || itemIndex < 0 || itemIndex >= len(bp.Items) {
		return false
	}
	for _, p := range bp.Items[itemIndex].Parts {
		if !s[itemIndex][p.PartID] {
			return false
		}
	}
	return true
}

// CompletionTracker is the only writer of completion flags. Flags go from
// unfilled to filled and stay there until Reset.
type CompletionTracker struct {
	blueprint *Blueprint
	filled    CompletionState
	complete  map[int]bool

	partFilled    []func(itemIndex int, part PartKind)
	itemCompleted []func(itemIndex int)
	resetHooks    []func()
}

func NewCompletionTracker(bp *Blueprint) *CompletionTracker {
	return &CompletionTracker{
		blueprint: bp,
		filled:    make(CompletionState),
		complete:  make(map[int]bool),
	}
}

func (t *CompletionTracker) OnPartFilled(fn func(itemIndex int, part PartKind)) {
	t.partFilled = append(t.partFilled, fn)
}

// OnItemCompleted listeners run once per item, on the incomplete to complete edge.
func (t *CompletionTracker) OnItemCompleted(fn func(itemIndex int)) {
	t.itemCompleted = append(t.itemCompleted, fn)
}

func (t *CompletionTracker) OnReset(fn func()) {
	t.resetHooks = append(t.resetHooks, fn)
}

func (t *CompletionTracker) hasPart(itemIndex int, part PartKind) bool {
	if itemIndex < 0 || itemIndex >= len(t.blueprint.Items) {
		return false
	}
	for _, p := range t.blueprint.Items[itemIndex].Parts {
		if p.PartID == part {
			return true
		}
	}
	return false
}

// MarkPartFilled sets the flag and returns true only if it was not set before.
// Unknown items or parts are ignored.
func (t *CompletionTracker) MarkPartFilled(itemIndex int, part PartKind) bool {
	if !t.hasPart(itemIndex, part) {
		return false
	}
	if t.filled[itemIndex][part] {
		return false
	}
	if t.filled[itemIndex] == nil {
		t.filled[itemIndex] = make(map[PartKind]bool)
	}
	t.filled[itemIndex][part] = true

	for _, fn := range t.partFilled {
		fn(itemIndex, part)
	}

	if !t.complete[itemIndex] && t.filled.ItemComplete(t.blueprint, itemIndex) {
		t.complete[itemIndex] = true
		for _, fn := range t.itemCompleted {
			fn(itemIndex)
		}
	}
	return true
}

func (t *CompletionTracker) IsPartFilled(itemIndex int, part PartKind) bool {
	return t.filled[itemIndex][part]
}

func (t *CompletionTracker) IsItemComplete(itemIndex int) bool {
	return t.complete[itemIndex]
}

func (t *CompletionTracker) TotalFilled() int {
	n := 0
	for _, parts := range t.filled {
		for _, ok := range parts {
			if ok {
				n++
			}
		}
	}
	return n
}

func (t *CompletionTracker) TotalParts() int {
	return t.blueprint.TotalParts()
}

func (t *CompletionTracker) AllComplete() bool {
	for i := range t.blueprint.Items {
		if !t.complete[i] {
			return false
		}
	}
	return true
}

func (s CompletionState) clone() CompletionState {
	out := make(CompletionState, len(s))
	for i, parts := range s {
		cp := make(map[PartKind]bool, len(parts))
		for k, v := range parts {
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}

// Snapshot returns a deep copy safe to hand to other components.
func (t *CompletionTracker) Snapshot() CompletionState {
	return t.filled.clone()
}

// Reset clears every flag and notifies reset listeners.
func (t *CompletionTracker) Reset() {
	t.filled = make(CompletionState)
	t.complete = make(map[int]bool)
	for _, fn := range t.resetHooks {
		fn()
	}
}
