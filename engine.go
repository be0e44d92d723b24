package assembly

import (
	"errors"
	"fmt"
	"time"

	"github.com/gekko3d/assembly/render"
	"github.com/google/uuid"
)

// SessionSummary is handed to OnSessionComplete listeners.
type SessionSummary struct {
	SessionID     string
	Blueprint     string
	Items         int
	Parts         int
	RejectedDrops int
	StartedAt     time.Time
	CompletedAt   time.Time
}

func (s SessionSummary) Duration() time.Duration {
	return s.CompletedAt.Sub(s.StartedAt)
}

type Option func(*Engine)

func WithLogger(l Logger) Option {
	return func(e *Engine) { e.ctx.Logger = loggerOrNop(l) }
}

func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.baseConfig = cfg }
}

func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.ctx.Metrics = m }
}

func WithControls(c CameraControls) Option {
	return func(e *Engine) { e.controls = c }
}

func WithClock(c *Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// Engine is the host-facing API. All methods must be called from one goroutine.
type Engine struct {
	ctx        *Context
	baseConfig Config
	clock      *Clock

	blueprint  *Blueprint
	tracker    *CompletionTracker
	zones      *HotspotZoneManager
	renderer   *GhostSolidRenderer
	palette    *Palette
	anim       *AnimationController
	drag       *DragController
	controls   CameraControls
	background *SceneBackground

	sessionID      string
	startedAt      time.Time
	rejected       int
	lastReject     error
	completeFired  bool
	completeListen []func(SessionSummary)
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		ctx:        &Context{Logger: NewNopLogger()},
		baseConfig: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}

	cfg := e.baseConfig
	e.ctx.Config = cfg
	e.ctx.Scene = render.NewScene()
	e.ctx.Camera = render.NewCamera(cfg.Viewport.Width, cfg.Viewport.Height)
	if cfg.Camera.FovY > 0 {
		e.ctx.Camera.FovY = cfg.Camera.FovY
	}
	if e.controls == nil {
		e.controls = NewOrbitControls(e.ctx.Camera, cfg.Camera)
	}
	if e.clock == nil {
		e.clock = NewClock()
	}

	e.zones = NewHotspotZoneManager(e.ctx)
	e.renderer = NewGhostSolidRenderer(e.ctx)
	e.anim = NewAnimationController(e.ctx)
	e.drag = NewDragController(e.ctx, e.zones, nil, e.anim, e.controls)
	e.drag.OnSnapped = e.snapped
	e.drag.OnRejected = func(*Component) { e.rejected++ }
	e.background = NewSceneBackground(e.ctx)
	return e
}

// Initialize builds zones, ghosts and tracker state for bp, replacing any
// previous session.
func (e *Engine) Initialize(bp *Blueprint) error {
	if err := bp.Validate(); err != nil {
		return err
	}
	e.teardown()

	e.blueprint = bp
	e.ctx.Config = e.baseConfig.withBlueprint(bp)
	e.anim.SetDuration(e.ctx.Config.AnimationDuration)

	e.tracker = NewCompletionTracker(bp)
	e.tracker.OnPartFilled(e.zones.MarkFilled)
	e.tracker.OnItemCompleted(e.itemCompleted)
	e.tracker.OnReset(e.renderer.ResetPromoted)

	e.palette = NewPalette(e.ctx, bp)
	e.drag.Rebind(e.palette, len(bp.Items))

	e.rebuild()
	e.startSession()

	e.ctx.logger().Infof("initialized blueprint %q: %d items, %d parts, tolerance %.2f",
		bp.Name, len(bp.Items), bp.TotalParts(), e.ctx.Config.SnapTolerance)
	return nil
}

func (e *Engine) teardown() {
	if e.blueprint == nil {
		return
	}
	e.drag.Cancel()
	e.anim.AbortAll()
	e.palette.Dispose()
	e.zones.Clear()
	e.renderer.Clear()
	e.renderer.ResetPromoted()
}

func (e *Engine) rebuild() {
	state := e.tracker.Snapshot()
	e.zones.CreateZones(e.blueprint, state)
	e.renderer.RenderBlueprint(e.blueprint, state)
}

func (e *Engine) startSession() {
	e.sessionID = uuid.NewString()
	e.startedAt = time.Now()
	e.rejected = 0
	e.lastReject = nil
	e.completeFired = false
}

// Reset rebuilds the session from scratch: every item back to ghost, every
// flag cleared, every component destroyed and every palette slot reopened.
func (e *Engine) Reset() {
	if e.blueprint == nil {
		return
	}
	e.drag.Cancel()
	e.anim.AbortAll()
	e.palette.Reset()
	e.tracker.Reset()
	e.rebuild()
	e.startSession()
	e.ctx.logger().Infof("session reset")
}

// SetScale re-renders at a new size. Completion is kept: finished items come
// back as solids and get no zones.
func (e *Engine) SetScale(s float32) error {
	if s <= 0 {
		return fmt.Errorf("scale must be positive, got %v", s)
	}
	e.baseConfig.Scale = s
	e.ctx.Config.Scale = s
	if e.blueprint == nil {
		return nil
	}
	e.drag.Cancel()
	e.rebuild()
	e.palette.SetScale(s)
	return nil
}

func (e *Engine) SpawnComponent(componentType string) (*Component, error) {
	if e.blueprint == nil {
		return nil, ErrNotInitialized
	}
	c, err := e.palette.Spawn(componentType)
	if err != nil {
		e.lastReject = err
		e.ctx.metrics().SpawnRejected(spawnRejectReason(err))
		e.ctx.logger().Infof("spawn rejected: %v", err)
		return nil, err
	}
	e.lastReject = nil
	return c, nil
}

// LastSpawnRejection is the error of the most recent spawn if it was refused,
// for hosts that show it to the player. A successful spawn or a new session
// clears it.
func (e *Engine) LastSpawnRejection() error {
	return e.lastReject
}

func spawnRejectReason(err error) string {
	if errors.Is(err, ErrAlreadySpawned) {
		return "already_spawned"
	}
	return "unknown_type"
}

// snapped settles a finished snap. An aborted snap never placed its type, so
// the slot reopens.
func (e *Engine) snapped(res SnapResult, target SnapTarget) {
	if res.Aborted {
		e.ctx.logger().Warnf("snap of %s aborted, slot reopened", target.ComponentType)
		if res.Component != nil {
			e.palette.Release(res.Component)
		}
		return
	}
	e.palette.Consume(res.Component)
	if e.tracker.MarkPartFilled(target.ItemIndex, target.PartID) {
		filled, total := e.Progress()
		e.ctx.logger().Infof("placed %s (%d/%d)", target.ComponentType, filled, total)
	}
}

func (e *Engine) itemCompleted(itemIndex int) {
	e.renderer.Promote(itemIndex)
	e.zones.RemoveZonesFor(itemIndex)

	if e.completeFired || !e.tracker.AllComplete() {
		return
	}
	e.completeFired = true
	summary := SessionSummary{
		SessionID:     e.sessionID,
		Blueprint:     e.blueprint.Name,
		Items:         len(e.blueprint.Items),
		Parts:         e.blueprint.TotalParts(),
		RejectedDrops: e.rejected,
		StartedAt:     e.startedAt,
		CompletedAt:   time.Now(),
	}
	e.ctx.logger().Infof("session %s complete in %s", summary.SessionID, summary.Duration().Round(time.Millisecond))
	for _, fn := range e.completeListen {
		fn(summary)
	}
}

// OnSessionComplete registers fn to run once per session when every item is
// complete.
func (e *Engine) OnSessionComplete(fn func(SessionSummary)) {
	e.completeListen = append(e.completeListen, fn)
}

func (e *Engine) HoveredZoneInfo() (ZoneInfo, bool) {
	h := e.zones.Hovered()
	if h.Zone == nil || e.blueprint == nil {
		return ZoneInfo{}, false
	}
	info := ZoneInfo{
		ItemIndex:            h.Zone.ItemIndex,
		PartID:               h.Zone.PartID,
		AcceptsComponentType: h.Zone.AcceptsComponentType,
		Match:                h.Match,
		Distance:             h.Distance,
	}
	if h.Zone.ItemIndex >= 0 && h.Zone.ItemIndex < len(e.blueprint.Items) {
		info.ItemID = e.blueprint.Items[h.Zone.ItemIndex].ID
	}
	return info, true
}

func (e *Engine) Progress() (filled, total int) {
	if e.tracker == nil {
		return 0, 0
	}
	return e.tracker.TotalFilled(), e.tracker.TotalParts()
}

func (e *Engine) IsSessionComplete() bool {
	return e.tracker != nil && e.tracker.AllComplete()
}

func (e *Engine) PointerDown(ev PointerEvent) { e.drag.PointerDown(ev) }
func (e *Engine) PointerMove(ev PointerEvent) { e.drag.PointerMove(ev) }
func (e *Engine) PointerUp(ev PointerEvent)   { e.drag.PointerUp(ev) }

// Advance runs one frame of animation.
func (e *Engine) Advance(dt time.Duration) {
	e.anim.Advance(dt)
	e.background.Advance(dt)
}

// Tick is Advance with dt measured by the engine clock.
func (e *Engine) Tick() time.Duration {
	dt := e.clock.Tick()
	e.Advance(dt)
	return dt
}

// SetViewport must be called when the host surface is resized.
func (e *Engine) SetViewport(width, height int) {
	e.ctx.Camera.SetViewport(width, height)
}

func (e *Engine) Animating() bool                  { return e.anim.Active() > 0 }
func (e *Engine) Blueprint() *Blueprint            { return e.blueprint }
func (e *Engine) Config() Config                   { return e.ctx.Config }
func (e *Engine) Scene() *render.Scene             { return e.ctx.Scene }
func (e *Engine) Camera() *render.Camera           { return e.ctx.Camera }
func (e *Engine) Controls() CameraControls         { return e.controls }
func (e *Engine) Tracker() *CompletionTracker      { return e.tracker }
func (e *Engine) Zones() *HotspotZoneManager       { return e.zones }
func (e *Engine) Renderer() *GhostSolidRenderer    { return e.renderer }
func (e *Engine) Palette() *Palette                { return e.palette }
func (e *Engine) Drag() *DragController            { return e.drag }
func (e *Engine) Animations() *AnimationController { return e.anim }
func (e *Engine) SessionID() string                { return e.sessionID }
