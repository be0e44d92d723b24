// assembly-sim plays a blueprint to completion without a window by driving
// the engine with synthetic pointer events, then records the session.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gekko3d/assembly"
	"github.com/gekko3d/assembly/internal/results"
	"github.com/gekko3d/assembly/render"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func main() {
	var (
		configDir  = pflag.String("config-dir", ".", "directory holding assembly.yaml")
		bpPath     = pflag.String("blueprint", "", "blueprint JSON (default: built-in tower)")
		dumpPath   = pflag.String("dump-blueprint", "", "write the built-in tower blueprint to this path and exit")
		dbDSN      = pflag.String("db", "", "results store: sqlite path or postgres:// URL (default: in memory)")
		rejectDemo = pflag.Bool("reject-demo", false, "drop every component once out of range before placing it")
		scale      = pflag.Float32("scale", 0, "override the configured scale")
		history    = pflag.Int("history", 5, "recent sessions to print after the run")
		debug      = pflag.Bool("debug", false, "debug logging")
	)
	pflag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()

	if *dumpPath != "" {
		if err := assembly.SaveBlueprint(*dumpPath, assembly.TowerBlueprint()); err != nil {
			log.Fatal().Err(err).Msg("Failed to write blueprint")
		}
		log.Info().Str("path", *dumpPath).Msg("Wrote blueprint")
		return
	}

	cfg, err := assembly.LoadConfig(*configDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if *scale > 0 {
		cfg.Scale = *scale
	}
	engineLog := assembly.NewDefaultLogger("engine", *debug || assembly.ParseLevel(cfg.LogLevel))

	bp := assembly.TowerBlueprint()
	if *bpPath != "" {
		if bp, err = assembly.LoadBlueprint(*bpPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to load blueprint")
		}
	}

	store, err := results.Open(*dbDSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open results store")
	}
	defer store.Close()

	metrics, err := assembly.NewMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("Metrics disabled")
	}

	e := assembly.NewEngine(
		assembly.WithConfig(cfg),
		assembly.WithLogger(engineLog),
		assembly.WithMetrics(metrics),
	)

	ctx := context.Background()
	e.OnSessionComplete(func(s assembly.SessionSummary) {
		ids := make([]string, 0, len(bp.Items))
		for _, item := range bp.Items {
			ids = append(ids, item.ID)
		}
		r, err := results.FromSummary(s, ids)
		if err == nil {
			err = store.Record(ctx, r)
		}
		if err != nil {
			log.Error().Err(err).Str("session", s.SessionID).Msg("Failed to record session")
		}
	})

	if err := e.Initialize(bp); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize")
	}

	p := &player{e: e, step: time.Second / time.Duration(max(cfg.TickRate, 1))}
	for _, t := range bp.ComponentTypes() {
		if *rejectDemo {
			if err := p.miss(t); err != nil {
				log.Fatal().Err(err).Str("type", t).Msg("Reject demo failed")
			}
		}
		if err := p.place(t); err != nil {
			log.Fatal().Err(err).Str("type", t).Msg("Autoplay failed")
		}
		filled, total := e.Progress()
		log.Info().Str("type", t).Msgf("%d/%d parts", filled, total)
	}
	if !e.IsSessionComplete() {
		log.Fatal().Msg("Blueprint not complete after placing every component")
	}

	recent, err := store.Recent(ctx, *history)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read results")
	}
	for _, r := range recent {
		fmt.Printf("%s  %-10s %3d parts  %4d misses  %s\n",
			r.CompletedAt.Format(time.DateTime), r.Blueprint, r.Parts, r.RejectedDrops,
			(time.Duration(r.DurationMs) * time.Millisecond).String())
	}
}

// player drags components with pointer 0 the way a user would.
type player struct {
	e    *assembly.Engine
	step time.Duration
}

var errMissed = errors.New("drop did not commit")

func (p *player) place(componentType string) error {
	c, err := p.spawn(componentType)
	if err != nil {
		return err
	}
	idx, part, _ := p.e.Blueprint().LookupComponentType(componentType)
	z := p.e.Zones().Find(idx, part.PartID)
	if z == nil {
		return fmt.Errorf("no open zone for item %d %s", idx, part.PartID)
	}
	if err := p.drag(c, z.Center); err != nil {
		return err
	}
	if !p.e.Animating() {
		return errMissed
	}
	for p.e.Animating() {
		p.e.Advance(p.step)
	}
	return nil
}

// miss drops the component just outside the snap tolerance of its zone.
func (p *player) miss(componentType string) error {
	c, err := p.spawn(componentType)
	if err != nil {
		return err
	}
	far := c.Position().Add(mgl32.Vec3{0, 1.5, 0})
	if err := p.drag(c, far); err != nil {
		return err
	}
	if p.e.Animating() {
		return errors.New("out of range drop committed")
	}
	return nil
}

// spawn returns the live component of componentType, spawning it if needed.
func (p *player) spawn(componentType string) (*assembly.Component, error) {
	for _, c := range p.e.Palette().Live() {
		if c.Type == componentType {
			return c, nil
		}
	}
	return p.e.SpawnComponent(componentType)
}

func (p *player) drag(c *assembly.Component, world mgl32.Vec3) error {
	cam := p.e.Camera()
	x, y, ok := cam.Project(c.Position())
	if !ok {
		return fmt.Errorf("%s is off screen", c.Type)
	}
	p.e.PointerDown(assembly.PointerEvent{ID: 0, X: x, Y: y})
	if p.e.Drag().Dragged() != c {
		p.e.PointerUp(assembly.PointerEvent{ID: 0, X: x, Y: y})
		return fmt.Errorf("could not grab %s", c.Type)
	}

	// Aim for the point on the drag plane in line with the target.
	plane := render.NewPlane(cam.Forward().Mul(-1), c.Position())
	tx, ty, ok := cam.Project(plane.Project(world))
	if !ok {
		tx, ty = x, y
	}
	const moves = 8
	for i := 1; i <= moves; i++ {
		f := float64(i) / moves
		p.e.PointerMove(assembly.PointerEvent{ID: 0, X: x + (tx-x)*f, Y: y + (ty-y)*f})
		p.e.Advance(p.step)
	}
	p.e.PointerUp(assembly.PointerEvent{ID: 0, X: tx, Y: ty})
	return nil
}
