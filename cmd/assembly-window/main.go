// assembly-window hosts the engine in a GLFW window. The left mouse button
// drags, the scroll wheel zooms, 1-9 spawn components, R resets, +/- rescale
// and Esc quits. Progress and the hovered zone are shown in the title bar.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/gekko3d/assembly"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/pflag"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configDir := pflag.String("config-dir", ".", "directory holding assembly.yaml")
	bpPath := pflag.String("blueprint", "", "blueprint JSON (default: built-in tower)")
	debug := pflag.Bool("debug", false, "debug logging")
	pflag.Parse()

	log := assembly.NewDefaultLogger("window", *debug)

	cfg, err := assembly.LoadConfig(*configDir)
	if err != nil {
		log.Errorf("load config: %v", err)
		os.Exit(1)
	}
	bp := assembly.TowerBlueprint()
	if *bpPath != "" {
		if bp, err = assembly.LoadBlueprint(*bpPath); err != nil {
			log.Errorf("load blueprint: %v", err)
			os.Exit(1)
		}
	}

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	window, err := glfw.CreateWindow(cfg.Viewport.Width, cfg.Viewport.Height, "Assembly", nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	metrics, err := assembly.NewMetrics()
	if err != nil {
		log.Warnf("metrics disabled: %v", err)
	}
	e := assembly.NewEngine(
		assembly.WithConfig(cfg),
		assembly.WithLogger(assembly.NewDefaultLogger("engine", *debug || assembly.ParseLevel(cfg.LogLevel))),
		assembly.WithMetrics(metrics),
	)
	if err := e.Initialize(bp); err != nil {
		log.Errorf("initialize: %v", err)
		os.Exit(1)
	}
	e.OnSessionComplete(func(s assembly.SessionSummary) {
		log.Infof("%s assembled in %s with %d misses", s.Blueprint, s.Duration().Round(time.Second), s.RejectedDrops)
	})

	w, h := window.GetSize()
	e.SetViewport(w, h)
	window.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		e.SetViewport(width, height)
	})

	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		e.PointerMove(assembly.PointerEvent{ID: 0, X: x, Y: y})
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		x, y := w.GetCursorPos()
		switch action {
		case glfw.Press:
			e.PointerDown(assembly.PointerEvent{ID: 0, X: x, Y: y})
		case glfw.Release:
			e.PointerUp(assembly.PointerEvent{ID: 0, X: x, Y: y})
		}
	})
	window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if c := e.Controls(); c != nil && c.Enabled() {
			c.Zoom(float32(1 + 0.1*yoff))
		}
	})

	scale := cfg.Scale
	types := bp.ComponentTypes()
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch {
		case key == glfw.KeyEscape:
			w.SetShouldClose(true)
		case key == glfw.KeyR:
			e.Reset()
		case key == glfw.KeyEqual || key == glfw.KeyKPAdd:
			rescale(e, log, scale*1.1, &scale)
		case key == glfw.KeyMinus || key == glfw.KeyKPSubtract:
			rescale(e, log, scale/1.1, &scale)
		case key >= glfw.Key1 && key <= glfw.Key9:
			i := int(key - glfw.Key1)
			if i >= len(types) {
				return
			}
			if _, err := e.SpawnComponent(types[i]); err != nil {
				// shown in the title via LastSpawnRejection
				log.Debugf("spawn %s: %v", types[i], err)
			}
		}
	})

	frame := time.Second / time.Duration(max(cfg.TickRate, 1))
	title := ""
	for !window.ShouldClose() {
		start := time.Now()
		glfw.PollEvents()
		e.Tick()

		if t := windowTitle(e); t != title {
			title = t
			window.SetTitle(title)
		}
		if d := frame - time.Since(start); d > 0 {
			time.Sleep(d)
		}
	}
}

func rescale(e *assembly.Engine, log assembly.Logger, s float32, cur *float32) {
	if err := e.SetScale(s); err != nil {
		log.Warnf("set scale %.3f: %v", s, err)
		return
	}
	*cur = s
}

func windowTitle(e *assembly.Engine) string {
	filled, total := e.Progress()
	t := fmt.Sprintf("Assembly - %s %d/%d", e.Blueprint().Name, filled, total)
	if e.IsSessionComplete() {
		return t + " - complete (R to restart)"
	}
	if info, ok := e.HoveredZoneInfo(); ok {
		t += fmt.Sprintf(" - %s %s [%s %.2f]", info.ItemID, info.PartID, info.Match, info.Distance)
	}
	if err := e.LastSpawnRejection(); err != nil {
		t += " - " + err.Error()
	}
	return t
}
