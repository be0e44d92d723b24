package assembly

import (
	"github.com/gekko3d/assembly/render"
)

// Context is the state shared by the engine's collaborators. The engine owns the
// scene; everything else borrows it through this struct.
type Context struct {
	Scene   *render.Scene
	Camera  *render.Camera
	Config  Config
	Logger  Logger
	Metrics *Metrics
}

func (c *Context) logger() Logger {
	if c == nil {
		return NewNopLogger()
	}
	return loggerOrNop(c.Logger)
}

func (c *Context) metrics() *Metrics {
	if c == nil {
		return nil
	}
	return c.Metrics
}
