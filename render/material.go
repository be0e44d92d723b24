package render

// Material describes how a mesh is shaded. Materials own GPU-side state in a real
// backend, so they carry an explicit disposed flag that outlives the Go value.
type Material struct {
	Color             [4]float32 // RGBA, 0..1
	Emissive          [3]float32
	EmissiveIntensity float32
	Opacity           float32
	Transparent       bool
	DepthWrite        bool
	Wireframe         bool

	disposed bool
}

func NewMaterial(color [4]float32) *Material {
	return &Material{
		Color:      color,
		Opacity:    1.0,
		DepthWrite: true,
	}
}

// NewTranslucentMaterial returns a see-through material that does not write depth,
// so overlapping translucent shapes stay visible.
func NewTranslucentMaterial(color [4]float32, opacity float32) *Material {
	return &Material{
		Color:       color,
		Opacity:     opacity,
		Transparent: true,
	}
}

func (m *Material) Dispose() {
	m.disposed = true
}

func (m *Material) Disposed() bool {
	return m == nil || m.disposed
}
