package mesh

import (
	"sync"

	"github.com/Carmen-Shannon/umbra/common"
	"github.com/Carmen-Shannon/umbra/engine/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// ShadingMode selects which pass shades a draw item.
type ShadingMode int

const (
	// ShadingDeferred writes the item into the geometry buffer and shades it in the
	// lighting pass. This is the default.
	ShadingDeferred ShadingMode = iota

	// ShadingForward skips the geometry buffer and shades the item directly against one
	// directional and one point light after composition.
	ShadingForward
)

// String returns the configuration name of the shading mode.
func (m ShadingMode) String() string {
	if m == ShadingForward {
		return "forward"
	}
	return "deferred"
}

// drawItemImpl is the implementation of the DrawItem interface.
type drawItemImpl struct {
	mu *sync.RWMutex

	id          uuid.UUID
	name        string
	mesh        *Mesh
	material    material.Material
	transform   Transform
	selected    bool
	shadingMode ShadingMode
	castsShadow bool

	model  mgl32.Mat4
	normal mgl32.Mat3
}

// DrawItem defines the interface for a positioned, textured mesh in the editor's flat draw
// list. The editor owns draw items and mutates them (selection, transform); renderers read
// a consistent snapshot of each item when a frame is assembled.
//
// The model and normal matrices are cached and rebuilt whenever the transform changes.
type DrawItem interface {
	// ID returns the unique handle of this item, the value reported by picking.
	//
	// Returns:
	//   - uuid.UUID: the item id
	ID() uuid.UUID

	// Name returns the display name of the item.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Mesh returns the shared geometry of the item.
	//
	// Returns:
	//   - *Mesh: the mesh
	Mesh() *Mesh

	// Material returns the surface material.
	//
	// Returns:
	//   - material.Material: the material
	Material() material.Material

	// Transform returns the current decomposed transform.
	//
	// Returns:
	//   - Transform: the transform
	Transform() Transform

	// SetTransform replaces the transform and rebuilds the cached matrices.
	//
	// Parameters:
	//   - t: the new transform
	SetTransform(t Transform)

	// ModelMatrix returns the model-to-world matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the model matrix
	ModelMatrix() mgl32.Mat4

	// NormalMatrix returns the inverse transpose of the model matrix's upper 3x3.
	//
	// Returns:
	//   - mgl32.Mat3: the normal matrix
	NormalMatrix() mgl32.Mat3

	// Selected reports whether the item is highlighted as the editor selection.
	//
	// Returns:
	//   - bool: true if selected
	Selected() bool

	// SetSelected sets the selection flag.
	//
	// Parameters:
	//   - selected: the new flag
	SetSelected(selected bool)

	// ShadingMode returns the pass that shades this item.
	//
	// Returns:
	//   - ShadingMode: deferred or forward
	ShadingMode() ShadingMode

	// SetShadingMode changes the pass that shades this item.
	//
	// Parameters:
	//   - mode: deferred or forward
	SetShadingMode(mode ShadingMode)

	// CastsShadow reports whether the shadow pass renders this item.
	//
	// Returns:
	//   - bool: true if the item casts shadows
	CastsShadow() bool

	// Snapshot returns a consistent copy of the per-frame item state.
	//
	// Returns:
	//   - Snapshot: the item value
	Snapshot() Snapshot
}

// Snapshot is the immutable per-frame view of a DrawItem.
type Snapshot struct {
	ID          uuid.UUID
	Mesh        *Mesh
	Material    material.Material
	Model       mgl32.Mat4
	Normal      mgl32.Mat3
	Selected    bool
	ShadingMode ShadingMode
	CastsShadow bool
}

var _ DrawItem = &drawItemImpl{}

// NewDrawItem creates a draw item for a mesh. Without options the item sits at the origin
// with a default material, is deferred-shaded and casts shadows.
//
// Parameters:
//   - m: the mesh to draw
//   - options: variadic list of DrawItemBuilderOption functions to configure the item
//
// Returns:
//   - DrawItem: the new item
func NewDrawItem(m *Mesh, options ...DrawItemBuilderOption) DrawItem {
	d := &drawItemImpl{
		mu:          &sync.RWMutex{},
		id:          uuid.New(),
		mesh:        m,
		transform:   IdentityTransform(),
		castsShadow: true,
	}
	for _, opt := range options {
		opt(d)
	}
	if d.material == nil {
		d.material = material.NewMaterial()
	}
	if d.name == "" && m != nil {
		d.name = m.Name
	}
	d.rebuild()
	return d
}

func (d *drawItemImpl) ID() uuid.UUID {
	return d.id
}

func (d *drawItemImpl) Name() string {
	return d.name
}

func (d *drawItemImpl) Mesh() *Mesh {
	return d.mesh
}

func (d *drawItemImpl) Material() material.Material {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.material
}

func (d *drawItemImpl) Transform() Transform {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.transform
}

func (d *drawItemImpl) SetTransform(t Transform) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.transform = t
	d.rebuild()
}

func (d *drawItemImpl) ModelMatrix() mgl32.Mat4 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.model
}

func (d *drawItemImpl) NormalMatrix() mgl32.Mat3 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.normal
}

func (d *drawItemImpl) Selected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.selected
}

func (d *drawItemImpl) SetSelected(selected bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selected = selected
}

func (d *drawItemImpl) ShadingMode() ShadingMode {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.shadingMode
}

func (d *drawItemImpl) SetShadingMode(mode ShadingMode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shadingMode = mode
}

func (d *drawItemImpl) CastsShadow() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.castsShadow
}

func (d *drawItemImpl) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Snapshot{
		ID:          d.id,
		Mesh:        d.mesh,
		Material:    d.material,
		Model:       d.model,
		Normal:      d.normal,
		Selected:    d.selected,
		ShadingMode: d.shadingMode,
		CastsShadow: d.castsShadow,
	}
}

// rebuild refreshes the cached matrices. Caller must hold the write lock or own d exclusively.
func (d *drawItemImpl) rebuild() {
	d.model = d.transform.Matrix()
	d.normal = common.NormalMatrix(d.model)
}
