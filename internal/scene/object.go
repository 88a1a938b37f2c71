package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/banshee-data/bevel.deformer/internal/lattice"
)

// Kind is an object's type.
type Kind string

const (
	KindMesh    Kind = "MESH"
	KindLattice Kind = "LATTICE"
)

// BindingKindLattice is the modifier type that deforms a mesh by a lattice.
const BindingKindLattice = "LATTICE"

// Naming conventions for lattices created per mesh.
const (
	LatticeNamePrefix  = "Lattice_"
	LatticeDataSuffix  = "_Data"
	DefaultBindingName = "AutoLattice"
)

var (
	ErrDuplicateName = errors.New("scene: object name already in use")
	ErrNotFound      = errors.New("scene: object not found")
	ErrWrongKind     = errors.New("scene: wrong object kind")
	ErrInvalidObject = errors.New("scene: invalid object")
)

// LatticeNameFor returns the conventional lattice name for a mesh.
func LatticeNameFor(mesh string) string {
	return LatticeNamePrefix + mesh
}

// LatticeDataNameFor returns the conventional lattice data-block name.
func LatticeDataNameFor(latticeName string) string {
	return latticeName + LatticeDataSuffix
}

// Binding is a modifier on a mesh that references a lattice.
type Binding struct {
	Name   string
	Kind   string
	Target *Object
}

// Object is a mesh or lattice in the scene.
type Object struct {
	ID   uuid.UUID
	Name string
	Kind Kind

	Parent        *Object
	World         mgl64.Mat4
	ParentInverse mgl64.Mat4

	// Bounds is the local bounding box. Meaningful for meshes.
	Bounds lattice.BoundingBox
	// Grid holds the control points. Set only for lattices.
	Grid *lattice.Grid
	// DataName names the lattice data block. Set only for lattices.
	DataName string

	Bindings   []Binding
	Collection string
}

// NewMesh returns a mesh object with a fresh ID.
func NewMesh(name string, bounds lattice.BoundingBox, world mgl64.Mat4) *Object {
	return &Object{
		ID:            uuid.New(),
		Name:          name,
		Kind:          KindMesh,
		World:         world,
		ParentInverse: mgl64.Ident4(),
		Bounds:        bounds,
	}
}

// NewLattice returns a lattice object with a fresh ID.
func NewLattice(name string, grid *lattice.Grid, world mgl64.Mat4) *Object {
	return &Object{
		ID:            uuid.New(),
		Name:          name,
		Kind:          KindLattice,
		World:         world,
		ParentInverse: mgl64.Ident4(),
		Grid:          grid,
		DataName:      LatticeDataNameFor(name),
	}
}

// IsMesh reports whether o is a mesh.
func (o *Object) IsMesh() bool { return o != nil && o.Kind == KindMesh }

// IsLattice reports whether o is a lattice.
func (o *Object) IsLattice() bool { return o != nil && o.Kind == KindLattice }

// LatticeBindings returns the lattice modifiers on o, in stack order.
// When target is non-nil only bindings to that lattice are returned.
func (o *Object) LatticeBindings(target *Object) []Binding {
	var out []Binding
	for _, b := range o.Bindings {
		if b.Kind != BindingKindLattice {
			continue
		}
		if target != nil && b.Target != target {
			continue
		}
		out = append(out, b)
	}
	return out
}

func (o *Object) String() string {
	if o == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%s)", o.Name, o.Kind)
}
