package scene

import (
	"fmt"

	"github.com/google/uuid"
)

// Scene is an ordered collection of named objects with a selection and
// an active object. It is not safe for concurrent use; callers that
// share a scene across goroutines must serialise access.
type Scene struct {
	objects  map[string]*Object
	order    []string
	selected map[string]bool
	active   string
	meta     MetadataStore
}

// New returns an empty scene. A nil store selects an in-memory one.
func New(meta MetadataStore) *Scene {
	if meta == nil {
		meta = NewMemoryMetadata()
	}
	return &Scene{
		objects:  make(map[string]*Object),
		selected: make(map[string]bool),
		meta:     meta,
	}
}

// Metadata returns the scene's metadata store.
func (s *Scene) Metadata() MetadataStore {
	return s.meta
}

// Add inserts o. Names must be unique. A zero ID is replaced by a new one.
func (s *Scene) Add(o *Object) error {
	if o == nil || o.Name == "" {
		return fmt.Errorf("%w: object needs a name", ErrInvalidObject)
	}
	if _, exists := s.objects[o.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, o.Name)
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	s.objects[o.Name] = o
	s.order = append(s.order, o.Name)
	return nil
}

// Object returns the named object or nil.
func (s *Scene) Object(name string) *Object {
	return s.objects[name]
}

// Objects returns every object in insertion order.
func (s *Scene) Objects() []*Object {
	out := make([]*Object, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.objects[name])
	}
	return out
}

// Len returns the number of objects.
func (s *Scene) Len() int {
	return len(s.order)
}

// Remove deletes the named object. Bindings that target it are dropped
// from every mesh, children are unparented, and its metadata is deleted.
// It reports whether an object was removed.
func (s *Scene) Remove(name string) (bool, error) {
	o, ok := s.objects[name]
	if !ok {
		return false, nil
	}
	for _, other := range s.objects {
		if other.Parent == o {
			other.Parent = nil
		}
		if len(other.Bindings) > 0 {
			kept := other.Bindings[:0]
			for _, b := range other.Bindings {
				if b.Target != o {
					kept = append(kept, b)
				}
			}
			other.Bindings = kept
		}
	}
	delete(s.objects, name)
	delete(s.selected, name)
	if s.active == name {
		s.active = ""
	}
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if err := s.meta.Delete(o.ID.String()); err != nil {
		return true, fmt.Errorf("delete metadata for %s: %w", name, err)
	}
	return true, nil
}

// Select adds the named objects to the selection. Unknown names are
// ignored.
func (s *Scene) Select(names ...string) {
	for _, n := range names {
		if _, ok := s.objects[n]; ok {
			s.selected[n] = true
		}
	}
}

// Deselect removes the named objects from the selection.
func (s *Scene) Deselect(names ...string) {
	for _, n := range names {
		delete(s.selected, n)
	}
}

// DeselectAll clears the selection.
func (s *Scene) DeselectAll() {
	s.selected = make(map[string]bool)
}

// IsSelected reports whether the named object is selected.
func (s *Scene) IsSelected(name string) bool {
	return s.selected[name]
}

// Selected returns the selected objects in insertion order.
func (s *Scene) Selected() []*Object {
	var out []*Object
	for _, name := range s.order {
		if s.selected[name] {
			out = append(out, s.objects[name])
		}
	}
	return out
}

// SetActive makes the named object active. An empty or unknown name
// clears it.
func (s *Scene) SetActive(name string) {
	if _, ok := s.objects[name]; !ok {
		s.active = ""
		return
	}
	s.active = name
}

// Active returns the active object or nil.
func (s *Scene) Active() *Object {
	return s.objects[s.active]
}

// AddBinding appends a lattice modifier on mesh that references lat.
func (s *Scene) AddBinding(mesh, lat *Object, name string) (Binding, error) {
	if !mesh.IsMesh() {
		return Binding{}, fmt.Errorf("%w: %v is not a mesh", ErrWrongKind, mesh)
	}
	if !lat.IsLattice() {
		return Binding{}, fmt.Errorf("%w: %v is not a lattice", ErrWrongKind, lat)
	}
	if name == "" {
		name = DefaultBindingName
	}
	b := Binding{Name: name, Kind: BindingKindLattice, Target: lat}
	mesh.Bindings = append(mesh.Bindings, b)
	return b, nil
}

// RemoveBindings drops lattice modifiers on mesh that reference lat, or
// every lattice modifier when lat is nil. It returns how many were
// removed.
func (s *Scene) RemoveBindings(mesh, lat *Object) int {
	if mesh == nil {
		return 0
	}
	removed := 0
	kept := mesh.Bindings[:0]
	for _, b := range mesh.Bindings {
		if b.Kind == BindingKindLattice && (lat == nil || b.Target == lat) {
			removed++
			continue
		}
		kept = append(kept, b)
	}
	mesh.Bindings = kept
	return removed
}

// MeshesUsing returns every mesh with a lattice modifier targeting lat,
// in insertion order.
func (s *Scene) MeshesUsing(lat *Object) []*Object {
	var out []*Object
	for _, o := range s.Objects() {
		if !o.IsMesh() {
			continue
		}
		if len(o.LatticeBindings(lat)) > 0 {
			out = append(out, o)
		}
	}
	return out
}

// ExistingLatticeFor returns the lattice named by convention for mesh,
// provided it is a lattice parented to that mesh.
func (s *Scene) ExistingLatticeFor(mesh *Object) *Object {
	if mesh == nil {
		return nil
	}
	lat := s.objects[LatticeNameFor(mesh.Name)]
	if !lat.IsLattice() || lat.Parent != mesh {
		return nil
	}
	return lat
}

// LoadMetadata returns the stored metadata for o.
func (s *Scene) LoadMetadata(o *Object) (map[string]string, error) {
	return s.meta.Load(o.ID.String())
}

// SaveMetadata upserts metadata for o.
func (s *Scene) SaveMetadata(o *Object, kv map[string]string) error {
	return s.meta.Save(o.ID.String(), kv)
}
