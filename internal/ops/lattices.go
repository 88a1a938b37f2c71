package ops

import (
	"fmt"

	"github.com/banshee-data/bevel.deformer/internal/lattice"
	"github.com/banshee-data/bevel.deformer/internal/lattice/solver"
	"github.com/banshee-data/bevel.deformer/internal/scene"
)

// selection snapshots the selected names and the active object.
type selection struct {
	names  []string
	active string
}

func saveSelection(sc *scene.Scene) selection {
	var st selection
	for _, o := range sc.Selected() {
		st.names = append(st.names, o.Name)
	}
	if a := sc.Active(); a != nil {
		st.active = a.Name
	}
	return st
}

// restore reselects whatever still exists.
func (st selection) restore(sc *scene.Scene) {
	sc.DeselectAll()
	sc.Select(st.names...)
	sc.SetActive(st.active)
}

func selectedMeshes(sc *scene.Scene) []*scene.Object {
	var out []*scene.Object
	for _, o := range sc.Selected() {
		if o.IsMesh() {
			out = append(out, o)
		}
	}
	return out
}

// uniqueName returns base, or base with the first free ".NNN" suffix.
func uniqueName(sc *scene.Scene, base string) string {
	if sc.Object(base) == nil {
		return base
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s.%03d", base, i)
		if sc.Object(name) == nil {
			return name
		}
	}
}

// objectSet keeps first-seen order.
type objectSet struct {
	seen  map[*scene.Object]bool
	items []*scene.Object
}

func (s *objectSet) add(o *scene.Object) {
	if o == nil {
		return
	}
	if s.seen == nil {
		s.seen = make(map[*scene.Object]bool)
	}
	if s.seen[o] {
		return
	}
	s.seen[o] = true
	s.items = append(s.items, o)
}

// GatherTargetLattices returns the lattices an operator on the current
// selection acts on: selected lattices, lattices bound to selected meshes,
// and lattices found for selected meshes by naming convention. The order
// follows the selection.
func GatherTargetLattices(sc *scene.Scene) []*scene.Object {
	var set objectSet
	for _, o := range sc.Selected() {
		switch {
		case o.IsLattice():
			set.add(o)
		case o.IsMesh():
			for _, b := range o.LatticeBindings(nil) {
				if b.Target.IsLattice() {
					set.add(b.Target)
				}
			}
			set.add(sc.ExistingLatticeFor(o))
		}
	}
	return set.items
}

// selectedOrConventional returns selected lattices plus the conventional
// lattice of each selected mesh.
func selectedOrConventional(sc *scene.Scene) []*scene.Object {
	var set objectSet
	for _, o := range sc.Selected() {
		switch {
		case o.IsLattice():
			set.add(o)
		case o.IsMesh():
			set.add(sc.ExistingLatticeFor(o))
		}
	}
	return set.items
}

// deleteLattice drops every binding that references lat, then lat itself.
func deleteLattice(sc *scene.Scene, lat *scene.Object) error {
	for _, mesh := range sc.MeshesUsing(lat) {
		sc.RemoveBindings(mesh, lat)
	}
	if _, err := sc.Remove(lat.Name); err != nil {
		return err
	}
	return nil
}

// CreateLattices fits a lattice to every selected mesh. A mesh's existing
// lattice is deleted first and counted as overwritten. Each lattice is
// parented to its mesh, tagged with lock metadata and bound to the mesh.
// Afterwards the created lattices are selected with the last one active;
// when nothing was created the previous active object is restored.
func CreateLattices(sc *scene.Scene, opt LatticeOptions) Report {
	var rep Report
	meshes := selectedMeshes(sc)
	if len(meshes) == 0 {
		rep.warnf("No mesh objects selected")
		return rep
	}
	prevActive := ""
	if a := sc.Active(); a != nil {
		prevActive = a.Name
	}

	overwritten := 0
	targets := make([]solver.Target, 0, len(meshes))
	byName := make(map[string]*scene.Object, len(meshes))
	for _, mesh := range meshes {
		if old := sc.ExistingLatticeFor(mesh); old != nil {
			if err := deleteLattice(sc, old); err != nil {
				rep.fail(fmt.Errorf("%s: remove existing lattice: %w", mesh.Name, err))
			} else {
				overwritten++
			}
		}
		byName[mesh.Name] = mesh
		targets = append(targets, solver.Target{
			Name:  mesh.Name,
			Input: opt.input(mesh.Bounds, mesh.World),
		})
	}

	batch := solver.SolveBatch(targets)
	for _, f := range batch.Failed {
		rep.fail(f)
	}

	var created []string
	for _, b := range batch.Built {
		mesh := byName[b.Name]
		lat, err := attachLattice(sc, mesh, b.Result)
		if err != nil {
			rep.fail(fmt.Errorf("%s: %w", mesh.Name, err))
			continue
		}
		diagf("created %s %s for %s", lat.Name, lat.Grid.Resolution, mesh.Name)
		created = append(created, lat.Name)
	}

	if len(created) > 0 {
		sc.DeselectAll()
		sc.Select(created...)
		sc.SetActive(created[len(created)-1])
	} else {
		sc.SetActive(prevActive)
	}

	rep.Count = len(created)
	msg := fmt.Sprintf("Created %d lattice(s)", len(created))
	if overwritten > 0 {
		msg += fmt.Sprintf(", overwritten %d", overwritten)
	}
	if len(rep.Failures) > 0 {
		rep.warnf("%s, %d failed", msg, len(rep.Failures))
	} else {
		rep.infof("%s", msg)
	}
	return rep
}

// attachLattice adds the solved lattice to the scene next to mesh.
func attachLattice(sc *scene.Scene, mesh *scene.Object, res *solver.Result) (*scene.Object, error) {
	name := uniqueName(sc, scene.LatticeNameFor(mesh.Name))
	lat := scene.NewLattice(name, res.Grid, res.World)
	lat.Parent = mesh
	lat.ParentInverse = mesh.World.Inv()
	lat.Collection = mesh.Collection
	if err := sc.Add(lat); err != nil {
		return nil, err
	}
	if err := sc.SaveMetadata(lat, res.Lock.Encode()); err != nil {
		sc.Remove(lat.Name)
		return nil, fmt.Errorf("save lock metadata: %w", err)
	}
	if _, err := sc.AddBinding(mesh, lat, scene.DefaultBindingName); err != nil {
		sc.Remove(lat.Name)
		return nil, err
	}
	return lat, nil
}

// DeleteLattices removes the selected lattices and the conventional
// lattice of each selected mesh, together with every binding to them.
func DeleteLattices(sc *scene.Scene) Report {
	var rep Report
	if len(sc.Selected()) == 0 {
		rep.warnf("No objects selected")
		return rep
	}
	lats := selectedOrConventional(sc)
	if len(lats) == 0 {
		rep.warnf("No lattices found for selected objects")
		return rep
	}
	for _, lat := range lats {
		name := lat.Name
		if err := deleteLattice(sc, lat); err != nil {
			rep.fail(fmt.Errorf("%s: %w", name, err))
			continue
		}
		opsf("deleted %s", name)
		rep.Count++
	}
	rep.infof("Deleted %d lattice(s)", rep.Count)
	return rep
}

// ApplyInterpolation sets mode on the selected lattices and the
// conventional lattice of each selected mesh.
func ApplyInterpolation(sc *scene.Scene, mode lattice.Interpolation) (Report, error) {
	var rep Report
	if !mode.Valid() {
		return rep, fmt.Errorf("%w: %q", lattice.ErrUnknownInterpolation, mode)
	}
	if len(sc.Selected()) == 0 {
		rep.warnf("No objects selected")
		return rep, nil
	}
	lats := selectedOrConventional(sc)
	if len(lats) == 0 {
		rep.warnf("No lattices found for selected objects")
		return rep, nil
	}
	for _, lat := range lats {
		if lat.Grid == nil {
			rep.fail(fmt.Errorf("%s: %w", lat.Name, lattice.ErrPointCount))
			continue
		}
		lat.Grid.Interpolation = mode
		rep.Count++
	}
	rep.infof("Set %s on %d lattice(s)", mode, rep.Count)
	return rep, nil
}

// ReleaseLattices removes lattice bindings from the selected meshes and
// deletes every lattice left without users. When only lattices are
// selected, the bindings on every mesh using them are removed. Lattices
// still bound to an unselected mesh are kept and counted as skipped. The
// previous selection is restored afterwards.
func ReleaseLattices(sc *scene.Scene) Report {
	var rep Report
	if len(sc.Selected()) == 0 {
		rep.warnf("No objects selected")
		return rep
	}
	saved := saveSelection(sc)

	meshes := selectedMeshes(sc)
	var lats objectSet
	for _, o := range sc.Selected() {
		if o.IsLattice() {
			lats.add(o)
		}
	}
	for _, mesh := range meshes {
		for _, b := range mesh.LatticeBindings(nil) {
			lats.add(b.Target)
		}
	}
	if len(meshes) == 0 {
		var users objectSet
		for _, lat := range lats.items {
			for _, m := range sc.MeshesUsing(lat) {
				users.add(m)
			}
		}
		meshes = users.items
	}
	if len(lats.items) == 0 {
		rep.warnf("No lattice modifiers found on selected objects")
		return rep
	}

	released := 0
	for _, mesh := range meshes {
		for _, lat := range lats.items {
			released += sc.RemoveBindings(mesh, lat)
		}
	}

	deleted, skipped := 0, 0
	for _, lat := range lats.items {
		if len(sc.MeshesUsing(lat)) > 0 {
			skipped++
			continue
		}
		name := lat.Name
		if _, err := sc.Remove(name); err != nil {
			rep.fail(fmt.Errorf("%s: %w", name, err))
			continue
		}
		opsf("deleted unused %s", name)
		deleted++
	}
	saved.restore(sc)

	rep.Count = released
	msg := fmt.Sprintf("Released %d modifier(s), deleted %d lattice(s)", released, deleted)
	if skipped > 0 {
		msg += fmt.Sprintf(", skipped %d (still used)", skipped)
	}
	rep.infof("%s", msg)
	return rep
}
