package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/bevel.deformer/internal/lattice"
)

// maxDocumentSize caps scene files read from disk.
const maxDocumentSize = 64 * 1024 * 1024

// Document is the on-disk form of a scene. Matrices are row-major.
type Document struct {
	Objects []ObjectDoc `json:"objects"`
}

// ObjectDoc is one object in a Document.
type ObjectDoc struct {
	ID                  string            `json:"id,omitempty"`
	Name                string            `json:"name"`
	Type                Kind              `json:"type"`
	Parent              string            `json:"parent,omitempty"`
	Collection          string            `json:"collection,omitempty"`
	MatrixWorld         *[4][4]float64    `json:"matrix_world,omitempty"`
	MatrixParentInverse *[4][4]float64    `json:"matrix_parent_inverse,omitempty"`
	BoundBox            *BoundBoxDoc      `json:"bound_box,omitempty"`
	Lattice             *LatticeDoc       `json:"lattice,omitempty"`
	Modifiers           []ModifierDoc     `json:"modifiers,omitempty"`
	Properties          map[string]string `json:"properties,omitempty"`
	Selected            bool              `json:"selected,omitempty"`
	Active              bool              `json:"active,omitempty"`
}

// BoundBoxDoc gives a mesh's local bounds either as min/max or as the
// eight corner points reported by a host.
type BoundBoxDoc struct {
	Min     *[3]float64  `json:"min,omitempty"`
	Max     *[3]float64  `json:"max,omitempty"`
	Corners [][3]float64 `json:"corners,omitempty"`
}

// LatticeDoc is a lattice's grid. Points may be omitted, in which case
// the uniform layout is used.
type LatticeDoc struct {
	Data          string       `json:"data,omitempty"`
	PointsU       int          `json:"points_u"`
	PointsV       int          `json:"points_v"`
	PointsW       int          `json:"points_w"`
	Interpolation string       `json:"interpolation,omitempty"`
	Points        [][3]float64 `json:"points,omitempty"`
}

// ModifierDoc is one modifier in a mesh's stack.
type ModifierDoc struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Object string `json:"object,omitempty"`
}

func vec(a [3]float64) r3.Vec { return r3.Vec{X: a[0], Y: a[1], Z: a[2]} }

func arr(v r3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func matrixOrIdentity(rows *[4][4]float64) mgl64.Mat4 {
	if rows == nil {
		return mgl64.Ident4()
	}
	return lattice.MatrixFromRows(*rows)
}

func rowsPtr(m mgl64.Mat4) *[4][4]float64 {
	r := lattice.MatrixRows(m)
	return &r
}

// ParseDocument builds a scene from YAML or JSON bytes. Object
// properties are written to meta, which may be nil for an in-memory
// store.
func ParseDocument(data []byte, meta MetadataStore) (*Scene, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse scene document: %w", err)
	}
	return doc.Build(meta)
}

// Build converts the document into a scene.
func (d *Document) Build(meta MetadataStore) (*Scene, error) {
	sc := New(meta)

	for i, od := range d.Objects {
		o, err := od.object()
		if err != nil {
			return nil, fmt.Errorf("object %d (%q): %w", i, od.Name, err)
		}
		if err := sc.Add(o); err != nil {
			return nil, err
		}
		if len(od.Properties) > 0 {
			if err := sc.SaveMetadata(o, od.Properties); err != nil {
				return nil, fmt.Errorf("store properties for %q: %w", od.Name, err)
			}
		}
	}

	// Second pass: resolve references by name.
	for _, od := range d.Objects {
		o := sc.Object(od.Name)
		if od.Parent != "" {
			p := sc.Object(od.Parent)
			if p == nil {
				return nil, fmt.Errorf("%w: parent %q of %q", ErrNotFound, od.Parent, od.Name)
			}
			o.Parent = p
		}
		for _, md := range od.Modifiers {
			b := Binding{Name: md.Name, Kind: strings.ToUpper(md.Type)}
			if md.Object != "" {
				b.Target = sc.Object(md.Object)
				if b.Target == nil {
					return nil, fmt.Errorf("%w: modifier %q on %q references %q", ErrNotFound, md.Name, od.Name, md.Object)
				}
			}
			o.Bindings = append(o.Bindings, b)
		}
		if od.Selected {
			sc.Select(od.Name)
		}
		if od.Active {
			sc.SetActive(od.Name)
		}
	}
	return sc, nil
}

func (od ObjectDoc) object() (*Object, error) {
	if od.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidObject)
	}
	o := &Object{
		Name:          od.Name,
		Kind:          Kind(strings.ToUpper(string(od.Type))),
		World:         matrixOrIdentity(od.MatrixWorld),
		ParentInverse: matrixOrIdentity(od.MatrixParentInverse),
		Collection:    od.Collection,
	}
	if od.ID != "" {
		id, err := uuid.Parse(od.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad id: %v", ErrInvalidObject, err)
		}
		o.ID = id
	}

	switch o.Kind {
	case KindMesh:
		if od.BoundBox != nil {
			box, err := od.BoundBox.bounds()
			if err != nil {
				return nil, err
			}
			o.Bounds = box
		}
	case KindLattice:
		if od.Lattice == nil {
			return nil, fmt.Errorf("%w: lattice without grid", ErrInvalidObject)
		}
		g, err := od.Lattice.grid()
		if err != nil {
			return nil, err
		}
		o.Grid = g
		o.DataName = od.Lattice.Data
		if o.DataName == "" {
			o.DataName = LatticeDataNameFor(o.Name)
		}
	default:
		// Other object kinds are carried through untouched.
	}
	return o, nil
}

func (b *BoundBoxDoc) bounds() (lattice.BoundingBox, error) {
	if len(b.Corners) > 0 {
		pts := make([]r3.Vec, len(b.Corners))
		for i, c := range b.Corners {
			pts[i] = vec(c)
		}
		return lattice.BoundsFromCorners(pts)
	}
	if b.Min == nil || b.Max == nil {
		return lattice.BoundingBox{}, fmt.Errorf("%w: bound_box needs min and max or corners", lattice.ErrInvalidBounds)
	}
	// Out-of-order boxes are kept as given; the solver rejects them.
	return lattice.BoundingBox{Min: vec(*b.Min), Max: vec(*b.Max)}, nil
}

func (l *LatticeDoc) grid() (*lattice.Grid, error) {
	mode := lattice.DefaultInterpolation
	if l.Interpolation != "" {
		m, err := lattice.ParseInterpolation(l.Interpolation)
		if err != nil {
			return nil, err
		}
		mode = m
	}
	g, err := lattice.NewGrid(lattice.Resolution{l.PointsU, l.PointsV, l.PointsW}, mode)
	if err != nil {
		return nil, err
	}
	if len(l.Points) == 0 {
		return g, nil
	}
	if len(l.Points) != len(g.Points) {
		return nil, fmt.Errorf("%w: have %d, want %d", lattice.ErrPointCount, len(l.Points), len(g.Points))
	}
	for i, p := range l.Points {
		g.Points[i] = vec(p)
	}
	return g, nil
}

// NewDocument captures a scene, including each object's metadata.
func NewDocument(sc *Scene) (*Document, error) {
	doc := &Document{}
	for _, o := range sc.Objects() {
		od := ObjectDoc{
			ID:                  o.ID.String(),
			Name:                o.Name,
			Type:                o.Kind,
			Collection:          o.Collection,
			MatrixWorld:         rowsPtr(o.World),
			MatrixParentInverse: rowsPtr(o.ParentInverse),
			Selected:            sc.IsSelected(o.Name),
			Active:              sc.Active() == o,
		}
		if o.Parent != nil {
			od.Parent = o.Parent.Name
		}
		switch o.Kind {
		case KindMesh:
			min, max := arr(o.Bounds.Min), arr(o.Bounds.Max)
			od.BoundBox = &BoundBoxDoc{Min: &min, Max: &max}
		case KindLattice:
			if o.Grid != nil {
				ld := &LatticeDoc{
					Data:          o.DataName,
					PointsU:       o.Grid.Resolution[0],
					PointsV:       o.Grid.Resolution[1],
					PointsW:       o.Grid.Resolution[2],
					Interpolation: string(o.Grid.Interpolation),
					Points:        make([][3]float64, len(o.Grid.Points)),
				}
				for i, p := range o.Grid.Points {
					ld.Points[i] = arr(p)
				}
				od.Lattice = ld
			}
		}
		for _, b := range o.Bindings {
			md := ModifierDoc{Name: b.Name, Type: b.Kind}
			if b.Target != nil {
				md.Object = b.Target.Name
			}
			od.Modifiers = append(od.Modifiers, md)
		}
		props, err := sc.LoadMetadata(o)
		if err != nil {
			return nil, fmt.Errorf("load metadata for %q: %w", o.Name, err)
		}
		if len(props) > 0 {
			od.Properties = props
		}
		doc.Objects = append(doc.Objects, od)
	}
	return doc, nil
}

// LoadDocument reads a scene file.
func LoadDocument(path string, meta MetadataStore) (*Scene, error) {
	cleanPath := filepath.Clean(path)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat scene file: %w", err)
	}
	if info.Size() > maxDocumentSize {
		return nil, fmt.Errorf("scene file too large: %d bytes (max %d)", info.Size(), maxDocumentSize)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	return ParseDocument(data, meta)
}

// SaveDocument writes sc to path. A .json extension selects indented
// JSON; anything else is written as YAML.
func SaveDocument(path string, sc *Scene) error {
	doc, err := NewDocument(sc)
	if err != nil {
		return err
	}
	var data []byte
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(doc, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	} else {
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("failed to encode scene: %w", err)
	}
	if err := os.WriteFile(filepath.Clean(path), data, 0o644); err != nil {
		return fmt.Errorf("failed to write scene file: %w", err)
	}
	return nil
}

// SortedKeys returns the keys of kv in order. Used for stable output.
func SortedKeys(kv map[string]string) []string {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
