package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/bevel.deformer/internal/db"
	"github.com/banshee-data/bevel.deformer/internal/lattice/deform"
	"github.com/banshee-data/bevel.deformer/internal/ops"
	"github.com/banshee-data/bevel.deformer/internal/scene"
)

var errNoScene = errors.New("--scene is required")

// session is one loaded scene plus its metadata database.
type session struct {
	path string
	sc   *scene.Scene
	db   *db.DB
	runs *db.RunStore
}

// openDB opens and migrates the configured database. It returns nil when
// the path is empty.
func (a *app) openDB() (*db.DB, error) {
	path := a.v.GetString("db")
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	return db.NewDB(path)
}

func (a *app) openSession() (*session, error) {
	path := a.v.GetString("scene")
	if path == "" {
		return nil, errNoScene
	}
	database, err := a.openDB()
	if err != nil {
		return nil, err
	}
	s := &session{path: path, db: database}

	var meta scene.MetadataStore
	if database != nil {
		meta = db.NewMetadataStore(database.DB)
		s.runs = db.NewRunStore(database.DB)
	}
	s.sc, err = scene.LoadDocument(path, meta)
	if err != nil {
		s.close()
		return nil, err
	}

	if names := a.v.GetStringSlice("select"); len(names) > 0 {
		for _, n := range names {
			if s.sc.Object(n) == nil {
				s.close()
				return nil, fmt.Errorf("%w: %q", scene.ErrNotFound, n)
			}
		}
		s.sc.DeselectAll()
		s.sc.Select(names...)
		s.sc.SetActive(names[len(names)-1])
	}
	return s, nil
}

func (s *session) save() error {
	return scene.SaveDocument(s.path, s.sc)
}

func (s *session) close() {
	if s.db != nil {
		s.db.Close()
	}
}

// record stores a deform or reset run when a database is attached.
func (s *session) record(op string, p deform.Params, rep ops.Report) error {
	if s.runs == nil {
		return nil
	}
	return s.runs.Insert(&db.DeformRun{
		Operation:      op,
		ScaleFactor:    p.ScaleFactor,
		ShiftFactor:    p.ShiftFactor,
		OffsetX:        p.OffsetX,
		OffsetY:        p.OffsetY,
		OffsetZ:        p.OffsetZ,
		ResetToUniform: p.ResetToUniform,
		Lattices:       rep.Count,
		Failures:       len(rep.Failures),
	})
}

// run opens a session, calls fn and saves the scene when fn succeeds.
func (a *app) run(fn func(*session) error) error {
	s, err := a.openSession()
	if err != nil {
		return err
	}
	defer s.close()
	if err := fn(s); err != nil {
		return err
	}
	return s.save()
}
