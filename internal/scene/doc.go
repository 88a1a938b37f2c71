// Package scene is a minimal host scene graph for lattice tooling.
//
// It holds mesh and lattice objects with their world transforms, parent
// links, selection state and lattice modifier bindings, plus a string
// key/value metadata store per object. Scenes are loaded from and saved
// to YAML or JSON documents so command-line tools can operate on them
// the same way an interactive host would.
package scene
