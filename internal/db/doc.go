// Package db persists lattice metadata and deform run history in sqlite.
//
// Responsibilities:
//   - open the database with the WAL/busy-timeout pragmas
//   - apply embedded golang-migrate migrations
//   - implement scene.MetadataStore for the locked-axis keys
//   - record deform/reset runs
//
// Dependency rule: db imports no other internal package.
package db
