// Package testutil provides helpers for testing stencil components.
//
// Key components:
//   - WriteTree / ReadTree: declarative template trees on any afero.Fs
//   - FaultyFs: an afero.Fs wrapper that injects errors for chosen operations
//
// Most tests run against afero.NewMemMapFs(); tests that depend on real
// permission bits or symlinks use afero.NewOsFs() inside t.TempDir().
package testutil
