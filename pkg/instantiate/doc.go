// Package instantiate materializes a template as a new instance.
//
// Instantiation runs in two steps. The template tree is first copied to
// <dest>/<name>, skipping every entry whose basename matches one of the
// template's ignore patterns. The copy is then walked once to plan every
// rename (each basename with "__name__" replaced by the instance name), and
// the plan is applied deepest path first so no planned path is invalidated
// by an earlier rename.
//
// Failure policy:
//   - an existing destination is rejected before anything is written
//   - a copy failure removes the partially copied destination
//   - rename failures are collected; the remaining renames still run and the
//     failures are returned together with the partial result
package instantiate
