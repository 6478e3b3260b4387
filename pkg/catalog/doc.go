// Package catalog discovers templates.
//
// Every immediate subdirectory of the templates root is a template and its
// directory name is the template's identifier. Names are sorted byte-wise,
// so upper case sorts before lower case ("C" < "a" < "b"). Regular files
// at the root are skipped; hidden directories are not.
//
// A Catalog remembers the names from its most recent List call and Resolve
// only answers for those names, without touching the filesystem for others.
package catalog
