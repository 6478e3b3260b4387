// Package types defines the data shared between the catalog, the
// instantiator and the host layer.
package types
