// Package config loads template descriptors and the stencil settings.
//
// A descriptor is an optional file at the root of a template directory
// (TEMPLATE.json, TEMPLATE.toml or TEMPLATE.yaml) that tunes how the
// template is instantiated. Reading a descriptor never fails: a missing
// file and a malformed one both fall back to the built-in defaults, and
// the LoadResult status tells the two apart.
//
// Recognized fields:
//
//	ignore_patterns  glob patterns excluded from the copy (default: the descriptor file name)
//	default_path     suggested destination, "$project_path" is substituted by the host
//	prompt           text shown when asking for the new name
//	main             file (relative to the template root) opened after instantiation
//
// Any other field is kept verbatim in Descriptor.Extra.
//
// Settings are the user preferences of the command line tool. LoadSettings
// layers the built-in defaults, the user's config.toml and STENCIL_*
// environment variables, each overriding the previous one.
package config
