// Package paths resolves the locations stencil works with: the templates
// root (flag, STENCIL_TEMPLATES, or the XDG config directory) and the
// project path substituted into default_path (flag, git top level, or the
// working directory). It also validates names used as directory entries.
package paths
