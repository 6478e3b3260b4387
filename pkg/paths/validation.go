package paths

import (
	"strings"

	"github.com/arthur-debert/stencil/pkg/errors"
)

// invalidNameChars are rejected so instances stay portable across platforms
const invalidNameChars = ":*?\"<>|"

// ValidateName ensures a template or instance name is usable as a single
// directory entry. Names must:
// - Not be empty
// - Not contain path separators
// - Not be reserved names (. or ..)
// - Not contain characters that are invalid on common filesystems
// - Not contain control characters
func ValidateName(kind, name string) error {
	if name == "" {
		return errors.Newf(errors.ErrInvalidInput, "%s name cannot be empty", kind)
	}

	if strings.ContainsAny(name, "/\\") {
		return errors.Newf(errors.ErrInvalidInput, "%s name cannot contain path separators", kind).
			WithDetail("name", name)
	}

	if name == "." || name == ".." {
		return errors.Newf(errors.ErrInvalidInput, "%s name cannot be '.' or '..'", kind)
	}

	if strings.ContainsAny(name, invalidNameChars) {
		return errors.Newf(errors.ErrInvalidInput,
			"%s name contains invalid characters: %s", kind, invalidNameChars).
			WithDetail("name", name)
	}

	for _, r := range name {
		if r < 32 || r == 127 {
			return errors.Newf(errors.ErrInvalidInput, "%s name contains control characters", kind).
				WithDetail("name", name)
		}
	}

	return nil
}

// ValidateInstanceName validates the name given to a new instance
func ValidateInstanceName(name string) error {
	return ValidateName("instance", name)
}

// ValidateTemplateName validates the name of a template directory
func ValidateTemplateName(name string) error {
	return ValidateName("template", name)
}
