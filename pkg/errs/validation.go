package errs

import (
	"regexp"
	"strings"
	"unicode"
)

// validateBasicName rejects names that are empty, too long, or contain
// control characters or path-traversal sequences, regardless of which
// ecosystem's stricter name grammar applies on top.
func validateBasicName(name string) error {
	if name == "" {
		return New(CodeInvalidArguments, "package name cannot be empty")
	}
	if len(name) > 256 {
		return New(CodeInvalidArguments, "package name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(CodeInvalidArguments, "package name contains invalid control characters")
		}
	}
	for _, pattern := range []string{"..", "//", "\x00", "\\"} {
		if strings.Contains(name, pattern) {
			return New(CodeInvalidArguments, "package name contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// npmPackageNameRegex matches valid npm package names, including scoped
// names of the form "@scope/name".
var npmPackageNameRegex = regexp.MustCompile(`^(@[a-z0-9-~][a-z0-9-._~]*/)?[a-z0-9-~][a-z0-9-._~]*$`)

// ValidateNpmPackageName validates an npm package name.
func ValidateNpmPackageName(name string) error {
	if err := validateBasicName(name); err != nil {
		return err
	}
	if strings.ToLower(name) != name {
		return New(CodeInvalidArguments, "npm package names must be lowercase: %q", name)
	}
	if !npmPackageNameRegex.MatchString(name) {
		return New(CodeInvalidArguments, "invalid npm package name: %q", name)
	}
	return nil
}

// ValidateDescriptor rejects an empty version descriptor. The descriptor
// itself (exact version, dist-tag, or semver range) is checked for
// syntactic validity by pkg/semver and pkg/resolver, not here.
func ValidateDescriptor(descriptor string) error {
	if descriptor == "" {
		return New(CodeInvalidArguments, "version descriptor cannot be empty")
	}
	return nil
}
