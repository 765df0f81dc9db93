// Package semver wraps github.com/Masterminds/semver/v3 behind the
// string-in/string-out contract the rest of this module depends on, so a
// different semver engine could be swapped in without touching callers.
package semver

import (
	mastersemver "github.com/Masterminds/semver/v3"
)

// Valid reports whether v parses as a semantic version.
func Valid(v string) bool {
	_, err := mastersemver.NewVersion(v)
	return err == nil
}

// ValidRange reports whether r parses as a semver range/constraint.
func ValidRange(r string) bool {
	_, err := mastersemver.NewConstraint(r)
	return err == nil
}

// Satisfies reports whether version v satisfies range r. Both must already
// be valid; callers that haven't checked Valid/ValidRange should expect a
// false return rather than a panic on malformed input.
func Satisfies(v, r string) bool {
	version, err := mastersemver.NewVersion(v)
	if err != nil {
		return false
	}
	constraint, err := mastersemver.NewConstraint(r)
	if err != nil {
		return false
	}
	return constraint.Check(version)
}

// MaxSatisfying returns the greatest version in versions that satisfies r,
// and true if one exists. versions that fail to parse are skipped rather
// than treated as an error, since a registry document's version map may
// contain the occasional malformed key. Pre-release versions parse and are
// kept or dropped by the range check like any other version.
func MaxSatisfying(versions []string, r string) (string, bool) {
	constraint, err := mastersemver.NewConstraint(r)
	if err != nil {
		return "", false
	}

	var best *mastersemver.Version
	var bestRaw string
	for _, v := range versions {
		parsed, err := mastersemver.NewVersion(v)
		if err != nil {
			continue
		}
		if !constraint.Check(parsed) {
			continue
		}
		if best == nil || parsed.GreaterThan(best) {
			best = parsed
			bestRaw = v
		}
	}
	if best == nil {
		return "", false
	}
	return bestRaw, true
}
