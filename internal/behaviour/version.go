// Package behaviour maps a scenario's model behaviour version onto named flags.
//
// Historical assessments must reproduce the numbers they were certified with,
// including known numeric bugs, while new assessments get corrected formulas.
// Modules never branch on the version tag itself; they read the flag group that
// concerns them from Flags.
package behaviour

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// LegacyTag is the version tag used by scenarios created before versioning existed.
const LegacyTag = "legacy"

// LatestVersion is the newest numbered behaviour version.
const LatestVersion = 2

// supportedRange limits numbered versions to the ones ConstructFlags knows.
const supportedRange = ">= 1.0.0, <= 2.0.0"

// ErrUnknownVersion is returned for tags outside the closed version set.
var ErrUnknownVersion = errors.New("unknown model behaviour version")

// Version is either the legacy tag or a positive version number.
type Version struct {
	number int
}

// Legacy is the version used when a scenario has no modelBehaviourVersion.
//
//nolint:gochecknoglobals // Immutable value used as a named constant.
var Legacy = Version{}

// Numbered returns the numbered version n. It does not check n is supported.
func Numbered(n int) Version {
	return Version{number: n}
}

// IsLegacy reports whether v is the legacy tag.
func (v Version) IsLegacy() bool { return v.number == 0 }

// Number returns the version number, or 0 for legacy.
func (v Version) Number() int { return v.number }

// String returns the tag as it appears in scenario records.
func (v Version) String() string {
	if v.IsLegacy() {
		return LegacyTag
	}
	return strconv.Itoa(v.number)
}

// RecordValue returns the value to store in modelBehaviourVersion.
func (v Version) RecordValue() any {
	if v.IsLegacy() {
		return LegacyTag
	}
	return float64(v.number)
}

// ParseVersion converts a raw modelBehaviourVersion value into a Version.
//
// A nil value or "legacy" yields Legacy. Numbers and numeric strings are read as
// semantic versions so 1, "1" and "1.0" are equivalent; only whole versions in
// the supported range are accepted.
func ParseVersion(raw any) (Version, error) {
	var text string
	switch v := raw.(type) {
	case nil:
		return Legacy, nil
	case string:
		text = strings.TrimSpace(v)
	case float64:
		text = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		text = strconv.Itoa(v)
	default:
		return Legacy, fmt.Errorf("%w: unsupported type %T", ErrUnknownVersion, raw)
	}

	if text == "" || text == LegacyTag {
		return Legacy, nil
	}

	parsed, err := semver.NewVersion(text)
	if err != nil {
		return Legacy, fmt.Errorf("%w: %q: %v", ErrUnknownVersion, text, err)
	}
	if parsed.Minor() != 0 || parsed.Patch() != 0 || parsed.Prerelease() != "" {
		return Legacy, fmt.Errorf("%w: %q is not a whole version", ErrUnknownVersion, text)
	}

	constraint, err := semver.NewConstraint(supportedRange)
	if err != nil {
		return Legacy, fmt.Errorf("parsing supported range: %w", err)
	}
	if !constraint.Check(parsed) {
		return Legacy, fmt.Errorf("%w: %q outside %s", ErrUnknownVersion, text, supportedRange)
	}

	return Numbered(int(parsed.Major())), nil
}

// AllVersions lists every supported version, legacy first.
func AllVersions() []Version {
	versions := []Version{Legacy}
	for n := 1; n <= LatestVersion; n++ {
		versions = append(versions, Numbered(n))
	}
	return versions
}
