package platform

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
)

// Platform is a target environment that decides which favicon variants and markup are generated
type Platform int

const (
	// Web favicons are compatible with almost all web browsers
	Web Platform = iota
	// Modern includes favicon features supported by major modern browsers
	Modern
	// Android enables Android-based favicon support, manifest included
	Android
	// Apple enables Apple device favicon support
	Apple
)

var (
	// ErrInvalidPlatform is returned when a platform name is not recognized
	ErrInvalidPlatform = fmt.Errorf("invalid platform value")

	names = [...]string{
		Web:     "web",
		Modern:  "modern",
		Android: "android",
		Apple:   "apple",
	}
)

// All returns every platform in declaration order
func All() []Platform {
	return []Platform{Web, Modern, Android, Apple}
}

// Names returns the CLI names of every platform in declaration order
func Names() []string {
	return append([]string(nil), names[:]...)
}

func (p Platform) String() string {
	if p < 0 || int(p) >= len(names) {
		return fmt.Sprintf("platform(%d)", int(p))
	}
	return names[p]
}

// Parse returns the Platform named by s, ignoring case and surrounding whitespace
func Parse(s string) (Platform, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == name {
			return Platform(i), nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidPlatform, "%q (valid values are: %s)", s, strings.Join(names[:], ", "))
}

// Value is a repeatable pflag.Value collecting platforms in the order they were given.
// A platform given more than once keeps its first position.
type Value struct {
	platforms []Platform
	set       bool
}

var _ pflag.Value = (*Value)(nil)

// Set parses a single platform name or a comma separated list of them
func (v *Value) Set(s string) error {
	var parsed []Platform
	for _, part := range strings.Split(s, ",") {
		p, err := Parse(part)
		if err != nil {
			return err
		}
		parsed = append(parsed, p)
	}

	for _, p := range parsed {
		if !v.contains(p) {
			v.platforms = append(v.platforms, p)
		}
	}
	v.set = true
	return nil
}

func (v *Value) contains(p Platform) bool {
	for _, existing := range v.platforms {
		if existing == p {
			return true
		}
	}
	return false
}

// Type is the value type name shown in usage output
func (v *Value) Type() string {
	return "platform"
}

func (v *Value) String() string {
	parts := make([]string, 0, len(v.platforms))
	for _, p := range v.platforms {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, ",")
}

// IsSet reports whether Set was called at least once
func (v *Value) IsSet() bool {
	return v.set
}

// Platforms returns a copy of the collected platforms
func (v *Value) Platforms() []Platform {
	return append([]Platform(nil), v.platforms...)
}
