package version

import (
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/susu753/apexub/errors"
)

// Version is a game build identifier such as "v3.0.75.30".
// The zero Version means "no recorded version".
type Version struct {
	v   *goversion.Version
	raw string
}

// Parse parses a game build identifier.
// An empty string yields the zero Version.
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, nil
	}
	v, err := goversion.NewVersion(s)
	if err != nil {
		return Version{}, errors.New(errors.PhaseParse, errors.KindInvalidData).
			Value(s).
			Cause(err).
			Detail("game version %q", s).
			Build()
	}
	return Version{v: v, raw: s}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsZero reports whether no version is recorded.
func (v Version) IsZero() bool {
	return v.v == nil
}

// String returns the version as it was written.
func (v Version) String() string {
	return v.raw
}

// Compare orders versions numerically by segment.
// The zero Version sorts before every recorded version.
func (v Version) Compare(o Version) int {
	switch {
	case v.v == nil && o.v == nil:
		return 0
	case v.v == nil:
		return -1
	case o.v == nil:
		return 1
	}
	return v.v.Compare(o.v)
}

// Equal reports whether both versions name the same build.
// "v3.0.75.30" and "3.0.75.30" are equal.
func (v Version) Equal(o Version) bool {
	return v.Compare(o) == 0
}

// Before reports whether v is an earlier build than o.
// Neither side may be zero.
func (v Version) Before(o Version) bool {
	return v.v != nil && o.v != nil && v.v.LessThan(o.v)
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.raw), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(b []byte) error {
	p, err := Parse(string(b))
	if err != nil {
		return err
	}
	*v = p
	return nil
}
