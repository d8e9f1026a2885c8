package common

import (
	"encoding/json"

	"github.com/Masterminds/semver"
)

var (
	ZeroVersion Version = Version{}
)

type Version semver.Version

func NewVersion(s string) (Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, err
	}

	return Version(*v), nil
}

func MustParseVersion(s string) Version {
	v, err := NewVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) String() string {
	p := semver.Version(v)
	return (&p).String()
}

func (v Version) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (v *Version) UnmarshalJSON(b []byte) error {
	var n string
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}

	s, err := semver.NewVersion(n)
	if err != nil {
		return err
	}

	*v = Version(*s)

	return nil
}

func (v Version) Equal(b Version) bool {
	a := semver.Version(v)
	c := semver.Version(b)

	return (&a).Equal(&c)
}

// Compatible reports whether b shares the major version of v.
func (v Version) Compatible(b Version) bool {
	a := semver.Version(v)
	c := semver.Version(b)

	return (&a).Major() == (&c).Major()
}
