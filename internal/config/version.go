package config

import "fmt"

// the build infrastructure overwrites these via ldflags
var (
	version = "0.1.0"
	commit  = "dev"
)

// Version describes the build of this binary.
type Version struct {
	Version string
	Commit  string
}

func NewVersion() *Version {
	return &Version{
		Version: version,
		Commit:  commit,
	}
}

func (v *Version) String() string {
	return fmt.Sprintf("go_tilefetch %s (%s)", v.Version, v.Commit)
}

// UserAgent is the User-Agent header value for outgoing requests.
func (v *Version) UserAgent() string {
	return fmt.Sprintf("go_tilefetch/%s", v.Version)
}
