// Package version carries build identification, injected via ldflags.
package version

import "fmt"

var (
	version   = "v0.0.0-devel"
	gitCommit = ""
)

type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit,omitempty"`
}

func Get() Info {
	return Info{Version: version, GitCommit: gitCommit}
}

func (i Info) String() string {
	if i.GitCommit != "" {
		return fmt.Sprintf("%s (%s)", i.Version, i.GitCommit)
	}
	return i.Version
}
