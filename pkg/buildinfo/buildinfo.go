// Package buildinfo reports the binary's version from the build
// metadata the Go toolchain embeds for VCS checkouts.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

type Info struct {
	Version  string
	Commit   string
	GoVer    string
	Modified bool
}

var (
	once   sync.Once
	cached Info
)

func Get() Info {
	once.Do(func() { cached = resolve() })
	return cached
}

// String renders the info the way `mygrate version` prints it.
func (i Info) String() string {
	commit := i.Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if i.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (%s, %s)", i.Version, commit, i.GoVer)
}

func resolve() Info {
	info := Info{Version: "dev", Commit: "unknown"}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVer = bi.GoVersion
	if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}
