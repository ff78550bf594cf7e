// Package version exposes build metadata for binaries of this module.
//
// Values set via ldflags:
//
//	go build -ldflags "-X go.jacobcolvin.com/mlx/version.Version=v1.2.3"
package version

import (
	"runtime"
	"runtime/debug"

	"go.jacobcolvin.com/mlx/pretty"
)

var (
	// Version is the application version, set via ldflags.
	Version string
	// Branch is the git branch, set via ldflags.
	Branch string
	// BuildUser is the user who built the binary, set via ldflags.
	BuildUser string
	// BuildDate is when the binary was built, set via ldflags.
	BuildDate string
)

// Info is a snapshot of the build metadata.
type Info struct {
	Version   string
	Revision  string
	Branch    string
	BuildUser string
	BuildDate string
	GoVersion string
	GoOS      string
	GoArch    string
}

// Get returns the build metadata of the running binary. Version falls back
// to the main module version recorded by the Go toolchain, then to "dev".
func Get() Info {
	info := Info{
		Version:   Version,
		Branch:    Branch,
		BuildUser: BuildUser,
		BuildDate: BuildDate,
		Revision:  "unknown",
		GoVersion: runtime.Version(),
		GoOS:      runtime.GOOS,
		GoArch:    runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if ok {
		info.Revision = revision(bi.Settings)

		if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
	}

	if info.Version == "" {
		info.Version = "dev"
	}

	return info
}

// Fields renders i as a mapping, omitting empty values.
func (i Info) Fields() pretty.Map {
	m := pretty.Map{}

	for _, kv := range []struct{ k, v string }{
		{"version", i.Version},
		{"revision", i.Revision},
		{"branch", i.Branch},
		{"build_user", i.BuildUser},
		{"build_date", i.BuildDate},
		{"go", i.GoVersion},
		{"platform", i.GoOS + "/" + i.GoArch},
	} {
		if kv.v != "" {
			m = m.Set(kv.k, kv.v)
		}
	}

	return m
}

// revision returns the VCS revision in settings, suffixed with "-dirty"
// for modified trees.
func revision(settings []debug.BuildSetting) string {
	rev := "unknown"
	modified := false

	for _, v := range settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value
		case "vcs.modified":
			modified = v.Value == "true"
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
