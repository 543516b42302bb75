// Package version carries build-time version metadata for the CLI.
package version

import (
	"fmt"
	"runtime"
)

// Set via -ldflags at release build time.
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Info is a snapshot of the build metadata plus the runtime platform.
type Info struct {
	Version   string
	BuildDate string
	GitCommit string
	GoVersion string
	Platform  string
}

func Get() Info {
	return Info{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("schemaforge %s (%s %s)", i.Version, i.Platform, i.GoVersion)
}

// FullString is the multi-line form printed by "version --full".
func (i Info) FullString() string {
	return fmt.Sprintf(`schemaforge %s
Build Date: %s
Git Commit: %s
Platform:   %s
Go Version: %s`, i.Version, i.BuildDate, i.GitCommit, i.Platform, i.GoVersion)
}
