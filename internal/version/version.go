// Package version reports the pageloader build.
package version

import "runtime/debug"

// Release metadata, stamped with -ldflags "-X git.home.luguber.info/inful/pageloader/internal/version.Version=v1.2.3".
var (
	Version   = "unknown"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// resolved fills unstamped fields from the module build info that go install records.
func resolved() (ver, commit, built string) {
	ver, commit, built = Version, GitCommit, BuildTime
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ver, commit, built
	}
	if ver == "unknown" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		ver = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && commit == "unknown":
			commit = s.Value
		case s.Key == "vcs.time" && built == "unknown":
			built = s.Value
		}
	}
	return ver, commit, built
}

// String renders the version line printed by the CLI.
func String() string {
	ver, commit, built := resolved()
	return "pageloader " + ver + " (commit " + commit + ", built " + built + ")"
}
