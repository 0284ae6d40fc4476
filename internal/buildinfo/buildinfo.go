// Package buildinfo carries version data set with
// -ldflags "-X wmsplan/internal/buildinfo.Version=...".
package buildinfo

import (
    "fmt"
    "runtime/debug"
)

var (
    Version = "dev"
    Commit  = ""
    BuiltAt = ""
)

// Info returns the build data. Commit and BuiltAt fall back to the VCS stamp
// the Go toolchain embeds when they were not set at link time.
func Info() map[string]string {
    commit, built := Commit, BuiltAt
    if commit == "" || built == "" {
        if bi, ok := debug.ReadBuildInfo(); ok {
            for _, s := range bi.Settings {
                switch {
                case s.Key == "vcs.revision" && commit == "":
                    commit = s.Value
                case s.Key == "vcs.time" && built == "":
                    built = s.Value
                }
            }
        }
    }
    return map[string]string{
        "version": Version,
        "commit":  commit,
        "builtAt": built,
    }
}

// String formats Info on one line, e.g. "dev (abc123) built 2024-01-01T00:00:00Z".
func String() string {
    info := Info()
    s := info["version"]
    if c := info["commit"]; c != "" {
        if len(c) > 12 { c = c[:12] }
        s += fmt.Sprintf(" (%s)", c)
    }
    if b := info["builtAt"]; b != "" {
        s += " built " + b
    }
    return s
}
