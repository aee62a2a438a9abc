package targetdep

import (
	"fmt"

	"github.com/goplus/targetdep/internal/env"
	"github.com/goplus/targetdep/pkgs/depfile"
)

// ConfigError reports a missing or invalid configuration value.
type ConfigError = env.ConfigError

// MalformedError reports a dependency file that could not be parsed.
type MalformedError = depfile.MalformedError

// BuildError reports a cargo invocation that failed to start or exited
// with a non-zero status.
type BuildError struct {
	Manifest string
	Err      error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("error building target dep %s: %v", e.Manifest, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// DiscoveryError reports that no dependency file was found in Dir.
type DiscoveryError struct {
	Dir string
	Err error // set when Dir could not be listed
}

func (e *DiscoveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("no dependency files in %s: %v", e.Dir, e.Err)
	}
	return fmt.Sprintf("no dependency files matching %s in %s", depPattern, e.Dir)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// IOError reports a failed filesystem operation on the artifact.
type IOError struct {
	Op  string // "mkdir", "rename" or "announce"
	Src string // empty for mkdir and announce
	Dst string
	Err error
}

func (e *IOError) Error() string {
	switch e.Op {
	case "rename":
		return fmt.Sprintf("failed to move output %s to %s: %v", e.Src, e.Dst, e.Err)
	case "announce":
		return fmt.Sprintf("failed to announce %s: %v", e.Dst, e.Err)
	}
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Dst, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
