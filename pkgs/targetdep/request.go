// Package targetdep builds a cargo package as a dependency of a parent build
// and moves its output to where the parent build expects it.
//
// A Request is configured with chained calls and then handed to Build:
//
//	req := targetdep.New("../wasm-module", "assets/module.wasm").
//		Release().
//		WithTarget("wasm32-wasip1")
//	outcomes, err := targetdep.Build(cfg, req, targetdep.Options{})
//
// Build runs cargo with an isolated --target-dir, reads the dependency files
// cargo writes next to the output, renames the output into place and prints
// a cargo:rerun-if-changed line for every source the output depends on.
package targetdep

import (
	"fmt"
	"maps"
	"path/filepath"
	"strings"

	"github.com/goplus/targetdep/internal/env"
)

// Profile names understood by cargo out of the box.
const (
	Debug   = "debug"
	Release = "release"
)

// Mode tells how the Output of a Request is interpreted.
type Mode int

const (
	// File places the artifact at exactly Output.
	File Mode = iota
	// Dir places the artifact under the Output directory, keeping its file name.
	Dir
)

func (m Mode) String() string {
	if m == Dir {
		return "dir"
	}
	return "file"
}

// Request describes one sub-project build.
//
// Request is a value: every With method returns a modified copy and leaves
// the receiver untouched.
type Request struct {
	Manifest string            // path to the sub-project's Cargo.toml
	Output   string            // destination file, or directory in Dir mode
	Profile  string            // cargo profile; empty means Debug
	Target   string            // cross-compile target triple, optional
	Name     string            // isolated dir name; derived from Output if empty
	Mode     Mode              // how Output is interpreted
	Env      map[string]string // extra environment for cargo
}

// New returns a Request building the package rooted at packageRoot and
// placing its output at output.
func New(packageRoot, output string) Request {
	return Request{
		Manifest: filepath.Join(packageRoot, "Cargo.toml"),
		Output:   output,
	}
}

// Release selects the release profile.
func (r Request) Release() Request {
	r.Profile = Release
	return r
}

// WithProfile selects a named cargo profile.
func (r Request) WithProfile(name string) Request {
	r.Profile = name
	return r
}

// WithTarget cross-compiles for the given target triple.
func (r Request) WithTarget(triple string) Request {
	r.Target = triple
	return r
}

// WithName uses name for the isolated target dir instead of deriving it
// from Output.
func (r Request) WithName(name string) Request {
	r.Name = name
	return r
}

// IntoDir treats Output as a directory the artifact is placed in.
func (r Request) IntoDir() Request {
	r.Mode = Dir
	return r
}

// WithEnv sets an environment variable for the cargo invocation.
func (r Request) WithEnv(key, value string) Request {
	env := maps.Clone(r.Env)
	if env == nil {
		env = make(map[string]string)
	}
	env[key] = value
	r.Env = env
	return r
}

// ProfileName returns the effective profile.
func (r Request) ProfileName() string {
	if r.Profile == "" {
		return Debug
	}
	return r.Profile
}

// Resolve validates r and makes its paths absolute. Relative paths are taken
// relative to the parent package root when known.
func (r Request) Resolve(cfg *env.Config) (Request, error) {
	if r.Manifest == "" {
		return r, &ConfigError{Key: "manifest", Reason: "empty manifest path"}
	}
	if r.Output == "" {
		return r, &ConfigError{Key: "output", Reason: "empty output path"}
	}
	var err error
	if r.Manifest, err = absPath(cfg, r.Manifest); err != nil {
		return r, err
	}
	if r.Output, err = absPath(cfg, r.Output); err != nil {
		return r, err
	}
	if err := checkName(r.Name); err != nil {
		return r, err
	}
	r.Profile = r.ProfileName()
	return r, nil
}

// checkName makes sure an explicit dir name stays a single path element
// under the target-deps dir.
func checkName(name string) error {
	if name == "" {
		return nil
	}
	switch {
	case name == "." || name == "..":
		return &ConfigError{Key: "name", Reason: fmt.Sprintf("%q is not a directory name", name)}
	case filepath.IsAbs(name) || filepath.VolumeName(name) != "":
		return &ConfigError{Key: "name", Reason: fmt.Sprintf("%q is absolute", name)}
	case strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator):
		return &ConfigError{Key: "name", Reason: fmt.Sprintf("%q contains a path separator", name)}
	}
	return nil
}

func absPath(cfg *env.Config, p string) (string, error) {
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	if cfg != nil && cfg.ManifestDir != "" {
		return filepath.Join(cfg.ManifestDir, p), nil
	}
	return filepath.Abs(p)
}

// DirName returns the isolated target dir name for r: Name when set, else
// Output with every path separator replaced by "__". The ':' of a drive
// letter is dropped.
func (r Request) DirName() string {
	if r.Name != "" {
		return r.Name
	}
	vol := filepath.VolumeName(r.Output)
	p := strings.TrimSuffix(vol, ":") + r.Output[len(vol):]
	return strings.ReplaceAll(filepath.ToSlash(p), "/", "__")
}

// IsolatedDir returns the private cargo --target-dir for r.
func IsolatedDir(cfg *env.Config, r Request) string {
	return filepath.Join(cfg.TargetDepsDir(), r.DirName())
}
