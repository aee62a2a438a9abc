// Package plan reads YAML files listing several target deps to build in
// order.
//
//	deps:
//	  - package: ../wasm-module
//	    output: assets
//	    into_dir: true
//	    profile: release
//	    target: wasm32-wasip1
package plan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goplus/targetdep/pkgs/targetdep"
)

// Entry describes one target dep.
type Entry struct {
	Package  string            `yaml:"package"`  // package root containing Cargo.toml
	Manifest string            `yaml:"manifest"` // explicit manifest path, overrides Package
	Output   string            `yaml:"output"`
	IntoDir  bool              `yaml:"into_dir"`
	Profile  string            `yaml:"profile"`
	Target   string            `yaml:"target"`
	Name     string            `yaml:"name"`
	Env      map[string]string `yaml:"env"`
}

// Plan is an ordered list of target deps.
type Plan struct {
	Deps []Entry `yaml:"deps"`
}

// Parse reads a plan from data, or from file when data is nil.
func Parse(file string, data []byte) (*Plan, error) {
	var reader io.Reader
	if data != nil {
		reader = bytes.NewReader(data)
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		reader = f
	}

	var p Plan
	dec := yaml.NewDecoder(reader)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse plan %s: %w", file, err)
	}
	for i, e := range p.Deps {
		if e.Package == "" && e.Manifest == "" {
			return nil, fmt.Errorf("plan %s: dep %d: package or manifest is required", file, i)
		}
		if e.Output == "" {
			return nil, fmt.Errorf("plan %s: dep %d: output is required", file, i)
		}
	}
	return &p, nil
}

// Request converts e into a targetdep request.
func (e Entry) Request() targetdep.Request {
	req := targetdep.New(e.Package, e.Output)
	if e.Manifest != "" {
		req.Manifest = e.Manifest
	}
	if e.IntoDir {
		req = req.IntoDir()
	}
	if e.Profile != "" {
		req = req.WithProfile(e.Profile)
	}
	if e.Target != "" {
		req = req.WithTarget(e.Target)
	}
	if e.Name != "" {
		req = req.WithName(e.Name)
	}
	for k, v := range e.Env {
		req = req.WithEnv(k, v)
	}
	return req
}
