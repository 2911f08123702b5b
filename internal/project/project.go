// Package project loads the czar.yaml build manifest used by the
// driver's build mode: a list of translation units with per-project
// defaults, so a multi-file program translates with one command.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	semver "github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// DefaultManifest is the manifest filename looked up when none is given
const DefaultManifest = "czar.yaml"

// Source is one translation unit in the manifest
type Source struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output,omitempty"`
}

// Manifest describes a CZar project
type Manifest struct {
	// Name is informational only
	Name string `yaml:"name,omitempty"`
	// Require constrains the czar version allowed to build the project
	Require string `yaml:"require,omitempty"`
	// Debug compiles sub-INFO log levels into every unit
	Debug bool `yaml:"debug,omitempty"`
	// Sources lists the units to translate, in order
	Sources []Source `yaml:"sources"`

	dir string
}

// Load reads and validates a manifest
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if len(m.Sources) == 0 {
		return nil, fmt.Errorf("%s: no sources listed", filepath.Base(path))
	}
	for i, s := range m.Sources {
		if s.Input == "" {
			return nil, fmt.Errorf("%s: sources[%d] has no input", filepath.Base(path), i)
		}
	}

	m.dir = filepath.Dir(path)
	return &m, nil
}

// CheckVersion verifies toolVersion against the manifest's require
// constraint. A missing constraint always passes.
func (m *Manifest) CheckVersion(toolVersion string) error {
	if m.Require == "" {
		return nil
	}
	c, err := semver.NewConstraint(m.Require)
	if err != nil {
		return fmt.Errorf("invalid require constraint %q: %w", m.Require, err)
	}
	v, err := semver.NewVersion(toolVersion)
	if err != nil {
		return fmt.Errorf("invalid tool version %q: %w", toolVersion, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("czar %s does not satisfy project requirement %q", toolVersion, m.Require)
	}
	return nil
}

// ResolveInput returns the input path of a source, relative to the
// manifest's directory.
func (m *Manifest) ResolveInput(s Source) string {
	return m.resolve(s.Input)
}

// ResolveOutput returns the output path of a source. When the manifest
// leaves it empty, the input path with a .c extension is used.
func (m *Manifest) ResolveOutput(s Source) string {
	if s.Output != "" {
		return m.resolve(s.Output)
	}
	in := s.Input
	ext := filepath.Ext(in)
	if ext != "" {
		in = in[:len(in)-len(ext)]
	}
	return m.resolve(in + ".c")
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) || m.dir == "" {
		return p
	}
	return filepath.Join(m.dir, p)
}
