package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"

	"github.com/czar-lang/czar/internal/cli"
	"github.com/czar-lang/czar/internal/emitter"
	"github.com/czar-lang/czar/internal/project"
)

// runBuild translates every source listed in the manifest, in order.
// The first failing unit stops the build.
func runBuild(manifestPath string, debug, strict bool) error {
	if manifestPath == "" {
		manifestPath = project.DefaultManifest
	}

	m, err := project.Load(manifestPath)
	if err != nil {
		return err
	}
	if err := m.CheckVersion(cli.Version); err != nil {
		return err
	}

	title := "Translating"
	if m.Name != "" {
		title = fmt.Sprintf("Translating %s", m.Name)
	}
	bar := progressbar.Default(int64(len(m.Sources)), title)

	for _, src := range m.Sources {
		input := m.ResolveInput(src)
		output := m.ResolveOutput(src)

		opts := emitter.Options{
			Filename:        input,
			Debug:           debug || m.Debug,
			ToolVersion:     cli.Version,
			StrictReceivers: strict,
		}
		if err := translateFile(input, output, opts); err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		bar.Add(1)
	}

	fmt.Printf("🔥 Translated %d unit(s)\n", len(m.Sources))
	return nil
}
