package scan

import (
	"context"
	"os"
	"os/exec"

	"launchpad/internal/registry"
	"launchpad/pkg/types"

	"gopkg.in/yaml.v3"
)

// manifestNames are the file names recognized as action manifests.
var manifestNames = map[string]bool{
	"actions.yaml": true,
	"actions.yml":  true,
}

// Manifest declares the script actions of one folder. A folder may carry at
// most one manifest; broken manifests are skipped without aborting the scan.
type Manifest struct {
	Actions []ManifestAction `yaml:"actions"`
}

// ManifestAction is one declared script action.
type ManifestAction struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Command     string   `yaml:"command"`
	Args        []string `yaml:"args"`
	Workdir     string   `yaml:"workdir"`
	// Requires lists paths that must exist for the action to be active.
	Requires []string `yaml:"requires"`
	// Active gates the action statically; nil means active.
	Active *bool `yaml:"active"`
}

func parseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// descriptor converts a manifest entry into a Descriptor rooted at the
// manifest's folder. The callback runs the declared command with its output
// streamed into the content region.
func (a ManifestAction) descriptor(path types.ActionPath, dir string) types.Descriptor {
	d := types.Descriptor{
		Path:        path,
		Name:        a.Name,
		Description: a.Description,
		Callback:    a.callback(dir),
	}

	switch {
	case a.Active != nil && !*a.Active:
		d.Active = func() bool { return false }
	case len(a.Requires) > 0:
		d.Active = registry.AllExist(a.Requires...)
	}

	return d
}

func (a ManifestAction) callback(dir string) types.Callback {
	workdir := dir
	if a.Workdir != "" {
		workdir = a.Workdir
	}
	command := a.Command
	args := append([]string(nil), a.Args...)

	return func(ctx context.Context, region types.ContentRegion) error {
		cmd := exec.CommandContext(ctx, command, args...)
		cmd.Dir = workdir
		cmd.Stdout = region
		cmd.Stderr = region
		cmd.Stdin = nil
		return cmd.Run()
	}
}

// validate rejects entries the viewer could not present or invoke.
func (a ManifestAction) validate() error {
	if a.Name == "" {
		return errMissingName
	}
	if a.Command == "" {
		return errMissingCommand
	}
	if a.Workdir != "" {
		if info, err := os.Stat(a.Workdir); err != nil || !info.IsDir() {
			return errBadWorkdir
		}
	}
	return nil
}
