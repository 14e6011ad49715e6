// Package actions registers the built-in actions that ship with the
// binary. Script actions discovered from the action tree live next to
// these in the same menu.
package actions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"launchpad/internal/bulkio"
	apperrors "launchpad/internal/errors"
	"launchpad/internal/paths"
	"launchpad/internal/registry"
	"launchpad/pkg/types"
)

// RegisterBuiltins adds the built-in actions to the default registry.
// Path-dependent actions activate only when their source locations are
// reachable through the resolver.
func RegisterBuiltins(resolver *paths.Resolver) {
	templates, hasTemplates := resolver.Get("templates")
	projects, hasProjects := resolver.Get("projects")

	registry.Register(
		registry.New("project", "New Project", newProject(templates, projects),
			registry.WithDescription("Create a project folder from a template.\nAsks for the template and target name."),
			registry.ActivateIf(func() bool {
				return hasTemplates && hasProjects && exists(templates)
			}),
		),
		registry.New("", "Show Paths", showPaths(resolver),
			registry.WithDescription("List the resolved data locations."),
		),
	)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// newProject copies a template directory into the projects location
// under a name chosen interactively.
func newProject(templates, projects string) types.Callback {
	return func(ctx context.Context, region types.ContentRegion) error {
		entries, err := os.ReadDir(templates)
		if err != nil {
			return apperrors.Wrapf(err, "reading templates in %s", templates)
		}
		var available []string
		for _, e := range entries {
			if e.IsDir() {
				available = append(available, e.Name())
			}
		}
		if len(available) == 0 {
			return apperrors.Newf("no templates found in %s", templates)
		}
		region.Printf("Available templates: %s", strings.Join(available, ", "))

		template, err := region.Prompt(ctx, "Template?")
		if err != nil {
			return err
		}
		src := filepath.Join(templates, template)
		if !exists(src) {
			return apperrors.Newf("no such template: %s", template)
		}

		name, err := region.Prompt(ctx, "Project name?")
		if err != nil {
			return err
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return apperrors.New("project name must not be empty")
		}
		dst := filepath.Join(projects, name)
		if exists(dst) {
			overwrite, err := region.Confirm(ctx, fmt.Sprintf("%s already exists, continue anyway?", dst))
			if err != nil {
				return err
			}
			if !overwrite {
				region.Println("aborted")
				return nil
			}
		}

		engine := bulkio.New()
		engine.OnProgress(func(done, total int64, label string) {
			region.Printf("  %s", label)
		})
		report, err := engine.CopyDir(ctx, src, dst)
		if err != nil {
			return err
		}
		region.Println(report.String())
		for _, f := range report.Failures {
			region.Printf("  failed: %s: %s", f.Path, f.Reason)
		}
		if !report.OK() {
			return apperrors.Newf("%d files could not be copied", len(report.Failures))
		}
		region.Printf("created %s", dst)
		return nil
	}
}

// showPaths prints every resolved location and whether it is reachable.
func showPaths(resolver *paths.Resolver) types.Callback {
	return func(ctx context.Context, region types.ContentRegion) error {
		all := resolver.All()
		if len(all) == 0 {
			region.Println("no paths configured")
			return nil
		}
		for name, path := range all {
			state := "ok"
			if !exists(path) {
				state = "unreachable"
			}
			region.Printf("%-20s %s (%s)", name, path, state)
		}
		return nil
	}
}
