package cmd

import (
	"launchpad/internal/actions"
	"launchpad/internal/config"
	apperrors "launchpad/internal/errors"
	"launchpad/internal/log"
	"launchpad/internal/paths"
	"launchpad/internal/registry"
	"launchpad/internal/scan"
	"launchpad/internal/tui"
	"launchpad/internal/watch"
	"launchpad/pkg/types"
)

// buildScanner wires the path resolver, built-in registrations, and the
// tree scanner from the loaded config. It fails when required locations
// are unreachable so the viewer never opens over a broken setup.
func buildScanner(cfg *config.Config) (*scan.Scanner, *paths.Resolver, error) {
	resolver := paths.Resolve(cfg)
	if err := resolver.Check(); err != nil {
		return nil, nil, err
	}

	actions.RegisterBuiltins(resolver)
	scanner := scan.New(cfg.Actions.Root,
		scan.WithRegistry(registry.Default()),
		scan.WithIgnore(cfg.Actions.Ignore),
	)
	return scanner, resolver, nil
}

// browse scans the tree and runs the interactive viewer. Errors propagate
// to Execute so deferred cleanup and PersistentPostRun still run.
func browse() error {
	tui.ApplyTheme(cfg)
	scanner, _, err := buildScanner(cfg)
	if err != nil {
		return err
	}

	descriptors, err := scanner.Scan()
	if err != nil {
		return err
	}

	opts := []tui.Option{
		tui.WithRescan(func() ([]types.Descriptor, error) {
			descs, err := scanner.Scan()
			if err != nil {
				return nil, err
			}
			return tui.Assemble(descs), nil
		}),
	}

	watcher, err := watch.New(cfg.Actions.Root)
	if err != nil {
		log.Warn("live rescan disabled: %v", err)
	} else if err := watcher.Start(); err != nil {
		log.Warn("live rescan disabled: %v", err)
	} else {
		defer watcher.Stop()
		opts = append(opts, tui.WithWatcher(watcher))
	}

	if code := tui.Start(cfg.Title, descriptors, opts...); code != 0 {
		return apperrors.New("viewer terminated abnormally")
	}
	return nil
}
