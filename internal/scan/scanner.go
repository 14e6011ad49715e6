// Package scan discovers the action tree. It walks the action root for
// manifest-declared script actions and info.md folder descriptions, merges in
// the programmatically registered actions, and synthesizes folder descriptors
// for every intermediate path so the whole hierarchy is navigable.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	apperrors "launchpad/internal/errors"
	"launchpad/internal/log"
	"launchpad/internal/registry"
	"launchpad/pkg/types"

	"github.com/gobwas/glob"
)

// infoFile is the sidecar documentation file read as a folder's description.
const infoFile = "info.md"

// folderPlaceholder is used when a folder has no info.md.
const folderPlaceholder = "Folder (no info.md)"

var (
	errMissingName    = apperrors.New("action has no name")
	errMissingCommand = apperrors.New("action has no command")
	errBadWorkdir     = apperrors.New("workdir does not exist")
)

// Scanner walks a root folder and produces the flat descriptor list the
// runner assembles into a tree. The returned order is unspecified.
type Scanner struct {
	root     string
	registry *registry.Registry
	ignore   []glob.Glob
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithRegistry merges the given registry's actions into the scan result.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Scanner) {
		s.registry = reg
	}
}

// WithIgnore excludes paths (relative to the root, '/'-separated) matching
// any of the given glob patterns. Invalid patterns are logged and skipped.
func WithIgnore(patterns []string) Option {
	return func(s *Scanner) {
		for _, pattern := range patterns {
			g, err := glob.Compile(pattern, '/')
			if err != nil {
				log.Warn("invalid ignore pattern %q: %v", pattern, err)
				continue
			}
			s.ignore = append(s.ignore, g)
		}
	}
}

// New creates a Scanner for the given action root folder.
func New(root string, opts ...Option) *Scanner {
	s := &Scanner{root: root}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks the root and returns every discovered descriptor: manifest
// actions, registered actions, and synthesized folder nodes. A broken
// manifest never aborts the scan; it is logged and its actions are absent.
// A missing root yields only the registered actions.
func (s *Scanner) Scan() ([]types.Descriptor, error) {
	var descriptors []types.Descriptor

	// Original relative folder paths by normalized form, for sidecar lookup
	// and collision detection across case/separator variants.
	folders := map[string]string{}

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn("scan: cannot read %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if s.ignored(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !manifestNames[d.Name()] {
			return nil
		}

		relDir := filepath.ToSlash(filepath.Dir(rel))
		if relDir == "." {
			relDir = ""
		}

		actions, scanErr := s.loadManifest(path, relDir)
		if scanErr != nil {
			// Partial-failure tolerance: log and move on.
			log.Error("scan: %v", scanErr)
			return nil
		}

		for _, action := range actions {
			s.recordFolder(folders, relDir, action.Path)
		}
		descriptors = append(descriptors, actions...)
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, apperrors.Wrapf(err, "scanning %s", s.root)
	}

	if s.registry != nil {
		for _, action := range s.registry.All() {
			s.recordFolder(folders, "", action.Path)
			descriptors = append(descriptors, action)
		}
	}

	descriptors = append(descriptors, s.folderDescriptors(folders)...)
	return descriptors, nil
}

func (s *Scanner) ignored(rel string) bool {
	if rel == "." {
		return false
	}
	for _, g := range s.ignore {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// loadManifest reads one manifest file and converts its entries. Invalid
// entries are skipped individually so one bad action does not hide its
// healthy siblings.
func (s *Scanner) loadManifest(path, relDir string) ([]types.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewScanError("cannot read manifest", path, apperrors.ManifestUnreadable, err)
	}

	manifest, err := parseManifest(data)
	if err != nil {
		return nil, apperrors.NewScanError("cannot parse manifest", path, apperrors.ManifestInvalid, err)
	}

	actionPath := types.NormalizePath(relDir)
	dir := filepath.Dir(path)

	var descriptors []types.Descriptor
	for _, action := range manifest.Actions {
		if err := action.validate(); err != nil {
			log.Warn("scan: skipping action %q in %s: %v", action.Name, path, err)
			continue
		}
		descriptors = append(descriptors, action.descriptor(actionPath, dir))
	}
	return descriptors, nil
}

// recordFolder remembers every proper prefix of an action path, keeping the
// original on-disk spelling when known so sidecars can be located. A clash of
// two different spellings on one normalized prefix is a known risk of
// normalization; the first spelling wins and the clash is logged.
func (s *Scanner) recordFolder(folders map[string]string, relDir string, path types.ActionPath) {
	origParts := strings.Split(relDir, "/")

	prefix := types.Root
	for i := 0; i < path.Depth(); i++ {
		segment := segmentAt(path, i)
		prefix = prefix.Child(segment)

		orig := ""
		if relDir != "" && i < len(origParts) {
			orig = strings.Join(origParts[:i+1], "/")
		}

		key := prefix.String()
		if existing, ok := folders[key]; ok {
			if orig != "" && existing != "" && existing != orig {
				log.Warn("scan: folders %q and %q collide at %q; keeping %q",
					existing, orig, key, existing)
			}
			if existing == "" && orig != "" {
				folders[key] = orig
			}
			continue
		}
		folders[key] = orig
	}
}

func segmentAt(p types.ActionPath, i int) string {
	parts := strings.Split(p.String(), "/")
	return parts[i]
}

// folderDescriptors synthesizes a folder node per recorded prefix, reading
// the info.md sidecar when the folder exists on disk.
func (s *Scanner) folderDescriptors(folders map[string]string) []types.Descriptor {
	var descriptors []types.Descriptor
	for key, orig := range folders {
		path := types.NormalizePath(key)

		lookup := orig
		if lookup == "" {
			// Registered actions carry no on-disk spelling; try the
			// normalized path as-is.
			lookup = key
		}
		description := folderPlaceholder
		if text, ok := s.readInfo(lookup); ok {
			description = text
		}

		descriptors = append(descriptors, types.Descriptor{
			Path:        path.Parent(),
			Name:        path.Name(),
			Description: description,
		})
	}
	return descriptors
}

func (s *Scanner) readInfo(relDir string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(relDir), infoFile))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}
