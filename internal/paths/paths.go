// Package paths resolves the logical external paths the actions depend on
// (template folders, network shares) and validates them at startup. The
// resolved map is built once and injected into whoever needs it; nothing here
// mutates shared state afterwards.
package paths

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"launchpad/internal/config"
	apperrors "launchpad/internal/errors"
	"launchpad/internal/log"
)

// Resolver holds the immutable logical-name to path map for one process run.
type Resolver struct {
	resolved map[string]string
	contact  string
}

// Resolve builds a Resolver from the configured required paths. When the
// configured paths are unreachable and fallback roots are configured, every
// candidate root is probed for the marker directory; the first root carrying
// it has all paths remapped onto it.
func Resolve(cfg *config.Config) *Resolver {
	resolved := make(map[string]string, len(cfg.Paths.Required))
	for name, path := range cfg.Paths.Required {
		resolved[name] = path
	}

	if needsFallback(resolved) {
		if root, ok := findFallbackRoot(cfg.Paths.Fallback.Marker, cfg.Paths.Fallback.Roots); ok {
			log.Info("remapping required paths onto %s", root)
			for name, path := range resolved {
				resolved[name] = remap(path, root)
			}
		}
	}

	return &Resolver{resolved: resolved, contact: cfg.Settings.Support}
}

// needsFallback reports whether any configured path is unreachable.
func needsFallback(paths map[string]string) bool {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return true
		}
	}
	return false
}

// findFallbackRoot returns the first candidate root containing the marker.
func findFallbackRoot(marker string, roots []string) (string, bool) {
	if marker == "" {
		return "", false
	}
	for _, root := range roots {
		if info, err := os.Stat(filepath.Join(root, marker)); err == nil && info.IsDir() {
			return root, true
		}
	}
	return "", false
}

// remap rebases an absolute path onto the fallback root, keeping everything
// below the original volume root. Drive-letter prefixes are stripped by hand;
// the configured paths use Windows spellings even when the binary runs
// elsewhere.
func remap(path, root string) string {
	rest := strings.ReplaceAll(path, `\`, "/")
	if len(rest) >= 2 && rest[1] == ':' && isDriveLetter(rest[0]) {
		rest = rest[2:]
	}
	rest = strings.TrimLeft(rest, "/")
	return filepath.Join(root, filepath.FromSlash(rest))
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Get returns the resolved path for a logical name.
func (r *Resolver) Get(name string) (string, bool) {
	path, ok := r.resolved[name]
	return path, ok
}

// All returns a copy of the resolved map.
func (r *Resolver) All() map[string]string {
	out := make(map[string]string, len(r.resolved))
	for name, path := range r.resolved {
		out[name] = path
	}
	return out
}

// Check validates every resolved path. It returns a StartupError naming each
// unreachable path and the configured support contact; the caller exits
// nonzero on it, no navigation is offered.
func (r *Resolver) Check() error {
	var missing []string
	for name, path := range r.resolved {
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, name+": "+path)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return apperrors.NewStartupError(missing, r.contact)
}
