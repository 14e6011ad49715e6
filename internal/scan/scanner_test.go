package scan

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"launchpad/internal/registry"
	"launchpad/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root string, rel string, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

const goodManifest = `
actions:
  - name: Say hello
    description: Prints a greeting.
    command: echo
    args: ["hello"]
`

func findByKey(descs []types.Descriptor, key string) (types.Descriptor, bool) {
	for _, d := range descs {
		if d.Key() == key {
			return d, true
		}
	}
	return types.Descriptor{}, false
}

func TestScanManifests(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Office/Obsidian/actions.yaml", goodManifest)
	writeFile(t, root, "Office/info.md", "Office tooling.\n")

	descs, err := New(root).Scan()
	require.NoError(t, err)

	action, ok := findByKey(descs, "office/obsidian/say hello")
	require.True(t, ok, "manifest action should be discovered")
	assert.Equal(t, "office/obsidian", action.Path.String())
	assert.Equal(t, "Prints a greeting.", action.Description)
	assert.False(t, action.IsFolder())
	assert.True(t, action.IsActive())

	// Every intermediate folder is synthesized, with sidecar descriptions
	// where present and a placeholder otherwise.
	office, ok := findByKey(descs, "office")
	require.True(t, ok)
	assert.True(t, office.IsFolder())
	assert.Equal(t, "Office tooling.", office.Description)

	obsidian, ok := findByKey(descs, "office/obsidian")
	require.True(t, ok)
	assert.True(t, obsidian.IsFolder())
	assert.Equal(t, folderPlaceholder, obsidian.Description)
}

func TestScanPartialFailure(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/actions.yaml", goodManifest)
	writeFile(t, root, "b/actions.yaml", "actions: [\n  broken yaml")
	writeFile(t, root, "c/actions.yaml", strings.ReplaceAll(goodManifest, "Say hello", "Say bye"))

	descs, err := New(root).Scan()
	require.NoError(t, err, "a broken manifest must not abort the scan")

	_, okA := findByKey(descs, "a/say hello")
	_, okC := findByKey(descs, "c/say bye")
	assert.True(t, okA)
	assert.True(t, okC)

	for _, d := range descs {
		assert.NotEqual(t, "b", d.Path.String(), "broken manifest must contribute no actions")
	}
	// The folder of the broken manifest holds no actions at all.
	_, okB := findByKey(descs, "b")
	assert.False(t, okB)
}

func TestScanInvalidEntriesSkippedIndividually(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "tools/actions.yaml", `
actions:
  - name: ""
    command: echo
  - name: No command
  - name: Works
    command: echo
`)

	descs, err := New(root).Scan()
	require.NoError(t, err)

	_, ok := findByKey(descs, "tools/works")
	assert.True(t, ok)

	count := 0
	for _, d := range descs {
		if !d.IsFolder() {
			count++
		}
	}
	assert.Equal(t, 1, count, "invalid entries are dropped, valid siblings survive")
}

func TestScanActivation(t *testing.T) {
	root := t.TempDir()
	probe := filepath.Join(root, "probe")
	writeFile(t, root, "gated/actions.yaml", `
actions:
  - name: Needs probe
    command: echo
    requires: ["`+probe+`"]
  - name: Disabled
    command: echo
    active: false
`)

	descs, err := New(root).Scan()
	require.NoError(t, err)

	gated, ok := findByKey(descs, "gated/needs probe")
	require.True(t, ok)
	assert.False(t, gated.IsActive())

	// Activation is evaluated live: creating the path flips the result
	// without a rescan.
	require.NoError(t, os.Mkdir(probe, 0755))
	assert.True(t, gated.IsActive())

	disabled, ok := findByKey(descs, "gated/disabled")
	require.True(t, ok)
	assert.False(t, disabled.IsActive())
}

func TestScanIgnorePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "testing/examples/actions.yaml", goodManifest)
	writeFile(t, root, "real/actions.yaml", goodManifest)

	descs, err := New(root, WithIgnore([]string{"testing/**"})).Scan()
	require.NoError(t, err)

	_, okReal := findByKey(descs, "real/say hello")
	assert.True(t, okReal)
	for _, d := range descs {
		assert.False(t, strings.HasPrefix(d.Key(), "testing"), "ignored subtree leaked: %s", d.Key())
	}
}

func TestScanMergesRegistry(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "office/actions.yaml", goodManifest)

	reg := &registry.Registry{}
	reg.Register(registry.New("Project", "New project",
		func(ctx context.Context, region types.ContentRegion) error { return nil },
		registry.WithDescription("Creates the standard folder tree."),
	))

	descs, err := New(root, WithRegistry(reg)).Scan()
	require.NoError(t, err)

	action, ok := findByKey(descs, "project/new project")
	require.True(t, ok)
	assert.Equal(t, "Creates the standard folder tree.", action.Description)

	// The registered action's folder is synthesized too.
	folder, ok := findByKey(descs, "project")
	require.True(t, ok)
	assert.True(t, folder.IsFolder())
}

func TestScanMissingRoot(t *testing.T) {
	reg := &registry.Registry{}
	reg.Register(registry.New("a", "x",
		func(ctx context.Context, region types.ContentRegion) error { return nil }))

	descs, err := New(filepath.Join(t.TempDir(), "missing"), WithRegistry(reg)).Scan()
	require.NoError(t, err)
	_, ok := findByKey(descs, "a/x")
	assert.True(t, ok, "registered actions survive a missing root")
}

func TestScanCollisionKeepsFirst(t *testing.T) {
	root := t.TempDir()
	// Two spellings that normalize to the same folder path.
	writeFile(t, root, "Tools/actions.yaml", goodManifest)
	writeFile(t, root, "tools/actions.yml", strings.ReplaceAll(goodManifest, "Say hello", "Other"))

	descs, err := New(root).Scan()
	require.NoError(t, err)

	// Exactly one folder descriptor for the normalized path.
	count := 0
	for _, d := range descs {
		if d.IsFolder() && d.Key() == "tools" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
