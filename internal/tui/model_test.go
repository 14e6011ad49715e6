package tui

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "launchpad/internal/errors"
	"launchpad/pkg/types"
)

func folder(path, name string) types.Descriptor {
	return types.Descriptor{Path: types.NormalizePath(path), Name: name}
}

func action(path, name string, cb types.Callback) types.Descriptor {
	if cb == nil {
		cb = func(context.Context, types.ContentRegion) error { return nil }
	}
	return types.Descriptor{Path: types.NormalizePath(path), Name: name, Callback: cb}
}

func fixtureTree() []types.Descriptor {
	return []types.Descriptor{
		folder("", "a"),
		folder("", "c"),
		action("", "top", nil),
		action("a", "inside", nil),
		folder("a", "b"),
		action("a/b", "deep", nil),
		action("c", "other", nil),
	}
}

func visibleNames(m *Model) []string {
	var names []string
	for _, e := range m.visible {
		names = append(names, e.label())
	}
	return names
}

func TestVisibleRowsFollowCurrentLevel(t *testing.T) {
	m := NewModel("test", Assemble(fixtureTree()))

	assert.Equal(t, []string{"a", "c", "top"}, visibleNames(m))

	// Enter folder a.
	m.cursor = 0
	m.selectEntry()
	assert.Equal(t, "home/a", m.currentPath.Display())
	assert.Equal(t, []string{"..", "b", "inside"}, visibleNames(m))

	// Enter a/b.
	m.cursor = 1
	m.selectEntry()
	assert.Equal(t, []string{"..", "deep"}, visibleNames(m))

	// Back row returns to a.
	m.cursor = 0
	m.selectEntry()
	assert.Equal(t, "home/a", m.currentPath.Display())
}

func TestBackAtRootIsNoOp(t *testing.T) {
	m := NewModel("test", Assemble(fixtureTree()))
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.currentPath.IsRoot())
	assert.Equal(t, []string{"a", "c", "top"}, visibleNames(m))
}

func TestHomeJumpsToRoot(t *testing.T) {
	m := NewModel("test", Assemble(fixtureTree()))
	m.currentPath = types.NormalizePath("a/b")
	m.rebuildVisible()

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'H'}})
	assert.True(t, m.currentPath.IsRoot())
}

func TestInactiveSelectionIsNoOp(t *testing.T) {
	called := false
	descs := []types.Descriptor{
		{
			Path:     types.Root,
			Name:     "gated",
			Active:   func() bool { return false },
			Callback: func(context.Context, types.ContentRegion) error { called = true; return nil },
		},
	}
	m := NewModel("test", Assemble(descs))
	m.cursor = 0

	cmd := m.selectEntry()
	assert.Nil(t, cmd)
	assert.False(t, called)
	assert.Equal(t, modeTree, m.mode)
	assert.NotEmpty(t, m.status)
}

func TestCallbackErrorKeepsTreeReachable(t *testing.T) {
	boom := errors.New("boom")
	descs := []types.Descriptor{
		folder("", "a"),
		action("a", "bad", func(context.Context, types.ContentRegion) error { return boom }),
	}
	m := NewModel("test", Assemble(descs))
	m.currentPath = types.NormalizePath("a")
	m.rebuildVisible()
	m.cursor = 1

	cmd := m.selectEntry()
	require.NotNil(t, cmd)
	assert.Equal(t, modeAction, m.mode)
	assert.True(t, m.running)

	done := cmd()
	_, _ = m.Update(done)
	assert.False(t, m.running)
	require.Error(t, m.actionErr)
	assert.Contains(t, m.viewAction(), "boom")

	// esc returns to the level the action was launched from.
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeTree, m.mode)
	assert.Equal(t, "home/a", m.currentPath.Display())
}

func TestCallbackPanicIsIsolated(t *testing.T) {
	descs := []types.Descriptor{
		action("", "explode", func(context.Context, types.ContentRegion) error { panic("kaboom") }),
	}
	m := NewModel("test", Assemble(descs))
	m.cursor = 0

	cmd := m.selectEntry()
	require.NotNil(t, cmd)

	done := cmd()
	_, _ = m.Update(done)
	require.Error(t, m.actionErr)
	var invErr *apperrors.InvocationError
	assert.True(t, apperrors.As(m.actionErr, &invErr))
	assert.Contains(t, m.actionErr.Error(), "kaboom")
}

func TestCancelledActionUnwindsToTree(t *testing.T) {
	descs := []types.Descriptor{
		folder("", "a"),
		action("a", "slow", func(ctx context.Context, _ types.ContentRegion) error {
			<-ctx.Done()
			return ctx.Err()
		}),
	}
	m := NewModel("test", Assemble(descs))
	m.currentPath = types.NormalizePath("a")
	m.rebuildVisible()
	m.cursor = 1

	cmd := m.selectEntry()
	require.NotNil(t, cmd)

	// esc while running cancels the context; the callback then returns.
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	done := cmd()
	_, _ = m.Update(done)

	assert.Equal(t, modeTree, m.mode)
	assert.Equal(t, "home/a", m.currentPath.Display())
	assert.Contains(t, m.status, "cancelled")
}

func TestPaletteLaunchReturnsToActionLevel(t *testing.T) {
	descs := []types.Descriptor{
		folder("", "x"),
		folder("", "z"),
		action("x", "y", nil),
		action("z", "elsewhere", nil),
	}
	m := NewModel("test", Assemble(descs))
	m.currentPath = types.NormalizePath("z")
	m.rebuildVisible()

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	require.Equal(t, modePalette, m.mode)
	m.palette.input.SetValue("x/y")
	m.palette.refilter()

	sel := m.palette.selected()
	require.NotNil(t, sel)
	require.Equal(t, "x/y", sel.title)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	done := cmd()
	_, _ = m.Update(done)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeTree, m.mode)
	assert.Equal(t, "home/x", m.currentPath.Display())
}

func TestPaletteHomeEntry(t *testing.T) {
	m := NewModel("test", Assemble(fixtureTree()))
	m.currentPath = types.NormalizePath("a/b")
	m.rebuildVisible()

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	m.palette.input.SetValue("Home")
	m.palette.refilter()

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeTree, m.mode)
	assert.True(t, m.currentPath.IsRoot())
}

func TestWorkingDirectoryRestored(t *testing.T) {
	original, err := os.Getwd()
	require.NoError(t, err)
	elsewhere := t.TempDir()

	descs := []types.Descriptor{
		action("", "wander", func(context.Context, types.ContentRegion) error {
			return os.Chdir(elsewhere)
		}),
		action("", "wanderfail", func(context.Context, types.ContentRegion) error {
			_ = os.Chdir(elsewhere)
			return errors.New("after moving")
		}),
	}
	m := NewModel("test", Assemble(descs))

	for cursor := 0; cursor < 2; cursor++ {
		m.mode = modeTree
		m.cursor = cursor
		cmd := m.selectEntry()
		require.NotNil(t, cmd)
		done := cmd()
		_, _ = m.Update(done)

		wd, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, original, wd)
	}
}

func TestEmptyLevelShowsPlaceholder(t *testing.T) {
	descs := []types.Descriptor{folder("", "empty")}
	m := NewModel("test", Assemble(descs))
	m.cursor = 0
	m.selectEntry()

	view := m.viewTree()
	assert.Contains(t, view, "no actions available here")
}

func TestRescanKeepsNearestLevel(t *testing.T) {
	m := NewModel("test", Assemble(fixtureTree()))
	m.currentPath = types.NormalizePath("a/b")
	m.rebuildVisible()

	// The b subtree disappears; position degrades to a.
	rebuilt := Assemble([]types.Descriptor{
		folder("", "a"),
		action("a", "inside", nil),
	})
	m.applyScan(rebuilt)
	assert.Equal(t, "home/a", m.currentPath.Display())
}

func TestRescanDeferredWhileActionRuns(t *testing.T) {
	m := NewModel("test", Assemble(fixtureTree()))
	m.running = true
	m.mode = modeAction

	_, _ = m.Update(scanResultMsg{descriptors: Assemble([]types.Descriptor{folder("", "a")})})
	assert.True(t, m.hasPending)
	assert.Equal(t, []string{"a", "c", "top"}, visibleNames(m))

	m.running = false
	m.finishAction()
	assert.False(t, m.hasPending)
	assert.Equal(t, []string{"a"}, visibleNames(m))
}

func TestAssembleDropsDuplicateKeys(t *testing.T) {
	descs := []types.Descriptor{
		folder("", "x"),
		action("", "x", nil),
	}
	out := Assemble(descs)
	require.Len(t, out, 1)
	assert.False(t, out[0].IsFolder(), "action should win over folder with the same key")
}

func TestAssembleSortsByKey(t *testing.T) {
	descs := []types.Descriptor{
		action("", "zeta", nil),
		action("", "alpha", nil),
		folder("", "mid"),
	}
	out := Assemble(descs)
	require.Len(t, out, 3)
	assert.Equal(t, "alpha", out[0].Name)
	assert.Equal(t, "mid", out[1].Name)
	assert.Equal(t, "zeta", out[2].Name)
}

func TestPromptBackspaceEditsAnswer(t *testing.T) {
	m := NewModel("test", Assemble(fixtureTree()))
	cancelled := false
	m.running = true
	m.mode = modeAction
	m.cancel = func() { cancelled = true }

	req := promptRequest{question: "name?", reply: make(chan string, 1)}
	_, _ = m.Update(promptRequestMsg{req: req})
	require.Equal(t, modePrompt, m.mode)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	assert.Equal(t, modePrompt, m.mode, "backspace must edit, not abort")
	assert.False(t, cancelled)
	assert.Equal(t, "a", m.promptIn.Value())

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "a", <-req.reply)
}

func TestPromptEscAbortsAction(t *testing.T) {
	m := NewModel("test", Assemble(fixtureTree()))
	cancelled := false
	m.running = true
	m.mode = modeAction
	m.cancel = func() { cancelled = true }

	req := promptRequest{question: "name?", reply: make(chan string, 1)}
	_, _ = m.Update(promptRequestMsg{req: req})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.True(t, cancelled)
	assert.Equal(t, modeAction, m.mode)
}

func TestPaletteBackspaceEditsQuery(t *testing.T) {
	m := NewModel("test", Assemble(fixtureTree()))
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	require.Equal(t, modePalette, m.mode)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	assert.Equal(t, modePalette, m.mode, "backspace must edit, not close")
	assert.Equal(t, "a", m.palette.input.Value())

	// Letters that double as movement keys in the tree are query text here.
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, "ak", m.palette.input.Value())
	assert.Equal(t, 0, m.palette.cursor)
}

func TestRegionWriteBuffersPartialLines(t *testing.T) {
	r := NewRegion()
	_, err := r.Write([]byte("hel"))
	require.NoError(t, err)
	_, err = r.Write([]byte("lo\nwor"))
	require.NoError(t, err)

	assert.Equal(t, "hello\nwor", r.Content())

	_, err = r.Write([]byte("ld\n"))
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", r.Content())
}

func TestRegionPromptAnswered(t *testing.T) {
	r := NewRegion()
	go func() {
		req := <-r.prompts
		req.reply <- "blue"
	}()

	answer, err := r.Prompt(context.Background(), "favourite colour?")
	require.NoError(t, err)
	assert.Equal(t, "blue", answer)
}

func TestRegionPromptCancelled(t *testing.T) {
	r := NewRegion()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Prompt(ctx, "anyone there?")
	require.Error(t, err)
	assert.True(t, apperrors.IsCancelled(err))
}

func TestRegionConfirmDefaultsNo(t *testing.T) {
	r := NewRegion()
	go func() {
		req := <-r.prompts
		req.reply <- ""
	}()

	ok, err := r.Confirm(context.Background(), "sure?")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConsoleRegionConfirm(t *testing.T) {
	var out strings.Builder
	c := NewConsoleRegion(&out, strings.NewReader("y\n"))

	ok, err := c.Confirm(context.Background(), "proceed?")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "proceed?")
}
