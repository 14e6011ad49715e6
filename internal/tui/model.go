package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	apperrors "launchpad/internal/errors"
	"launchpad/internal/log"
	"launchpad/internal/watch"
	"launchpad/pkg/types"
)

type mode int

const (
	modeTree mode = iota
	modeAction
	modePalette
	modePrompt
)

// entry is one row of the tree view. back is set for the synthetic
// "go up one level" row shown below root.
type entry struct {
	back       bool
	descriptor types.Descriptor
}

func (e entry) label() string {
	if e.back {
		return ".."
	}
	return e.descriptor.Name
}

// Messages flowing through the update loop.
type (
	// actionDoneMsg reports callback completion.
	actionDoneMsg struct{ err error }
	// regionUpdateMsg signals new content in the action output region.
	regionUpdateMsg struct{}
	// promptRequestMsg carries a blocking question from a callback.
	promptRequestMsg struct{ req promptRequest }
	// rescanMsg asks for the tree to be rebuilt.
	rescanMsg struct{}
	// scanResultMsg delivers a rebuilt tree.
	scanResultMsg struct {
		descriptors []types.Descriptor
		err         error
	}
)

// Model drives the navigation loop. It owns the assembled descriptor
// set and dispatches callbacks onto their own goroutine, keeping the
// tree navigable no matter how an invocation ends.
type Model struct {
	keys  KeyMap
	title string

	descriptors []types.Descriptor
	currentPath types.ActionPath
	cursor      int
	visible     []entry

	region    *Region
	viewport  viewport.Model
	palette   *palette
	mode      mode
	promptReq promptRequest
	promptIn  textinput.Model
	hasPrompt bool

	running     bool
	runningName string
	returnPath  types.ActionPath
	cancel      context.CancelFunc
	actionErr   error

	pendingScan   []types.Descriptor
	hasPending    bool
	rescan        func() ([]types.Descriptor, error)
	watcher       *watch.Watcher
	originalWD    string
	status        string
	showHelp      bool
	width, height int
	quitting      bool
}

// Option configures the model.
type Option func(*Model)

// WithRescan installs a source for rebuilding the tree on demand.
func WithRescan(fn func() ([]types.Descriptor, error)) Option {
	return func(m *Model) { m.rescan = fn }
}

// WithWatcher wires a filesystem watcher whose change signals trigger
// automatic rescans.
func WithWatcher(w *watch.Watcher) Option {
	return func(m *Model) { m.watcher = w }
}

// NewModel builds the viewer over an assembled descriptor set.
func NewModel(title string, descriptors []types.Descriptor, opts ...Option) *Model {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	m := &Model{
		keys:        DefaultKeyMap(),
		title:       title,
		descriptors: descriptors,
		currentPath: types.Root,
		region:      NewRegion(),
		viewport:    viewport.New(80, 20),
		originalWD:  wd,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.rebuildVisible()
	return m
}

// Init starts the background listeners.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{listenRegion(m.region), listenPrompt(m.region)}
	if m.watcher != nil {
		cmds = append(cmds, waitForChange(m.watcher))
	}
	return tea.Batch(cmds...)
}

// listenRegion waits for the next output notification. Re-armed after
// every regionUpdateMsg.
func listenRegion(r *Region) tea.Cmd {
	return func() tea.Msg {
		<-r.updates
		return regionUpdateMsg{}
	}
}

// listenPrompt waits for the next blocking question from a callback.
func listenPrompt(r *Region) tea.Cmd {
	return func() tea.Msg {
		return promptRequestMsg{req: <-r.prompts}
	}
}

// waitForChange waits for the next filesystem change signal.
func waitForChange(w *watch.Watcher) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-w.Changed(); !ok {
			return nil
		}
		return rescanMsg{}
	}
}

// rebuildVisible recomputes the rows for the current level. Rows are
// exactly the descriptors whose containing path equals the current
// path, with a back row prepended below root.
func (m *Model) rebuildVisible() {
	m.visible = m.visible[:0]
	if !m.currentPath.IsRoot() {
		m.visible = append(m.visible, entry{back: true})
	}
	for _, d := range m.descriptors {
		if d.Path.Equal(m.currentPath) {
			m.visible = append(m.visible, entry{descriptor: d})
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = 0
	}
}

// levelExists reports whether any descriptor renders at p or p names a
// folder node, so navigation never lands on a vanished level.
func (m *Model) levelExists(p types.ActionPath) bool {
	if p.IsRoot() {
		return true
	}
	for _, d := range m.descriptors {
		if d.Path.Equal(p) {
			return true
		}
		if d.IsFolder() && d.Path.Child(d.Name).Equal(p) {
			return true
		}
	}
	return false
}

// nearestLevel walks up from p to the closest level that still exists.
func (m *Model) nearestLevel(p types.ActionPath) types.ActionPath {
	for !p.IsRoot() && !m.levelExists(p) {
		p = p.Parent()
	}
	return p
}

// applyScan swaps in a rebuilt tree while keeping the position stable.
func (m *Model) applyScan(descriptors []types.Descriptor) {
	m.descriptors = descriptors
	m.currentPath = m.nearestLevel(m.currentPath)
	m.rebuildVisible()
	m.status = fmt.Sprintf("rescanned: %d entries", len(descriptors))
}

func (m *Model) triggerRescan() tea.Cmd {
	if m.rescan == nil {
		return nil
	}
	fn := m.rescan
	return func() tea.Msg {
		descs, err := fn()
		return scanResultMsg{descriptors: descs, err: err}
	}
}

// dispatch starts the selected descriptor's callback on its own
// goroutine. The working directory is pinned to the startup directory
// before the callback runs so relative paths behave the same on every
// invocation.
func (m *Model) dispatch(d types.Descriptor, returnTo types.ActionPath) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true
	m.runningName = d.Name
	m.returnPath = returnTo
	m.actionErr = nil
	m.mode = modeAction
	m.region.Clear()
	m.region.ScrollToEnd()
	log.Info("invoking action: %s", d.Key())

	region := m.region
	wd := m.originalWD
	return func() tea.Msg {
		var err error
		func() {
			defer func() {
				if r := recover(); r != nil {
					err = apperrors.NewInvocationError(
						fmt.Sprintf("action panicked: %v", r), d.Key(),
						apperrors.ActionFailed, nil)
				}
			}()
			if cdErr := os.Chdir(wd); cdErr != nil {
				log.Warn("could not restore working directory: %v", cdErr)
			}
			err = d.Callback(ctx, region)
		}()
		if cdErr := os.Chdir(wd); cdErr != nil {
			log.Warn("could not restore working directory: %v", cdErr)
		}
		return actionDoneMsg{err: err}
	}
}

// finishAction returns from the action view to the tree at the path
// recorded when the action was dispatched.
func (m *Model) finishAction() {
	m.mode = modeTree
	m.currentPath = m.nearestLevel(m.returnPath)
	m.cursor = 0
	if m.hasPending {
		m.applyScan(m.pendingScan)
		m.pendingScan = nil
		m.hasPending = false
	} else {
		m.rebuildVisible()
	}
}

// selectEntry acts on the highlighted row.
func (m *Model) selectEntry() tea.Cmd {
	if m.cursor >= len(m.visible) {
		return nil
	}
	e := m.visible[m.cursor]
	if e.back {
		m.currentPath = m.currentPath.Parent()
		m.cursor = 0
		m.rebuildVisible()
		return nil
	}
	d := e.descriptor
	if d.IsFolder() {
		m.currentPath = d.Path.Child(d.Name)
		m.cursor = 0
		m.rebuildVisible()
		return nil
	}
	if !d.IsActive() {
		m.status = fmt.Sprintf("%s is not available", d.Name)
		return nil
	}
	return m.dispatch(d, m.currentPath)
}

// Update is the message loop.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 8
		if m.viewport.Height < 3 {
			m.viewport.Height = 3
		}
		return m, nil

	case regionUpdateMsg:
		m.viewport.SetContent(m.region.Content())
		if m.region.Follow() {
			m.viewport.GotoBottom()
		}
		return m, listenRegion(m.region)

	case promptRequestMsg:
		m.promptReq = msg.req
		m.hasPrompt = true
		m.mode = modePrompt
		m.promptIn = textinput.New()
		m.promptIn.Prompt = "> "
		m.promptIn.Focus()
		return m, textinput.Blink

	case actionDoneMsg:
		m.running = false
		m.cancel = nil
		m.hasPrompt = false
		if msg.err != nil && apperrors.IsCancelled(msg.err) {
			// A cancelled action unwinds straight back to the tree.
			log.Info("action cancelled: %s", m.runningName)
			m.finishAction()
			m.status = fmt.Sprintf("%s cancelled", m.runningName)
			return m, nil
		}
		if msg.err != nil {
			m.actionErr = msg.err
			m.region.Printf("error: %v", msg.err)
			log.Error("action failed: %s: %v", m.runningName, msg.err)
		} else {
			m.region.Println("done")
		}
		// Stay on the output so the user can read it; esc returns.
		if m.mode == modePrompt {
			m.mode = modeAction
		}
		return m, nil

	case rescanMsg:
		var cmds []tea.Cmd
		if cmd := m.triggerRescan(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if m.watcher != nil {
			cmds = append(cmds, waitForChange(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case scanResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("rescan failed: %v", msg.err)
			log.Error("rescan failed: %v", msg.err)
			return m, nil
		}
		if m.running || m.mode == modeAction || m.mode == modePrompt {
			m.pendingScan = msg.descriptors
			m.hasPending = true
			return m, nil
		}
		m.applyScan(msg.descriptors)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modePalette:
		return m.handlePaletteKey(msg)
	case modePrompt:
		return m.handlePromptKey(msg)
	case modeAction:
		return m.handleActionKey(msg)
	default:
		return m.handleTreeKey(msg)
	}
}

func (m *Model) handleTreeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		return m, m.selectEntry()
	case key.Matches(msg, m.keys.Back):
		if !m.currentPath.IsRoot() {
			m.currentPath = m.currentPath.Parent()
			m.cursor = 0
			m.rebuildVisible()
		}
	case key.Matches(msg, m.keys.Home):
		m.currentPath = types.Root
		m.cursor = 0
		m.rebuildVisible()
	case key.Matches(msg, m.keys.Palette):
		m.palette = newPalette(m.descriptors)
		m.mode = modePalette
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Rescan):
		return m, m.triggerRescan()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) handleActionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.running {
		if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Quit) {
			if m.cancel != nil {
				m.cancel()
				m.status = "cancelling..."
			}
			return m, nil
		}
		// Navigation is suspended while an action runs.
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Select):
		m.finishAction()
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Only esc closes the overlay; backspace must reach the text input.
	switch {
	case msg.Type == tea.KeyEsc:
		m.mode = modeTree
		m.palette = nil
		return m, nil
	case msg.Type == tea.KeyUp:
		m.palette.moveUp()
		return m, nil
	case msg.Type == tea.KeyDown:
		m.palette.moveDown()
		return m, nil
	case key.Matches(msg, m.keys.Select):
		sel := m.palette.selected()
		m.mode = modeTree
		m.palette = nil
		if sel == nil {
			return m, nil
		}
		if sel.home {
			m.currentPath = types.Root
			m.cursor = 0
			m.rebuildVisible()
			return m, nil
		}
		d := sel.descriptor
		if !d.IsActive() {
			m.status = fmt.Sprintf("%s is not available", d.Name)
			return m, nil
		}
		// After a palette launch the viewer returns to the action's
		// own level, not wherever browsing happened to be.
		return m, m.dispatch(d, d.Path)
	}
	var cmd tea.Cmd
	m.palette.input, cmd = m.palette.input.Update(msg)
	m.palette.refilter()
	return m, cmd
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Only esc aborts; backspace and every other editing key belong to the
	// text input.
	switch {
	case msg.Type == tea.KeyEsc:
		// Abandoning a question aborts the whole action.
		if m.cancel != nil {
			m.cancel()
		}
		m.mode = modeAction
		m.hasPrompt = false
		return m, listenPrompt(m.region)
	case msg.Type == tea.KeyEnter:
		m.promptReq.reply <- m.promptIn.Value()
		m.mode = modeAction
		m.hasPrompt = false
		return m, listenPrompt(m.region)
	}
	var cmd tea.Cmd
	m.promptIn, cmd = m.promptIn.Update(msg)
	return m, cmd
}

// View renders the current mode.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var body string
	switch m.mode {
	case modePalette:
		body = m.viewPalette()
	case modeAction:
		body = m.viewAction()
	case modePrompt:
		body = m.viewPrompt()
	default:
		body = m.viewTree()
	}
	return App.Render(body)
}

func (m *Model) viewTree() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(PathStyle.Render(m.currentPath.Display()))
	b.WriteString("\n\n")

	if len(m.visible) == 0 || (len(m.visible) == 1 && m.visible[0].back) {
		if !m.currentPath.IsRoot() {
			b.WriteString(m.renderRow(0))
			b.WriteString("\n")
		}
		b.WriteString(StatusStyle.Render("no actions available here"))
		b.WriteString("\n")
	} else {
		for i := range m.visible {
			b.WriteString(m.renderRow(i))
			b.WriteString("\n")
		}
	}

	if desc := m.highlightedDescription(); desc != "" {
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render(desc))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(StatusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.helpLine())
	return b.String()
}

func (m *Model) renderRow(i int) string {
	e := m.visible[i]
	label := e.label()
	var styled string
	switch {
	case e.back:
		styled = FolderStyle.Render(label)
	case e.descriptor.IsFolder():
		styled = FolderStyle.Render(label + "/")
	case !e.descriptor.IsActive():
		styled = InactiveStyle.Render(label) + InactiveMarker
	default:
		styled = ActionStyle.Render(label)
	}
	if i == m.cursor {
		return SelectedStyle.Render("> ") + styled
	}
	return "  " + styled
}

func (m *Model) highlightedDescription() string {
	if m.cursor >= len(m.visible) {
		return ""
	}
	e := m.visible[m.cursor]
	if e.back {
		return "Go up one level"
	}
	if e.descriptor.Description == "" {
		return ""
	}
	return e.descriptor.Description
}

func (m *Model) viewAction() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.title))
	b.WriteString("  ")
	b.WriteString(PathStyle.Render(m.runningName))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	switch {
	case m.running:
		b.WriteString(StatusStyle.Render("running... (esc to cancel)"))
	case m.actionErr != nil:
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("failed: %v", m.actionErr)))
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("esc: back to tree"))
	default:
		b.WriteString(SuccessStyle.Render("completed"))
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("esc: back to tree"))
	}
	return b.String()
}

func (m *Model) viewPalette() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Run action"))
	b.WriteString("\n")
	b.WriteString(m.palette.input.View())
	b.WriteString("\n\n")
	if len(m.palette.matches) == 0 {
		b.WriteString(StatusStyle.Render("no matches"))
		b.WriteString("\n")
	}
	for i, match := range m.palette.matches {
		if i >= 12 {
			b.WriteString(StatusStyle.Render(fmt.Sprintf("  ... %d more", len(m.palette.matches)-i)))
			b.WriteString("\n")
			break
		}
		e := m.palette.entries[match.Index]
		line := e.title
		if !e.home {
			if summary := e.descriptor.Summary(); summary != "" {
				line += "  " + StatusStyle.Render(summary)
			}
			if !e.descriptor.IsActive() {
				line += InactiveMarker
			}
		}
		if i == m.palette.cursor {
			b.WriteString(SelectedStyle.Render("> ") + line)
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("enter: run  esc: cancel"))
	return b.String()
}

func (m *Model) viewPrompt() string {
	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")
	question := m.promptReq.question
	if m.promptReq.yesNo {
		question += " [y/N]"
	}
	b.WriteString(PromptStyle.Render(question))
	b.WriteString("\n")
	b.WriteString(m.promptIn.View())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("enter: answer  esc: abort action"))
	return b.String()
}

func (m *Model) helpLine() string {
	if m.showHelp {
		var parts []string
		for _, group := range m.keys.FullHelp() {
			for _, binding := range group {
				h := binding.Help()
				parts = append(parts, h.Key+": "+h.Desc)
			}
		}
		return HelpStyle.Render(strings.Join(parts, "  "))
	}
	var parts []string
	for _, binding := range m.keys.ShortHelp() {
		h := binding.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return HelpStyle.Render(strings.Join(parts, "  "))
}
