package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sahilm/fuzzy"

	"launchpad/pkg/types"
)

// paletteEntry is one searchable item in the command palette. home is
// set for the synthetic entry that jumps back to the root level.
type paletteEntry struct {
	descriptor types.Descriptor
	title      string
	home       bool
}

// paletteSource adapts entries to the fuzzy matcher.
type paletteSource []paletteEntry

func (s paletteSource) String(i int) string { return s[i].title }
func (s paletteSource) Len() int            { return len(s) }

// palette is the fuzzy search overlay. It indexes every action in the
// tree by its full path so anything can be invoked from anywhere.
type palette struct {
	input   textinput.Model
	entries paletteSource
	matches fuzzy.Matches
	cursor  int
}

func newPalette(descriptors []types.Descriptor) *palette {
	input := textinput.New()
	input.Placeholder = "type to search actions"
	input.Prompt = "> "
	input.Focus()

	entries := paletteSource{{title: "Home", home: true}}
	for _, d := range descriptors {
		if d.IsFolder() {
			continue
		}
		entries = append(entries, paletteEntry{
			descriptor: d,
			title:      d.Key(),
		})
	}

	p := &palette{input: input, entries: entries}
	p.refilter()
	return p
}

// refilter recomputes the match set for the current query. An empty
// query lists everything in index order.
func (p *palette) refilter() {
	query := p.input.Value()
	if query == "" {
		p.matches = make(fuzzy.Matches, len(p.entries))
		for i := range p.entries {
			p.matches[i] = fuzzy.Match{Index: i, Str: p.entries[i].title}
		}
	} else {
		p.matches = fuzzy.FindFrom(query, p.entries)
	}
	if p.cursor >= len(p.matches) {
		p.cursor = 0
	}
}

func (p *palette) moveUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

func (p *palette) moveDown() {
	if p.cursor < len(p.matches)-1 {
		p.cursor++
	}
}

// selected returns the highlighted entry, or nil when nothing matches.
func (p *palette) selected() *paletteEntry {
	if len(p.matches) == 0 || p.cursor >= len(p.matches) {
		return nil
	}
	return &p.entries[p.matches[p.cursor].Index]
}
