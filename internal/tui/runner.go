package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"launchpad/internal/log"
	"launchpad/pkg/types"
)

// Assemble sorts descriptors into render order and drops duplicate
// keys. The first occurrence wins; invokable actions beat folder nodes
// with the same key so a folder synthesized from disk never shadows a
// registered action.
func Assemble(descriptors []types.Descriptor) []types.Descriptor {
	sorted := make([]types.Descriptor, len(descriptors))
	copy(sorted, descriptors)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].IsFolder() != sorted[j].IsFolder() {
			return !sorted[i].IsFolder()
		}
		return sorted[i].Key() < sorted[j].Key()
	})

	seen := make(map[string]bool, len(sorted))
	out := sorted[:0]
	for _, d := range sorted {
		k := d.Key()
		if seen[k] {
			log.Warn("duplicate action key %q, keeping first", k)
			continue
		}
		seen[k] = true
		out = append(out, d)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Key() < out[j].Key()
	})
	return out
}

// Start runs the viewer until the user quits and returns a process
// exit code. The working directory active at entry is restored before
// returning regardless of what any action did.
func Start(title string, descriptors []types.Descriptor, opts ...Option) int {
	wd, wdErr := os.Getwd()

	model := NewModel(title, Assemble(descriptors), opts...)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()

	if wdErr == nil {
		if cdErr := os.Chdir(wd); cdErr != nil {
			log.Warn("could not restore working directory: %v", cdErr)
		}
	}
	if err != nil {
		log.Error("viewer terminated: %v", err)
		return 1
	}
	return 0
}

// ConsoleRegion is a plain writer-backed region for headless runs. It
// answers prompts from an input stream, normally stdin.
type ConsoleRegion struct {
	out io.Writer
	in  *bufio.Reader
}

// NewConsoleRegion builds a region over the given streams.
func NewConsoleRegion(out io.Writer, in io.Reader) *ConsoleRegion {
	return &ConsoleRegion{out: out, in: bufio.NewReader(in)}
}

func (c *ConsoleRegion) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *ConsoleRegion) Println(args ...interface{}) {
	fmt.Fprintln(c.out, args...)
}

func (c *ConsoleRegion) Clear()       {}
func (c *ConsoleRegion) ScrollToEnd() {}

func (c *ConsoleRegion) Write(p []byte) (int, error) {
	return c.out.Write(p)
}

func (c *ConsoleRegion) Prompt(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(c.out, "%s ", question)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *ConsoleRegion) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := c.Prompt(ctx, question+" [y/N]")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}
