package types

import (
	"context"
	"strings"
)

// ContentRegion is the surface an action callback writes into. The viewer owns
// the concrete implementation; headless runs use a plain writer-backed one.
type ContentRegion interface {
	// Printf appends formatted output to the region.
	Printf(format string, args ...interface{})
	// Println appends a line to the region.
	Println(args ...interface{})
	// Clear empties the region.
	Clear()
	// ScrollToEnd keeps the latest output visible.
	ScrollToEnd()
	// Prompt blocks until the user answers the question or ctx is cancelled.
	Prompt(ctx context.Context, question string) (string, error)
	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, question string) (bool, error)
	// Write implements io.Writer so subprocess output can stream in.
	Write(p []byte) (int, error)
}

// Callback is the invokable body of an action. It runs on its own goroutine;
// the ctx is cancelled when the user aborts the action.
type Callback func(ctx context.Context, region ContentRegion) error

// Descriptor describes one discovered action or folder node. A nil Callback
// marks a pure folder; a nil Active predicate means always active.
type Descriptor struct {
	Path        ActionPath
	Name        string
	Description string
	Active      func() bool
	Callback    Callback
}

// IsFolder reports whether the descriptor is a pure grouping node.
func (d Descriptor) IsFolder() bool {
	return d.Callback == nil
}

// Key is the (parent, name) identity used to address descriptors in lists and
// from the command palette. Unique within one assembled tree.
func (d Descriptor) Key() string {
	return d.Path.Child(d.Name).String()
}

// IsActive evaluates the activation predicate at call time. Predicates are
// re-evaluated on every render because activation may depend on live external
// state. A panicking predicate counts as inactive and never propagates.
func (d Descriptor) IsActive() (active bool) {
	if d.Active == nil {
		return true
	}
	defer func() {
		if recover() != nil {
			active = false
		}
	}()
	return d.Active()
}

// Summary returns the first line of the description, with an ellipsis when
// more lines follow. Used in the flattened palette view.
func (d Descriptor) Summary() string {
	lines := strings.SplitN(d.Description, "\n", 2)
	if len(lines) > 1 && strings.TrimSpace(lines[1]) != "" {
		return strings.TrimRight(lines[0], "\r") + "..."
	}
	return strings.TrimRight(lines[0], "\r")
}
