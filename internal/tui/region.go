package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	apperrors "launchpad/internal/errors"
)

// promptRequest carries an interactive question from a callback to the
// viewer and waits for the answer on reply.
type promptRequest struct {
	question string
	yesNo    bool
	reply    chan string
}

// Region collects callback output and forwards prompt requests to the
// viewer. It is safe for use from the callback goroutine while the
// viewer reads it from the update loop.
type Region struct {
	mu      sync.Mutex
	lines   []string
	partial string
	follow  bool

	updates chan struct{}
	prompts chan promptRequest
}

// NewRegion returns an empty region.
func NewRegion() *Region {
	return &Region{
		follow:  true,
		updates: make(chan struct{}, 1),
		prompts: make(chan promptRequest),
	}
}

func (r *Region) notify() {
	select {
	case r.updates <- struct{}{}:
	default:
	}
}

// Printf appends a formatted line to the region.
func (r *Region) Printf(format string, args ...interface{}) {
	r.appendLine(fmt.Sprintf(format, args...))
}

// Println appends a line to the region.
func (r *Region) Println(args ...interface{}) {
	r.appendLine(fmt.Sprintln(args...))
}

func (r *Region) appendLine(line string) {
	line = strings.TrimRight(line, "\n")
	r.mu.Lock()
	if r.partial != "" {
		line = r.partial + line
		r.partial = ""
	}
	r.lines = append(r.lines, line)
	r.mu.Unlock()
	r.notify()
}

// Write implements io.Writer so subprocess output can stream into the
// region. Incomplete trailing lines are buffered until a newline
// arrives.
func (r *Region) Write(p []byte) (int, error) {
	r.mu.Lock()
	text := r.partial + string(p)
	parts := strings.Split(text, "\n")
	r.partial = parts[len(parts)-1]
	for _, line := range parts[:len(parts)-1] {
		r.lines = append(r.lines, strings.TrimRight(line, "\r"))
	}
	r.mu.Unlock()
	r.notify()
	return len(p), nil
}

// Clear removes all content.
func (r *Region) Clear() {
	r.mu.Lock()
	r.lines = nil
	r.partial = ""
	r.mu.Unlock()
	r.notify()
}

// ScrollToEnd asks the viewer to follow the newest output.
func (r *Region) ScrollToEnd() {
	r.mu.Lock()
	r.follow = true
	r.mu.Unlock()
	r.notify()
}

// Content returns the rendered text, including any unfinished line.
func (r *Region) Content() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.partial == "" {
		return strings.Join(r.lines, "\n")
	}
	return strings.Join(append(append([]string{}, r.lines...), r.partial), "\n")
}

// Follow reports whether the viewport should track the newest output
// and resets the flag.
func (r *Region) Follow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := r.follow
	r.follow = false
	return f
}

// Prompt blocks the callback until the user answers the question or
// the context is cancelled.
func (r *Region) Prompt(ctx context.Context, question string) (string, error) {
	req := promptRequest{question: question, reply: make(chan string, 1)}
	select {
	case r.prompts <- req:
	case <-ctx.Done():
		return "", apperrors.NewInvocationError("prompt cancelled", "", apperrors.ActionCancelled, ctx.Err())
	}
	select {
	case answer := <-req.reply:
		return answer, nil
	case <-ctx.Done():
		return "", apperrors.NewInvocationError("prompt cancelled", "", apperrors.ActionCancelled, ctx.Err())
	}
}

// Confirm asks a yes/no question. Empty input counts as no.
func (r *Region) Confirm(ctx context.Context, question string) (bool, error) {
	req := promptRequest{question: question, yesNo: true, reply: make(chan string, 1)}
	select {
	case r.prompts <- req:
	case <-ctx.Done():
		return false, apperrors.NewInvocationError("prompt cancelled", "", apperrors.ActionCancelled, ctx.Err())
	}
	select {
	case answer := <-req.reply:
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes", nil
	case <-ctx.Done():
		return false, apperrors.NewInvocationError("prompt cancelled", "", apperrors.ActionCancelled, ctx.Err())
	}
}
