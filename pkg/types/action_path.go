package types

import "strings"

// ActionPath identifies a position in the action tree. It is a value type:
// operations return new instances, the zero value is the root.
type ActionPath struct {
	segments []string
}

// Root is the empty path at the top of the action tree.
var Root = ActionPath{}

// NormalizePath builds an ActionPath from a raw, possibly filesystem-derived
// path. Backslashes are treated as separators, segments are lower-cased and
// characters outside [a-z0-9_ .-] are replaced with '_'. Segments consisting
// only of dots ("." and "..") are dropped. Normalization is idempotent, so
// paths can be re-normalized freely.
func NormalizePath(raw string) ActionPath {
	raw = strings.ReplaceAll(raw, "\\", "/")
	parts := strings.Split(raw, "/")

	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		seg := normalizeSegment(part)
		if seg == "" || strings.Trim(seg, ".") == "" {
			continue
		}
		segments = append(segments, seg)
	}
	return ActionPath{segments: segments}
}

func normalizeSegment(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-', r == ' ', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// IsRoot reports whether the path has no segments.
func (p ActionPath) IsRoot() bool {
	return len(p.segments) == 0
}

// Depth returns the number of segments.
func (p ActionPath) Depth() int {
	return len(p.segments)
}

// Name returns the last segment, or "" for the root.
func (p ActionPath) Name() string {
	if p.IsRoot() {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Parent returns the path with the last segment removed. The parent of the
// root is the root itself.
func (p ActionPath) Parent() ActionPath {
	if p.IsRoot() {
		return Root
	}
	parent := make([]string, len(p.segments)-1)
	copy(parent, p.segments)
	return ActionPath{segments: parent}
}

// Child appends one segment, normalizing it first.
func (p ActionPath) Child(segment string) ActionPath {
	seg := normalizeSegment(segment)
	if seg == "" {
		return p
	}
	child := make([]string, len(p.segments)+1)
	copy(child, p.segments)
	child[len(p.segments)] = seg
	return ActionPath{segments: child}
}

// Equal reports structural equality over normalized segments.
func (p ActionPath) Equal(other ActionPath) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i, seg := range p.segments {
		if other.segments[i] != seg {
			return false
		}
	}
	return true
}

// Less provides the total order used for deterministic sorting.
func (p ActionPath) Less(other ActionPath) bool {
	return p.String() < other.String()
}

// String returns the segments joined by '/'. The root renders as "".
func (p ActionPath) String() string {
	return strings.Join(p.segments, "/")
}

// Display returns a human form of the path rooted at "home".
func (p ActionPath) Display() string {
	if p.IsRoot() {
		return "home"
	}
	return "home/" + p.String()
}
