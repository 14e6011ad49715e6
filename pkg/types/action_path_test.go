package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	t.Run("case and separator differences collapse", func(t *testing.T) {
		a := NormalizePath(`Office\Obsidian`)
		b := NormalizePath("office/obsidian")
		assert.True(t, a.Equal(b), "backslash and case variants should normalize identically")
	})

	t.Run("normalization is idempotent", func(t *testing.T) {
		raw := `HW_Entwicklung\Altium Designer`
		once := NormalizePath(raw)
		twice := NormalizePath(once.String())
		assert.True(t, once.Equal(twice))
		assert.Equal(t, once.String(), twice.String())
	})

	t.Run("disallowed characters become underscores", func(t *testing.T) {
		p := NormalizePath("tools/über:alles")
		assert.Equal(t, "tools/_ber_alles", p.String())
	})

	t.Run("empty segments are dropped", func(t *testing.T) {
		p := NormalizePath("//a///b/")
		assert.Equal(t, "a/b", p.String())
	})

	t.Run("dots survive inside segments", func(t *testing.T) {
		p := NormalizePath("tools/v1.2")
		assert.Equal(t, "tools/v1.2", p.String())
	})

	t.Run("dot-only segments are dropped", func(t *testing.T) {
		p := NormalizePath("./a/../b")
		assert.Equal(t, "a/b", p.String())
	})

	t.Run("root is empty and distinct", func(t *testing.T) {
		assert.True(t, NormalizePath("").IsRoot())
		assert.False(t, NormalizePath("a").IsRoot())
		assert.False(t, NormalizePath("a").Equal(Root))
	})
}

func TestActionPathParentChild(t *testing.T) {
	p := NormalizePath("office/checkliste")

	assert.Equal(t, "office", p.Parent().String())
	assert.True(t, p.Parent().Parent().IsRoot())
	assert.True(t, Root.Parent().IsRoot(), "parent of root is root")

	child := p.Child("PCB Checklist")
	assert.Equal(t, "office/checkliste/pcb checklist", child.String())
	assert.True(t, child.Parent().Equal(p))

	// Child must not alias the parent's backing storage.
	other := p.Child("schema")
	assert.Equal(t, "office/checkliste/pcb checklist", child.String())
	assert.Equal(t, "office/checkliste/schema", other.String())
}

func TestActionPathOrdering(t *testing.T) {
	a := NormalizePath("alpha")
	b := NormalizePath("beta")
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
}

func TestActionPathDisplay(t *testing.T) {
	assert.Equal(t, "home", Root.Display())
	assert.Equal(t, "home/a/b", NormalizePath("a/b").Display())
}
