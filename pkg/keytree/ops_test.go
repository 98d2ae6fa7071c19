package keytree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/rbx/pkg/bundle"
)

func TestDeleteGroup(t *testing.T) {
	g := newGroup(t, []string{"app.menu.file", "app.menu.edit", "app.title"})
	tree := New(g, Grouped("."))

	require.NoError(t, DeleteGroup(g, tree, "app.menu"))

	assert.Equal(t, []string{"app.title"}, g.Keys())
	assert.Equal(t, []string{"app", "app.title"}, cacheIDs(tree))
}

func TestRenameGroup(t *testing.T) {
	g := newGroup(t, []string{"app.menu", "app.menu.file", "app.title"})
	tree := New(g, Grouped("."))

	require.NoError(t, RenameGroup(g, tree, "app.menu", "app.bar"))

	assert.Equal(t, []string{"app.bar", "app.bar.file", "app.title"}, g.Keys())
	assert.Equal(t, []string{"app", "app.bar", "app.bar.file", "app.title"}, cacheIDs(tree))
}

func TestCopyGroup(t *testing.T) {
	g := newGroup(t, []string{"a.x", "a.y"})
	tree := New(g, Grouped("."))

	require.NoError(t, CopyGroup(g, tree, "a", "b"))

	assert.Equal(t, []string{"a.x", "a.y", "b.x", "b.y"}, g.Keys())
	assert.Equal(t, []string{"a", "b"}, itemIDs(tree.RootKeyItems()))
}

func TestCommentGroup(t *testing.T) {
	g := newGroup(t, []string{"a.x", "a.y", "b"})
	tree := New(g, Grouped("."))

	require.NoError(t, CommentGroup(g, tree, "a"))
	for _, key := range []string{"a.x", "a.y"} {
		for _, e := range g.Entries(key) {
			assert.True(t, e.Commented, key)
		}
	}
	for _, e := range g.Entries("b") {
		assert.False(t, e.Commented)
	}

	require.NoError(t, UncommentGroup(g, tree, "a"))
	for _, e := range g.Entries("a.x") {
		assert.False(t, e.Commented)
	}
}

func TestGroupOpErrors(t *testing.T) {
	g := newGroup(t, []string{"a.x", "b.x"})
	tree := New(g, Grouped("."))

	assert.Error(t, DeleteGroup(g, tree, "missing"))
	assert.Error(t, RenameGroup(g, tree, "a", ""))

	err := RenameGroup(g, tree, "a", "b")
	assert.ErrorIs(t, err, bundle.ErrKeyExists)
	assert.Equal(t, []string{"a.x", "b.x"}, g.Keys())
}

func TestGroupOpConflictChangesNothing(t *testing.T) {
	g := newGroup(t, []string{"a.x", "a.y", "b.y"})
	tree := New(g, Grouped("."))

	err := RenameGroup(g, tree, "a", "b")
	assert.ErrorIs(t, err, bundle.ErrKeyExists)
	assert.ErrorContains(t, err, `"b.y"`)
	assert.Equal(t, []string{"a.x", "a.y", "b.y"}, g.Keys())
	assert.Equal(t, []string{"a", "a.x", "a.y", "b", "b.y"}, cacheIDs(tree))

	assert.ErrorIs(t, CopyGroup(g, tree, "a", "b"), bundle.ErrKeyExists)
	assert.Equal(t, []string{"a.x", "a.y", "b.y"}, g.Keys())
}
