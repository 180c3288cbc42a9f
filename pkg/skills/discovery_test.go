package skills

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiscovery(t *testing.T) {
	t.Run("with default roots", func(t *testing.T) {
		discovery, err := NewDiscovery()
		require.NoError(t, err)
		assert.Len(t, discovery.Roots(), 2)
		assert.Equal(t, "./skills", discovery.Roots()[0])
	})

	t.Run("with custom roots", func(t *testing.T) {
		roots := []string{"/tmp/skills1", "/tmp/skills2"}
		discovery, err := NewDiscovery(WithRoots(roots...))
		require.NoError(t, err)
		assert.Equal(t, roots, discovery.Roots())
	})

	t.Run("empty roots", func(t *testing.T) {
		_, err := NewDiscovery(WithRoots())
		assert.Error(t, err)
	})
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()

	skill1Dir := filepath.Join(root, "test-skill")
	require.NoError(t, os.MkdirAll(skill1Dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(skill1Dir, SkillFileName), []byte(`---
name: test-skill
description: A test skill for unit testing
---

# Test Skill
`), 0o644))

	skill2Dir := filepath.Join(root, "another")
	require.NoError(t, os.MkdirAll(skill2Dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(skill2Dir, SkillFileName), []byte("# No frontmatter\n"), 0o644))

	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty-dir"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".hidden"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden", SkillFileName), []byte("---\nname: hidden\n---\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.md"), []byte("x"), 0o644))

	discovery, err := NewDiscovery(WithRoots(root))
	require.NoError(t, err)

	assert.Equal(t, []string{skill2Dir, filepath.Join(root, "empty-dir"), skill1Dir}, discovery.Directories())

	skills, err := discovery.Discover()
	require.NoError(t, err)
	require.Len(t, skills, 2)

	assert.Equal(t, "another", skills[0].Name, "directory name stands in for a missing name")
	assert.Empty(t, skills[0].Description)
	assert.Equal(t, "test-skill", skills[1].Name)
	assert.Equal(t, "A test skill for unit testing", skills[1].Description)
	assert.Equal(t, skill1Dir, skills[1].Directory)
}

func TestDiscoverPrecedence(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	for _, root := range []string{first, second} {
		dir := filepath.Join(root, "shared")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, SkillFileName),
			[]byte("---\nname: shared\ndescription: from "+root+"\n---\n"), 0o644))
	}

	discovery, err := NewDiscovery(WithRoots(first, filepath.Join(first, "missing"), second))
	require.NoError(t, err)

	skills, err := discovery.Discover()
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Equal(t, "from "+first, skills[0].Description)
}

func TestDiscoverWithSymlinks(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(t.TempDir(), "linked")
	require.NoError(t, os.MkdirAll(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, SkillFileName),
		[]byte("---\nname: linked\ndescription: Linked skill\n---\n"), 0o644))

	if err := os.Symlink(target, filepath.Join(root, "linked")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	discovery, err := NewDiscovery(WithRoots(root))
	require.NoError(t, err)

	skills, err := discovery.Discover()
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Equal(t, "linked", skills[0].Name)
}

func TestFilter(t *testing.T) {
	skills := []*Skill{
		{Name: "pdf-tools"},
		{Name: "code-review"},
		{Name: "pdf-forms"},
	}

	t.Run("empty pattern keeps all sorted", func(t *testing.T) {
		filtered, err := Filter(skills, "")
		require.NoError(t, err)
		require.Len(t, filtered, 3)
		assert.Equal(t, "code-review", filtered[0].Name)
	})

	t.Run("glob pattern", func(t *testing.T) {
		filtered, err := Filter(skills, "pdf-*")
		require.NoError(t, err)
		require.Len(t, filtered, 2)
		assert.Equal(t, "pdf-forms", filtered[0].Name)
		assert.Equal(t, "pdf-tools", filtered[1].Name)
	})

	t.Run("alternatives", func(t *testing.T) {
		filtered, err := Filter(skills, "{code-*,pdf-forms}")
		require.NoError(t, err)
		assert.Len(t, filtered, 2)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := Filter(skills, "[")
		assert.Error(t, err)
	})
}
