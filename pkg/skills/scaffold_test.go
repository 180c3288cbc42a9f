package skills

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/skillkit/pkg/config"
	"github.com/jingkaihe/skillkit/pkg/frontmatter"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"my-skill", "my-skill"},
		{"My Skill!!", "my-skill"},
		{"  PDF   Tools  ", "pdf-tools"},
		{"Demo_Skill", "demo-skill"},
		{"--leading--and--trailing--", "leading-and-trailing"},
		{"a__b..c", "a-b-c"},
		{"über cool", "ber-cool"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.raw))
		})
	}
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Pdf Tools", TitleCase("pdf-tools"))
	assert.Equal(t, "Demo", TitleCase("demo"))
	assert.Equal(t, "A 1b", TitleCase("a-1b"))
}

func TestCreateSkill(t *testing.T) {
	ctx := context.Background()
	s := NewScaffolder(config.DefaultValidation())
	root := filepath.Join(t.TempDir(), "skills")

	result, err := s.CreateSkill(ctx, SkillOptions{
		Name:      "PDF Tools",
		Path:      root,
		Resources: []string{"scripts, references", "scripts"},
	})
	require.NoError(t, err)

	skillDir := filepath.Join(root, "pdf-tools")
	assert.Equal(t, "pdf-tools", result.Name)
	assert.Equal(t, skillDir, result.Path)
	assert.Equal(t, []string{
		skillDir,
		filepath.Join(skillDir, SkillFileName),
		filepath.Join(skillDir, "scripts"),
		filepath.Join(skillDir, "references"),
	}, result.Created)

	content, err := os.ReadFile(filepath.Join(skillDir, SkillFileName))
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Pdf Tools")
	assert.Contains(t, string(content), "Keep under 500 lines.")

	fm, ok := frontmatter.Parse(string(content))
	require.True(t, ok)
	assert.Equal(t, "pdf-tools", fm.Value("name"))

	t.Run("scaffolded skill validates without errors", func(t *testing.T) {
		v, err := NewValidator()
		require.NoError(t, err)

		report := v.Validate(ctx, skillDir)
		assert.Empty(t, report.Errors)
		assert.Equal(t, []string{
			"Description contains TODO placeholder",
			"SKILL.md body contains TODO placeholders",
		}, report.Warnings)
	})

	t.Run("existing directory is refused", func(t *testing.T) {
		_, err := s.CreateSkill(ctx, SkillOptions{Name: "pdf-tools", Path: root})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrExists))
	})
}

func TestCreateSkillRejectsInput(t *testing.T) {
	ctx := context.Background()
	s := NewScaffolder(config.DefaultValidation())
	root := t.TempDir()

	t.Run("empty name", func(t *testing.T) {
		_, err := s.CreateSkill(ctx, SkillOptions{Name: "***", Path: root})
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("name too long", func(t *testing.T) {
		_, err := s.CreateSkill(ctx, SkillOptions{Name: strings.Repeat("x", 65), Path: root})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "(65 chars, max 64)")
	})

	t.Run("unknown resource writes nothing", func(t *testing.T) {
		_, err := s.CreateSkill(ctx, SkillOptions{
			Name:      "demo",
			Path:      root,
			Resources: []string{"scripts", "docs", "templates"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown resource type(s): docs, templates")
		assert.Contains(t, err.Error(), "allowed: assets, references, scripts")

		_, statErr := os.Stat(filepath.Join(root, "demo"))
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestCreateAgent(t *testing.T) {
	ctx := context.Background()
	s := NewScaffolder(config.DefaultValidation())
	root := filepath.Join(t.TempDir(), "agents")

	result, err := s.CreateAgent(ctx, AgentOptions{Name: "Researcher", Path: root})
	require.NoError(t, err)

	agentFile := filepath.Join(root, "researcher.md")
	assert.Equal(t, agentFile, result.Path)
	assert.Equal(t, []string{agentFile}, result.Created)

	content, err := os.ReadFile(agentFile)
	require.NoError(t, err)

	fm, ok := frontmatter.Parse(string(content))
	require.True(t, ok)
	assert.Equal(t, []string{"name", "description", "model", "provider", "tags"}, fm.Keys())
	assert.Equal(t, "researcher", fm.Value("name"))
	assert.Equal(t, "[]", fm.Value("tags"))

	_, err = s.CreateAgent(ctx, AgentOptions{Name: "researcher", Path: root})
	assert.ErrorIs(t, err, ErrExists)
}
