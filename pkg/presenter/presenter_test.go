package presenter

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPresenter() (*TerminalPresenter, *bytes.Buffer, *bytes.Buffer) {
	var output, errorOutput bytes.Buffer
	return NewWithOptions(&output, &errorOutput, ColorNever), &output, &errorOutput
}

func TestNew(t *testing.T) {
	p := New()
	assert.Equal(t, os.Stdout, p.output)
	assert.Equal(t, os.Stderr, p.errorOutput)
	assert.False(t, p.quiet)
}

func TestDetectColorMode(t *testing.T) {
	tests := []struct {
		name          string
		noColor       string
		skillkitColor string
		expected      ColorMode
	}{
		{"NO_COLOR set", "1", "", ColorNever},
		{"SKILLKIT_COLOR always", "", "always", ColorAlways},
		{"SKILLKIT_COLOR force", "", "force", ColorAlways},
		{"SKILLKIT_COLOR never", "", "never", ColorNever},
		{"SKILLKIT_COLOR off", "", "off", ColorNever},
		{"SKILLKIT_COLOR auto", "", "auto", ColorAuto},
		{"default", "", "", ColorAuto},
		{"invalid", "", "rainbow", ColorAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("SKILLKIT_COLOR", tt.skillkitColor)
			if tt.noColor == "" {
				os.Unsetenv("NO_COLOR")
			}
			assert.Equal(t, tt.expected, DetectColorMode())
		})
	}
}

func TestError(t *testing.T) {
	p, output, errorOutput := newTestPresenter()

	p.Error(errors.New("boom"), "Failed to scaffold skill")
	p.Error(errors.New("plain"), "")
	p.Error(nil, "ignored")

	assert.Empty(t, output.String())
	assert.Equal(t, "[ERROR] Failed to scaffold skill: boom\n[ERROR] plain\n", errorOutput.String())
}

func TestMessages(t *testing.T) {
	p, output, _ := newTestPresenter()

	p.Success("done")
	p.Warning("careful")
	p.Info("fyi")
	p.Section("Skills")

	assert.Equal(t, "✓ done\n⚠ careful\nfyi\nSkills\n------\n", output.String())
}

func TestQuiet(t *testing.T) {
	p, output, errorOutput := newTestPresenter()
	p.SetQuiet(true)
	assert.True(t, p.IsQuiet())

	p.Success("done")
	p.Warning("careful")
	p.Info("fyi")
	p.Separator()
	p.Diagnostics("demo", nil, []string{"only a warning"})
	assert.Empty(t, output.String())

	p.Error(errors.New("still shown"), "")
	assert.Contains(t, errorOutput.String(), "still shown")
}

func TestDiagnostics(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		p, output, _ := newTestPresenter()
		p.Diagnostics("demo", nil, nil)

		assert.Equal(t, "Skill 'demo'\n0 error(s):\n0 warning(s):\n✓ Skill 'demo' looks good!\n", output.String())
	})

	t.Run("warnings only", func(t *testing.T) {
		p, output, _ := newTestPresenter()
		p.Diagnostics("demo", nil, []string{"Description contains TODO placeholder"})

		assert.Equal(t, "Skill 'demo'\n0 error(s):\n1 warning(s):\n"+
			"  [WARN] Description contains TODO placeholder\n"+
			"✓ Skill 'demo' is valid (with warnings)\n", output.String())
	})

	t.Run("errors and warnings", func(t *testing.T) {
		p, output, _ := newTestPresenter()
		p.Diagnostics("demo", []string{"Missing SKILL.md"}, []string{"w1", "w2"})

		assert.Equal(t, "Skill 'demo'\n1 error(s):\n  [ERROR] Missing SKILL.md\n2 warning(s):\n"+
			"  [WARN] w1\n  [WARN] w2\n✗ Skill 'demo' is invalid\n", output.String())
	})

	t.Run("quiet failing report", func(t *testing.T) {
		p, output, _ := newTestPresenter()
		p.SetQuiet(true)
		p.Diagnostics("demo", []string{"Missing SKILL.md"}, []string{"w1"})

		assert.Equal(t, "Skill 'demo'\n1 error(s):\n  [ERROR] Missing SKILL.md\n✗ Skill 'demo' is invalid\n", output.String())
	})
}
