package main

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jingkaihe/skillkit/pkg/skills"
)

func testReports() []*skills.Report {
	clean := skills.NewReport("demo", "/skills/demo")

	broken := skills.NewReport("broken", "/skills/broken")
	broken.Errors = append(broken.Errors, "Missing SKILL.md")

	return []*skills.Report{clean, broken}
}

func TestReportWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	w := newReportWriter(&buf, io.Discard, formatJSON, false)

	require.NoError(t, w.Write(testReports()[:1], false))

	var single map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &single))
	assert.Equal(t, "demo", single["name"])
	assert.Equal(t, []any{}, single["errors"])

	buf.Reset()
	require.NoError(t, w.Write(testReports(), true))

	var list []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, []any{"Missing SKILL.md"}, list[1]["errors"])
}

func TestReportWriterYAML(t *testing.T) {
	var buf bytes.Buffer
	w := newReportWriter(&buf, io.Discard, formatYAML, false)

	require.NoError(t, w.Write(testReports()[1:], false))

	var report skills.Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "broken", report.Name)
	assert.Equal(t, []string{"Missing SKILL.md"}, report.Errors)
}

func TestReportWriterText(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	w := newReportWriter(&buf, io.Discard, formatText, true)

	require.NoError(t, w.Write(testReports(), true))
	assert.NotContains(t, buf.String(), "Skill 'demo'", "quiet hides passing reports")
	assert.Contains(t, buf.String(), "✗ Skill 'broken' is invalid")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééé...", truncate("éééééééé", 6))
}

func TestDiagnosticsDiff(t *testing.T) {
	before := testReports()
	assert.Empty(t, diagnosticsDiff(before, testReports()))

	after := testReports()
	after[0].Warnings = append(after[0].Warnings, "Unexpected file in skill root: notes.txt")
	after[1].Errors = nil

	diff := diagnosticsDiff(before, after)
	assert.Contains(t, diff, "--- previous")
	assert.Contains(t, diff, "+++ current")
	assert.Contains(t, diff, "+demo: [WARN] Unexpected file in skill root: notes.txt")
	assert.Contains(t, diff, "-broken: [ERROR] Missing SKILL.md")
}

func TestWriteChanges(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	w := newReportWriter(&buf, io.Discard, formatText, false)
	w.WriteChanges(testReports(), testReports())
	assert.Equal(t, "Diagnostics unchanged since the last run\n", buf.String())

	buf.Reset()
	w = newReportWriter(&buf, io.Discard, formatJSON, false)
	w.WriteChanges(testReports(), nil)
	assert.Empty(t, buf.String())
}
