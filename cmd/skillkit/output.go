package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/jingkaihe/skillkit/pkg/presenter"
	"github.com/jingkaihe/skillkit/pkg/skills"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var formats = []string{formatText, formatJSON, formatYAML}

func isFormat(format string) bool {
	for _, f := range formats {
		if f == format {
			return true
		}
	}
	return false
}

func formatNames() string {
	return strings.Join(formats, ", ")
}

// reportWriter renders validation reports in one output format
type reportWriter struct {
	out       io.Writer
	format    string
	quiet     bool
	presenter *presenter.TerminalPresenter
}

func newReportWriter(out, errOut io.Writer, format string, quiet bool) *reportWriter {
	p := presenter.NewWithOptions(out, errOut, presenter.DetectColorMode())
	p.SetQuiet(quiet)
	return &reportWriter{
		out:       out,
		format:    format,
		quiet:     quiet,
		presenter: p,
	}
}

// Write renders reports. Structured formats emit a single object unless
// asList is set, in which case they emit a list even for one report.
func (w *reportWriter) Write(reports []*skills.Report, asList bool) error {
	switch w.format {
	case formatJSON:
		enc := json.NewEncoder(w.out)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(w.payload(reports, asList)), "failed to encode JSON report")
	case formatYAML:
		enc := yaml.NewEncoder(w.out)
		enc.SetIndent(2)
		if err := enc.Encode(w.payload(reports, asList)); err != nil {
			return errors.Wrap(err, "failed to encode YAML report")
		}
		return errors.Wrap(enc.Close(), "failed to flush YAML report")
	default:
		w.writeText(reports)
		return nil
	}
}

func (w *reportWriter) payload(reports []*skills.Report, asList bool) any {
	if !asList && len(reports) == 1 {
		return reports[0]
	}
	return reports
}

func (w *reportWriter) writeText(reports []*skills.Report) {
	printed := 0
	for _, report := range reports {
		if w.quiet && report.Valid() {
			continue
		}
		if printed > 0 {
			w.presenter.Info("")
		}
		w.presenter.Diagnostics(report.Name, report.Errors, report.Warnings)
		printed++
	}
}

// WriteChanges prints a unified diff of the diagnostics between two runs.
// Only the text format shows it; structured output stays one document per run.
func (w *reportWriter) WriteChanges(previous, current []*skills.Report) {
	if w.format != formatText {
		return
	}

	diff := diagnosticsDiff(previous, current)
	if diff == "" {
		w.presenter.Info("Diagnostics unchanged since the last run")
		return
	}
	w.presenter.Info("Changes since the last run:")
	w.presenter.Info(strings.TrimRight(diff, "\n"))
}

func diagnosticsDiff(previous, current []*skills.Report) string {
	return udiff.Unified("previous", "current", diagnosticLines(previous), diagnosticLines(current))
}

// diagnosticLines flattens reports into one "<skill>: [LEVEL] message" line
// per diagnostic.
func diagnosticLines(reports []*skills.Report) string {
	var b strings.Builder
	for _, report := range reports {
		for _, e := range report.Errors {
			fmt.Fprintf(&b, "%s: [ERROR] %s\n", report.Name, e)
		}
		for _, w := range report.Warnings {
			fmt.Fprintf(&b, "%s: [WARN] %s\n", report.Name, w)
		}
	}
	return b.String()
}
