package skills

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Severity separates blocking diagnostics from advisory ones.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is a single finding produced by a rule.
type Diagnostic struct {
	Severity Severity
	Message  string
}

func errorf(format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

func warnf(format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

// Report is the outcome of validating one skill directory.
type Report struct {
	Name     string   `json:"name" yaml:"name" jsonschema:"description=Basename of the skill directory"`
	Path     string   `json:"path" yaml:"path" jsonschema:"description=Absolute path that was validated"`
	Errors   []string `json:"errors" yaml:"errors" jsonschema:"description=Blocking problems"`
	Warnings []string `json:"warnings" yaml:"warnings" jsonschema:"description=Advisory problems that never fail validation"`
}

// NewReport returns an empty report for the named definition.
func NewReport(name, path string) *Report {
	return &Report{
		Name:     name,
		Path:     path,
		Errors:   []string{},
		Warnings: []string{},
	}
}

// Add appends d to the matching list.
func (r *Report) Add(d Diagnostic) {
	switch d.Severity {
	case SeverityError:
		r.Errors = append(r.Errors, d.Message)
	default:
		r.Warnings = append(r.Warnings, d.Message)
	}
}

// Valid reports whether no errors were found. Warnings do not count.
func (r *Report) Valid() bool {
	return len(r.Errors) == 0
}

// ExitCode is 1 when the report holds errors, 0 otherwise.
func (r *Report) ExitCode() int {
	if r.Valid() {
		return 0
	}
	return 1
}

// Err folds the errors into a single error, or nil for a valid report.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, msg := range r.Errors {
		result = multierror.Append(result, errors.New(msg))
	}
	if result == nil {
		return nil
	}
	result.ErrorFormat = func(errs []error) string {
		return fmt.Sprintf("skill '%s' has %d error(s): %s", r.Name, len(errs), multierror.ListFormatFunc(errs))
	}
	return result
}
