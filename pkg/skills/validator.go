package skills

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jingkaihe/skillkit/pkg/config"
	"github.com/jingkaihe/skillkit/pkg/logger"
	"github.com/jingkaihe/skillkit/pkg/telemetry"
)

// Validator checks skill directories against the skill convention
type Validator struct {
	config config.ValidationConfig
	rules  []Rule
}

// ValidatorOption configures a Validator
type ValidatorOption func(*Validator) error

// WithValidationConfig sets limits, ignore globs and strict mode.
func WithValidationConfig(cfg config.ValidationConfig) ValidatorOption {
	return func(v *Validator) error {
		for _, pattern := range cfg.Ignore {
			if !doublestar.ValidatePattern(pattern) {
				return errors.Errorf("invalid ignore pattern '%s'", pattern)
			}
		}
		v.config = cfg.WithDefaults()
		return nil
	}
}

// WithRules replaces the default rule set.
func WithRules(rules ...Rule) ValidatorOption {
	return func(v *Validator) error {
		if len(rules) == 0 {
			return errors.New("at least one rule must be specified")
		}
		v.rules = rules
		return nil
	}
}

// NewValidator creates a validator. Without options it enforces the default
// limits with the default rules.
func NewValidator(opts ...ValidatorOption) (*Validator, error) {
	v := &Validator{
		config: config.DefaultValidation(),
		rules:  DefaultRules(),
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, errors.Wrap(err, "failed to apply validator option")
		}
	}

	if v.config.Strict {
		v.rules = append(v.rules, StrictYAMLRule())
	}

	return v, nil
}

// Validate checks the skill directory at path. Problems with the skill
// itself, including a missing or unreadable path, end up in the report;
// Validate never fails.
func (v *Validator) Validate(ctx context.Context, path string) *Report {
	ctx = logger.WithFields(ctx, logrus.Fields{
		"run_id": uuid.NewString(),
		"path":   path,
	})

	var report *Report
	_ = telemetry.WithSpan(ctx, "skills.validate", func(ctx context.Context) error {
		report = v.validate(ctx, path)
		telemetry.SetAttributes(ctx,
			attribute.String("skill.name", report.Name),
			attribute.Int("skill.errors", len(report.Errors)),
			attribute.Int("skill.warnings", len(report.Warnings)),
		)
		return report.Err()
	}, attribute.String("skill.path", path))

	logger.G(ctx).WithFields(logrus.Fields{
		"skill":    report.Name,
		"errors":   len(report.Errors),
		"warnings": len(report.Warnings),
	}).Debug("validated skill")

	return report
}

func (v *Validator) validate(ctx context.Context, path string) *Report {
	dir, err := filepath.Abs(path)
	if err != nil {
		dir = filepath.Clean(path)
	}
	report := NewReport(filepath.Base(dir), dir)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		report.Add(errorf("Not a directory: %s", dir))
		return report
	}

	def, err := LoadDefinition(dir)
	if err != nil {
		if errors.Is(err, ErrMissingSkillFile) {
			report.Add(errorf("Missing %s", SkillFileName))
		} else {
			logger.G(ctx).WithError(err).Warn("failed to load skill definition")
			report.Add(errorf("Cannot read %s: %v", SkillFileName, errors.Cause(err)))
		}
		return report
	}

	for _, rule := range v.rules {
		diags := rule.Check(def, v.config)
		if len(diags) > 0 {
			logger.G(ctx).WithFields(logrus.Fields{
				"rule":        rule.Name,
				"diagnostics": len(diags),
			}).Debug("rule reported diagnostics")
		}
		for _, d := range diags {
			report.Add(d)
		}
	}

	return report
}
