package main

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/skillkit/pkg/config"
	"github.com/jingkaihe/skillkit/pkg/logger"
	"github.com/jingkaihe/skillkit/pkg/skills"
)

// ValidateConfig holds the flags of the validate command
type ValidateConfig struct {
	Format   string
	All      bool
	Watch    bool
	Quiet    bool
	Debounce time.Duration
}

// NewValidateConfig returns the validate defaults
func NewValidateConfig() *ValidateConfig {
	return &ValidateConfig{
		Format:   formatText,
		Debounce: 300 * time.Millisecond,
	}
}

// Validate checks flag combinations
func (c *ValidateConfig) Validate() error {
	if !isFormat(c.Format) {
		return errors.Errorf("unsupported format '%s' (must be one of: %s)", c.Format, formatNames())
	}
	if c.Debounce < 0 {
		return errors.Errorf("debounce cannot be negative: %s", c.Debounce)
	}
	return nil
}

var validateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Validate a skill directory",
	Long: `Validate checks a skill directory against the skill convention and prints
a report of errors and warnings. The exit status is 1 when the skill has at
least one error; warnings never fail validation.

With --all the path is treated as a root holding many skills, and every
non-hidden child directory is validated.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vc := getValidateConfigFromFlags(cmd)
		if err := vc.Validate(); err != nil {
			return err
		}
		cmd.SilenceUsage = true

		cfg, err := config.GetConfigFromViper()
		if err != nil {
			return errors.Wrap(err, "failed to load configuration")
		}

		validator, err := skills.NewValidator(skills.WithValidationConfig(cfg.Validation))
		if err != nil {
			return err
		}

		out := newReportWriter(cmd.OutOrStdout(), cmd.ErrOrStderr(), vc.Format, vc.Quiet)

		if vc.Watch {
			return runWatch(cmd.Context(), validator, out, args[0], vc)
		}

		if _, code := validateOnce(cmd.Context(), validator, out, args[0], vc.All); code != 0 {
			return &exitError{code: code}
		}
		return nil
	},
}

func init() {
	defaults := NewValidateConfig()
	validateCmd.Flags().StringP("format", "f", defaults.Format, fmt.Sprintf("Output format (%s)", formatNames()))
	validateCmd.Flags().Bool("strict", false, "Also require the frontmatter to be valid YAML")
	validateCmd.Flags().Bool("all", defaults.All, "Treat the path as a root of many skills")
	validateCmd.Flags().BoolP("watch", "w", defaults.Watch, "Re-validate whenever the skill changes")
	validateCmd.Flags().BoolP("quiet", "q", defaults.Quiet, "Only print failing reports")
	validateCmd.Flags().Duration("debounce", defaults.Debounce, "Quiet period before re-validating in watch mode")

	viper.BindPFlag("validation.strict", validateCmd.Flags().Lookup("strict"))
}

func getValidateConfigFromFlags(cmd *cobra.Command) *ValidateConfig {
	vc := NewValidateConfig()

	if format, err := cmd.Flags().GetString("format"); err == nil {
		vc.Format = format
	}
	if all, err := cmd.Flags().GetBool("all"); err == nil {
		vc.All = all
	}
	if watch, err := cmd.Flags().GetBool("watch"); err == nil {
		vc.Watch = watch
	}
	if quiet, err := cmd.Flags().GetBool("quiet"); err == nil {
		vc.Quiet = quiet
	}
	if debounce, err := cmd.Flags().GetDuration("debounce"); err == nil {
		vc.Debounce = debounce
	}

	return vc
}

// validateOnce validates path, or every skill beneath it when all is set,
// writes the reports and returns them with the exit status.
func validateOnce(ctx context.Context, validator *skills.Validator, out *reportWriter, path string, all bool) ([]*skills.Report, int) {
	targets := []string{path}
	if all {
		discovery, err := skills.NewDiscovery(skills.WithRoots(path))
		if err != nil {
			out.presenter.Error(err, "Failed to scan skills")
			return nil, 1
		}
		targets = discovery.Directories()
		if len(targets) == 0 {
			out.presenter.Error(errors.Errorf("no skill directories found under %s", path), "")
			return nil, 1
		}
	}

	reports := make([]*skills.Report, 0, len(targets))
	var result *multierror.Error
	for _, target := range targets {
		report := validator.Validate(ctx, target)
		reports = append(reports, report)
		result = multierror.Append(result, report.Err())
	}

	if err := out.Write(reports, all); err != nil {
		out.presenter.Error(err, "Failed to write report")
		return reports, 1
	}

	if err := result.ErrorOrNil(); err != nil {
		logger.G(ctx).WithError(err).Debug("validation failed")
		return reports, 1
	}
	return reports, 0
}
