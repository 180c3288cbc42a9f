package main

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillkit/pkg/config"
	"github.com/jingkaihe/skillkit/pkg/presenter"
	"github.com/jingkaihe/skillkit/pkg/skills"
)

// InitConfig holds the flags of the init command
type InitConfig struct {
	Path      string
	Resources []string
	Agent     bool
}

// NewInitConfig returns the init defaults
func NewInitConfig() *InitConfig {
	return &InitConfig{}
}

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Scaffold a new skill or agent profile",
	Long: `Init creates <path>/<name>/SKILL.md from a template that passes validation,
plus any requested resource directories. With --agent it creates a single
<path>/<name>.md agent profile instead.

The name is normalized to lowercase letters, digits and hyphens first.

Examples:
  skillkit init "PDF Tools" --path ./skills --resources scripts,references
  skillkit init researcher --path ./agents --agent`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ic := getInitConfigFromFlags(cmd)
		cmd.SilenceUsage = true

		cfg, err := config.GetConfigFromViper()
		if err != nil {
			return errors.Wrap(err, "failed to load configuration")
		}

		p := presenter.NewWithOptions(cmd.OutOrStdout(), cmd.ErrOrStderr(), presenter.DetectColorMode())
		scaffolder := skills.NewScaffolder(cfg.Validation)

		if name := skills.NormalizeName(args[0]); name != "" && name != args[0] {
			p.Info(fmt.Sprintf("Note: Normalized name from '%s' to '%s'", args[0], name))
		}

		if ic.Agent {
			return initAgent(cmd, p, scaffolder, args[0], ic)
		}
		return initSkill(cmd, p, scaffolder, args[0], ic)
	},
}

func init() {
	defaults := NewInitConfig()
	initCmd.Flags().StringP("path", "p", defaults.Path, "Directory to create the skill or agent in")
	initCmd.Flags().StringSliceP("resources", "r", defaults.Resources, "Resource directories to create (scripts, references, assets)")
	initCmd.Flags().Bool("agent", defaults.Agent, "Create an agent profile instead of a skill")
	initCmd.MarkFlagRequired("path")
}

func getInitConfigFromFlags(cmd *cobra.Command) *InitConfig {
	ic := NewInitConfig()

	if path, err := cmd.Flags().GetString("path"); err == nil {
		ic.Path = path
	}
	if resources, err := cmd.Flags().GetStringSlice("resources"); err == nil {
		ic.Resources = resources
	}
	if agent, err := cmd.Flags().GetBool("agent"); err == nil {
		ic.Agent = agent
	}

	return ic
}

func initSkill(cmd *cobra.Command, p *presenter.TerminalPresenter, s *skills.Scaffolder, name string, ic *InitConfig) error {
	result, err := s.CreateSkill(cmd.Context(), skills.SkillOptions{
		Name:      name,
		Path:      ic.Path,
		Resources: ic.Resources,
	})
	if err != nil {
		p.Error(err, "Failed to create skill")
		return &exitError{code: 1}
	}

	for _, created := range result.Created {
		rel, err := filepath.Rel(result.Path, created)
		switch {
		case err != nil || rel == ".":
			p.Success(fmt.Sprintf("Created skill directory: %s", created))
		case rel == skills.SkillFileName:
			p.Success(fmt.Sprintf("Created %s", rel))
		default:
			p.Success(fmt.Sprintf("Created %s/", rel))
		}
	}

	p.Info("")
	p.Success(fmt.Sprintf("Skill '%s' initialized at %s", result.Name, result.Path))
	p.Info("")
	p.Info("Next steps:")
	p.Info(fmt.Sprintf("1. Edit %s and fill in the description and instructions", skills.SkillFileName))
	if len(ic.Resources) > 0 {
		p.Info("2. Add resources to scripts/, references/, assets/ as needed")
	}
	p.Info(fmt.Sprintf("3. Run 'skillkit validate %s' to check the structure", result.Path))
	return nil
}

func initAgent(cmd *cobra.Command, p *presenter.TerminalPresenter, s *skills.Scaffolder, name string, ic *InitConfig) error {
	result, err := s.CreateAgent(cmd.Context(), skills.AgentOptions{
		Name: name,
		Path: ic.Path,
	})
	if err != nil {
		p.Error(err, "Failed to create agent profile")
		return &exitError{code: 1}
	}

	p.Success(fmt.Sprintf("Created agent profile: %s", result.Path))
	p.Info("")
	p.Info("Next: Edit the file to fill in TODO items.")
	return nil
}
