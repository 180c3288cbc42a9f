package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillkit/pkg/presenter"
	"github.com/jingkaihe/skillkit/pkg/skills"
)

const maxListDescription = 60

var listCmd = &cobra.Command{
	Use:   "list [roots...]",
	Short: "List discovered skills",
	Long: `List the skills found beneath the given roots, or beneath ./skills and
~/.skillkit/skills when no root is given. A skill in an earlier root hides a
skill with the same directory name in a later one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pattern, _ := cmd.Flags().GetString("filter")

		opts := []skills.Option{skills.WithDefaultRoots()}
		if len(args) > 0 {
			opts = []skills.Option{skills.WithRoots(args...)}
		}

		discovery, err := skills.NewDiscovery(opts...)
		if err != nil {
			return err
		}

		found, err := discovery.Discover()
		if err != nil {
			return err
		}

		found, err = skills.Filter(found, pattern)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		if len(found) == 0 {
			presenter.NewWithOptions(cmd.OutOrStdout(), cmd.ErrOrStderr(), presenter.DetectColorMode()).Info("No skills found")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDIRECTORY\tDESCRIPTION")
		fmt.Fprintln(tw, "----\t---------\t-----------")
		for _, skill := range found {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", skill.Name, skill.Directory, truncate(skill.Description, maxListDescription))
		}
		return tw.Flush()
	},
}

func init() {
	listCmd.Flags().String("filter", "", "Only list skills whose name matches this glob")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
