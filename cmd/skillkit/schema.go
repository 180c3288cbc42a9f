package main

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillkit/pkg/skills"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of validation reports",
	Long:  `Print the JSON schema describing the output of 'skillkit validate --format json'.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, err := json.MarshalIndent(reportSchema(), "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal report schema")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func reportSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := r.Reflect(&skills.Report{})
	schema.Title = "skillkit validation report"
	return schema
}
