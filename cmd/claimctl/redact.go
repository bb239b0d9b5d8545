package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/willckim/ClaimInvestigator-AI/services/completion"
)

func newRedactCmd(v *viper.Viper) *cobra.Command {
	var entities []string

	cmd := &cobra.Command{
		Use:   "redact [text|-]",
		Short: "Show what would be sent upstream for a piece of claim text",
		Long: `Redact replaces PII in the given text with numbered placeholders and
prints the result with per-entity counts. Nothing leaves the machine.

Examples:
  claimctl redact "Call Jane Smith at (555) 123-4567"
  claimctl redact --entities US_SSN,EMAIL_ADDRESS - < notes.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(v)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			deps, err := newDependencies(cmd, v)
			if err != nil {
				return err
			}
			defer deps.Close(cmd.Context())

			resp, err := deps.CompletionService.Redact(cmd.Context(), &completion.RedactRequest{
				Text:     text,
				Entities: entities,
			})
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), format, resp, func(w io.Writer) error {
				fmt.Fprintln(w, resp.RedactedText)
				fmt.Fprintln(w)
				fmt.Fprintln(w, resp.Summary)
				writeCounts(w, resp.EntityCounts)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&entities, "entities", nil, "entity types to redact (default: configured set)")
	return cmd
}
