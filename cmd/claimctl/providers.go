package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newProvidersCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List LLM providers and whether they are configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(v)
			if err != nil {
				return err
			}

			deps, err := newDependencies(cmd, v)
			if err != nil {
				return err
			}
			defer deps.Close(cmd.Context())

			status := deps.CompletionService.Status()

			return render(cmd.OutOrStdout(), format, status, func(w io.Writer) error {
				fmt.Fprintf(w, "Mode: %s\n", status.Mode)
				if status.RedactionEnabled {
					fmt.Fprintf(w, "Redaction: enabled (%d entity types)\n\n", len(status.RedactionEntities))
				} else {
					fmt.Fprint(w, "Redaction: disabled\n\n")
				}

				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "PROVIDER\tMODEL\tAVAILABLE\tBEST FOR")
				for _, p := range status.Providers {
					available := "no"
					if p.Available {
						available = "yes"
					}
					model := p.ModelName
					if model == "" {
						model = "-"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Provider, model, available, strings.Join(p.BestFor, ", "))
				}
				return tw.Flush()
			})
		},
	}
}
