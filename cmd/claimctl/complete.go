package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/willckim/ClaimInvestigator-AI/services/completion"
)

func newCompleteCmd(v *viper.Viper) *cobra.Command {
	var (
		task         string
		provider     string
		systemPrompt string
		maxTokens    int
		temperature  float64
		jsonMode     bool
	)

	cmd := &cobra.Command{
		Use:   "complete [text|-]",
		Short: "Redact text and run it through the provider router",
		Long: `Complete redacts the input, routes it to the provider chosen for the task
(with retries and fallback) and prints the completion. Placeholders in the
reply are left as they are.

The completion text goes to stdout; provider, latency and the redaction
summary go to stderr in text mode.

Examples:
  claimctl complete --task claim_triage "Rear-end collision, claimant John Doe"
  claimctl complete --task extraction --provider gemini --json-mode - < fnol.txt`,
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

			req := &completion.Request{
				Text:              text,
				TaskType:          task,
				PreferredProvider: provider,
				SystemPrompt:      systemPrompt,
				MaxTokens:         maxTokens,
				JSONMode:          jsonMode,
			}
			if cmd.Flags().Changed("temperature") {
				req.Temperature = &temperature
			}

			resp, err := deps.CompletionService.Complete(cmd.Context(), req)
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), format, resp, func(w io.Writer) error {
				fmt.Fprintln(w, resp.Text)
				fmt.Fprintf(cmd.ErrOrStderr(), "provider=%s model=%s latency_ms=%d fallback=%t\n%s\n",
					resp.Provider, resp.Model, resp.LatencyMs, resp.UsedFallback, resp.RedactionSummary)
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&task, "task", "", "task type (claim_triage, question_generation, coverage_analysis, file_notes, extraction, general)")
	flags.StringVar(&provider, "provider", "", "preferred provider (claude, openai, gemini, azure, ollama; default auto)")
	flags.StringVar(&systemPrompt, "system", "", "system prompt (default: the task's built-in prompt)")
	flags.IntVar(&maxTokens, "max-tokens", 0, "maximum output tokens (default from LLM_MAX_TOKENS)")
	flags.Float64Var(&temperature, "temperature", 0, "sampling temperature (default from LLM_TEMPERATURE)")
	flags.BoolVar(&jsonMode, "json-mode", false, "ask the provider for a JSON object")
	return cmd
}
