package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/willckim/ClaimInvestigator-AI/utils"
)

var outputFormats = []string{"text", "json", "yaml"}

// newRootCmd builds the claimctl command tree around its own viper instance
func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:   "claimctl",
		Short: "Redact claim text and run LLM completions from the command line",
		Long: `claimctl drives the ClaimInvestigator gateway pipeline locally: claim text
is scrubbed of PII before any provider sees it, and completions are routed
with the same retry and fallback rules as the API.

Settings come from the gateway's environment variables, an optional
claimctl.yaml, and flags, in increasing precedence.

Examples:
  claimctl redact "Claimant SSN 123-45-6789"
  cat notes.txt | claimctl complete --task file_notes -
  claimctl providers --output json`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := readConfigFile(v, cfgFile); err != nil {
				return err
			}
			_, err := outputFormat(v)
			return err
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./claimctl.yaml or $HOME/claimctl.yaml)")
	flags.StringP("output", "o", "text", "output format (text, json, yaml)")
	flags.Bool("offline", false, "serve canned responses when no provider is configured")
	flags.String("log-level", "error", "log level written to stderr")

	_ = v.BindPFlag("output", flags.Lookup("output"))
	_ = v.BindPFlag("routing.offline", flags.Lookup("offline"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))
	bindEnv(v)

	root.AddCommand(
		newRedactCmd(v),
		newProvidersCmd(v),
		newCompleteCmd(v),
	)
	return root
}

// readConfigFile loads claimctl.yaml. A missing default file is not an error;
// a missing explicit --config file is.
func readConfigFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName("claimctl")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func outputFormat(v *viper.Viper) (string, error) {
	format := strings.ToLower(strings.TrimSpace(v.GetString("output")))
	if err := utils.ValidateOneOf(format, "output", outputFormats); err != nil {
		return "", err
	}
	return format, nil
}
