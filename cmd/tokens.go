package cmd

import (
	"fmt"

	"quote-templater/internal/placeholder"

	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <template>",
	Short: "Show the tokens and variables a template references",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tpl, err := loadTemplate(GetConfig(), args[0])
		if err != nil {
			return err
		}
		matches := append(placeholder.FindTokens(tpl.Subject), placeholder.FindTokens(tpl.Content)...)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "template: %s\n", tpl.Name)
		fmt.Fprintln(out, "tokens:")
		seen := map[string]bool{}
		for _, m := range matches {
			if seen[m.Token] {
				continue
			}
			seen[m.Token] = true
			fmt.Fprintf(out, "  %s (var=%s)\n", m.Token, m.Var)
		}
		fmt.Fprintf(out, "vars: %v\n", placeholder.Vars(matches))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}
