package cmd

import (
	"fmt"
	"text/tabwriter"

	"quote-templater/internal/repository"

	"github.com/spf13/cobra"
)

var placeholdersCmd = &cobra.Command{
	Use:   "placeholders",
	Short: "List registered placeholders",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		// Registration never touches the store, an empty one is enough.
		mgr, err := newManager(cfg, repository.NewMemoryStore())
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tINPUT\tON FAILURE")
		for _, e := range mgr.Placeholders() {
			onFail := "keep token"
			switch {
			case e.HasDefault():
				onFail = fmt.Sprintf("default %q", e.Default)
			case e.Fallback:
				onFail = "blank"
			}
			fmt.Fprintf(tw, "[%s]\t%s\t%s\n", e.Name, e.Input(), onFail)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(placeholdersCmd)
}
