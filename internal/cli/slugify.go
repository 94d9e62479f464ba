package cli

import (
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/cprsearch"
)

func newSlugifyCmd() *cobra.Command {
	var each bool
	cmd := &cobra.Command{
		Use:   "slugify TEXT...",
		Short: "Print the URL slug of the given text",
		Long: `Print the slug the search API expects for geography filters.

Arguments are joined with spaces unless --each is set, in which case
every argument is slugified on its own line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if each {
				for _, a := range args {
					fprintln(w, cprsearch.Slugify(a))
				}
				return nil
			}
			fprintln(w, cprsearch.Slugify(joinArgs(args)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&each, "each", false, "slugify each argument separately")
	return cmd
}
