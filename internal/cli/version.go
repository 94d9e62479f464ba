package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/cprsearch/internal/version"
)

func newVersionCmd() *cobra.Command {
	var short, jsonOutput bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if short {
				fprintln(w, version.Version)
				return nil
			}

			if jsonOutput {
				info := map[string]string{
					"version":   version.Version,
					"commit":    version.Commit,
					"built":     version.Date,
					"goVersion": runtime.Version(),
					"platform":  runtime.GOOS + "/" + runtime.GOARCH,
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(info) //nolint:wrapcheck // terminal write
			}

			_, _ = fmt.Fprintf(w, "cprctl version %s\n", version.Version)
			_, _ = fmt.Fprintf(w, "  commit:     %s\n", version.Commit)
			_, _ = fmt.Fprintf(w, "  built:      %s\n", version.Date)
			_, _ = fmt.Fprintf(w, "  go version: %s\n", runtime.Version())
			_, _ = fmt.Fprintf(w, "  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print version string only")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}
