// Command cprctl searches Climate Policy Radar from the terminal.
package main

import (
	"os"

	"github.com/kailas-cloud/cprsearch/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
