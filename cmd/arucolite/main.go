// Command arucolite runs the ArUco-style marker detector against
// still PGM frames from the command line, writing the results as JSON
// or publishing them to an MQTT broker.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "arucolite",
		Short: "Detect ArUco-style fiducial markers in grayscale frames",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "arucolite.toml", "path to a TOML detector config")

	root.AddCommand(newProcessCmd())
	root.AddCommand(newBatchCmd())
	root.AddCommand(newPublishCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
