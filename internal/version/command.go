package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AttachCobraVersionCommand registers a `version` subcommand on the given
// root. Every sdb binary carries it so an operator can match the tool on a
// host against the release it came from.
func AttachCobraVersionCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version and build metadata",
		Long:  "Print the tool version together with the git commit and build timestamp stamped in when the binary was built.",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), Full())
		},
	})
}
