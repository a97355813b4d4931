package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoscore/pkg/version"
)

// NewVersionCmd creates the version command, which prints the build and
// API contract versions.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "ecoscore %s (API %s)\n",
				version.GetVersion(), version.GetAPIVersion())
			return err
		},
	}
}
