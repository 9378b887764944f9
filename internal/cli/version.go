package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	mgmt "github.com/axondata/go-mgmtbridge"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		version, commit, date := BuildInfo()
		info := mgmt.GetVersion()
		fmt.Fprintf(cmd.OutOrStdout(), "mgmtbridge %s\ncommit:   %s\nbuilt:    %s\nlibrary:  %s\nprotocol: %s (%d element kinds)\n",
			version, commit, date, info.Version, info.Protocol, info.Tags)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
