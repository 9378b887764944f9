package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/axondata/go-mgmtbridge/internal/config"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "mgmtbridge",
	Short: "Manage a module runtime and its configurations over a remote management protocol",
	Long: `mgmtbridge exposes a module runtime's bundles and configurations to remote
management clients.

Batch operations act on a list of targets in order and stop at the first
failure; the result reports what completed, what failed and what was never
attempted. Configuration properties travel as typed string tables.

Examples:
	# Serve the management procedures
	mgmtbridge serve --config ./configs/mgmtbridge.yaml

	# Start bundles 3, 4 and 5 on a running server
	mgmtbridge batch start 3 4 5

	# Decode a typed property value
	mgmtbridge codec decode --type "Array of int" "1,2,3"

	# Print build info
	mgmtbridge version

Configuration:
	Settings are read from --config, $MGMTBRIDGE_CONFIG, or mgmtbridge.yaml in
	., ./configs or ~/.mgmtbridge. Any key can be overridden with an
	MGMTBRIDGE_ environment variable, e.g. MGMTBRIDGE_LOG_LEVEL=debug.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration file")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}
