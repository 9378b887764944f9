package cli

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	mgmt "github.com/axondata/go-mgmtbridge"
	"github.com/axondata/go-mgmtbridge/internal/transport"
)

var batchFlags struct {
	addr    string
	urls    []string
	levels  []int64
	timeout time.Duration
}

var batchCmd = &cobra.Command{
	Use:   "batch <operation> [targets...]",
	Short: "Run a batch operation on a running server",
	Long: `Run a batch operation on a running server and print its result.

Operations: ` + strings.Join(transport.BatchOps(), ", ") + `

Targets are bundle IDs, except for install and install-from-url which take
locations. install-from-url and update-from-url need one --urls entry per
target; set-start-levels needs one --levels entry per target.

The command exits non-zero when the batch stops at a failure.

Examples:
	mgmtbridge batch install file:/opt/bundles/core.jar file:/opt/bundles/web.jar
	mgmtbridge batch stop 3 4
	mgmtbridge batch set-start-levels 3 4 --levels 2,5`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := batchFlags.addr
		if addr == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			addr = "http://" + cfg.Listen
		}

		client := transport.NewClient(&http.Client{Timeout: batchFlags.timeout}, addr)
		res, err := client.Batch(cmd.Context(), args[0], args[1:], batchFlags.urls, batchFlags.levels)
		if err != nil {
			return err
		}

		printBatchResult(cmd.OutOrStdout(), args[0], res)
		if res[mgmt.FieldSuccess] != true {
			return fmt.Errorf("%s stopped at the first failure", args[0])
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFlags.addr, "addr", "", "Server base URL (default: http:// + listen from the configuration)")
	batchCmd.Flags().StringSliceVar(&batchFlags.urls, "urls", nil, "Per-target URLs for install-from-url and update-from-url")
	batchCmd.Flags().Int64SliceVar(&batchFlags.levels, "levels", nil, "Per-target start levels for set-start-levels")
	batchCmd.Flags().DurationVar(&batchFlags.timeout, "timeout", 30*time.Second, "Request timeout")
	rootCmd.AddCommand(batchCmd)
}

func printBatchResult(w io.Writer, op string, res map[string]any) {
	bold := color.New(color.Bold)
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)

	if res[mgmt.FieldSuccess] == true {
		ok.Fprintf(w, "%s: success\n", op)
	} else {
		bad.Fprintf(w, "%s: failed\n", op)
	}

	bold.Fprint(w, "  completed: ")
	fmt.Fprintln(w, formatList(res[mgmt.FieldCompleted]))

	for _, field := range []string{mgmt.FieldBundleInError, mgmt.FieldLocationInError} {
		if v, found := res[field]; found && res[mgmt.FieldSuccess] != true {
			bold.Fprint(w, "  in error:  ")
			bad.Fprintf(w, "%s (%v)\n", formatScalar(v), res[mgmt.FieldError])
		}
	}

	bold.Fprint(w, "  remaining: ")
	fmt.Fprintln(w, formatList(res[mgmt.FieldRemaining]))
}

func formatList(v any) string {
	items, _ := v.([]any)
	if len(items) == 0 {
		return "-"
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = formatScalar(item)
	}
	return strings.Join(parts, " ")
}

// formatScalar prints whole JSON numbers without a fraction
func formatScalar(v any) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprint(v)
}
