package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	mgmt "github.com/axondata/go-mgmtbridge"
)

var codecType string

var codecCmd = &cobra.Command{
	Use:   "codec",
	Short: "Inspect the typed property encoding",
}

var codecDecodeCmd = &cobra.Command{
	Use:   "decode --type <tag> <text>",
	Short: "Decode a property value and print its canonical encoding",
	Long: `Decode text under a type tag, then classify and re-encode the result.

Examples:
	mgmtbridge codec decode --type Integer 42
	mgmtbridge codec decode --type "Array of int" "1,2,3"
	mgmtbridge codec decode --type "Vector of String" '"a, b",c'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decodeValue(cmd.OutOrStdout(), codecType, args[0])
	},
}

var codecTagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the type tag vocabulary",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printTags(cmd.OutOrStdout())
	},
}

func init() {
	codecDecodeCmd.Flags().StringVar(&codecType, "type", mgmt.String, "Type tag of the text")
	codecCmd.AddCommand(codecDecodeCmd, codecTagsCmd)
	rootCmd.AddCommand(codecCmd)
}

func decodeValue(w io.Writer, tagName, text string) error {
	v, err := mgmt.DecodeString(text, tagName)
	if err != nil {
		return err
	}
	tag, err := mgmt.Classify(v)
	if err != nil {
		return err
	}
	enc, err := mgmt.Encode(v)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	bold.Fprint(w, "type:    ")
	color.New(color.FgCyan).Fprintln(w, tag.String())
	bold.Fprint(w, "go type: ")
	fmt.Fprintf(w, "%T\n", v)
	bold.Fprint(w, "encoded: ")
	fmt.Fprintln(w, enc)
	return nil
}

func printTags(w io.Writer) {
	bold := color.New(color.Bold)
	name := color.New(color.FgCyan)

	bold.Fprintln(w, "Scalars and vector elements:")
	for _, k := range mgmt.Kinds() {
		if k.Boxed() {
			name.Fprintf(w, "  %s\n", k)
		}
	}
	bold.Fprintln(w, "Array-only elements:")
	for _, k := range mgmt.Kinds() {
		if k.Primitive() {
			name.Fprintf(w, "  %s\n", k)
		}
	}
	bold.Fprintln(w, "Compound prefixes:")
	fmt.Fprintf(w, "  %q\n  %q\n", mgmt.ArrayOf, mgmt.VectorOf)
}
