// Command export fills a single weekly report from a payload file and
// prints the result as JSON on stdout.
//
//	export --payload-file kw12.json --output out/kw12.xlsx
//
// The payload file holds {"templatePath": "...", "payload": {...}}.
package main

import (
	"github.com/spf13/cobra"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var payloadFile, output string

	cmd := &cobra.Command{
		Use:          "export",
		Short:        "Fill a Wochenbericht template from a JSON payload",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := run(payloadFile, output)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&payloadFile, "payload-file", "", "JSON payload file")
	cmd.Flags().StringVar(&output, "output", "", "output XLSX path")
	_ = cmd.MarkFlagRequired("payload-file")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
