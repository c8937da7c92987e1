package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var versionFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the portfolio version",
	RunE: func(cmd *cobra.Command, args []string) error {
		switch versionFormat {
		case "json":
			return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{
				"version":    version,
				"go_version": runtime.Version(),
				"platform":   runtime.GOOS + "/" + runtime.GOARCH,
			})
		case "text":
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "portfolio %s (%s %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return err
		default:
			return fmt.Errorf("unsupported format: %s (supported: text, json)", versionFormat)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "output format (text, json)")
}
