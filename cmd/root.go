package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/hivemeta/cmd/meta"
	"github.com/ValentinKolb/hivemeta/cmd/serve"
	"github.com/ValentinKolb/hivemeta/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "hivemeta",
		Short: "Hive metastore connection toolkit",
		Long: fmt.Sprintf(`hivemeta (v%s)

Connects to Hive metastores over thrift, falling back from the configured
URIs to a discovering client, and serves an in-memory metastore for
development and tests.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of hivemeta",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("hivemeta v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(meta.MetaCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "log-level"
	RootCmd.PersistentFlags().String(key, "", util.WrapString("Level at which logs will be output (debug, info, warn, error). Defaults to info for serve and warn for all other commands"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
