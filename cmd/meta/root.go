package meta

import (
	"github.com/ValentinKolb/hivemeta/cmd/util"
	"github.com/ValentinKolb/hivemeta/lib/conf"
	"github.com/ValentinKolb/hivemeta/rpc/client"
	"github.com/ValentinKolb/hivemeta/rpc/common"
	"github.com/ValentinKolb/hivemeta/rpc/hmsapi"
	"github.com/spf13/cobra"
)

var (
	hiveConf   *conf.HiveConf
	metastore  hmsapi.IMetastore
	clientConf common.ClientConfig

	// MetaCommands represents the metastore command group
	MetaCommands = &cobra.Command{
		Use:                "meta",
		Short:              "Inspect a Hive metastore",
		Long:               `Connect to the first reachable metastore of hive.metastore.uris and inspect its catalog. If no URI is reachable the metastore client discovers the metastore from the whole configuration.`,
		PersistentPreRunE:  setupMetaClient,
		PersistentPostRunE: closeMetaClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common connection flags to the meta command
	util.SetupClientFlags(MetaCommands)

	// Add subcommands
	MetaCommands.AddCommand(databasesCmd)
	MetaCommands.AddCommand(tablesCmd)
	MetaCommands.AddCommand(schemaCmd)
	MetaCommands.AddCommand(partitionsCmd)
	MetaCommands.AddCommand(addPartitionCmd)
	MetaCommands.AddCommand(pathCmd)
	MetaCommands.AddCommand(columnsCmd)
	MetaCommands.AddCommand(perfTestCmd)
}

// setupMetaClient reads the configuration and connects to the metastore
func setupMetaClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	if err := common.InitLoggers(util.LogLevel("warn")); err != nil {
		return err
	}

	var err error
	if hiveConf, err = util.GetHiveConf(cmd); err != nil {
		return err
	}
	if clientConf, err = client.ClientConfigFromConf(hiveConf); err != nil {
		return err
	}

	// commands that work offline do not connect
	if cmd.Annotations["offline"] == "true" {
		return nil
	}

	metastore, err = client.ConnectConf(hiveConf)
	return err
}

func closeMetaClient(_ *cobra.Command, _ []string) error {
	if metastore == nil {
		return nil
	}
	return metastore.Close()
}
