package serve

import (
	"fmt"
	"os"
	"strings"

	cmdUtil "github.com/ValentinKolb/hivemeta/cmd/util"
	"github.com/ValentinKolb/hivemeta/rpc/common"
	"github.com/ValentinKolb/hivemeta/rpc/protocol"
	"github.com/ValentinKolb/hivemeta/rpc/server"
	"github.com/ValentinKolb/hivemeta/rpc/transport"
	"github.com/ValentinKolb/hivemeta/rpc/transport/http"
	"github.com/ValentinKolb/hivemeta/rpc/transport/tcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start an in-memory metastore",
		Long:    `Start an in-memory metastore with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is HIVEMETA_<flag> (e.g. HIVEMETA_ENDPOINT=0.0.0.0:9083)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitClientConfig)

	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:9083", cmdUtil.WrapString("The address on which the metastore will listen"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 0, cmdUtil.WrapString("Idle clients are disconnected after this many seconds, 0 keeps them"))

	key = "transport"
	ServeCmd.PersistentFlags().String(key, common.TransportModeBinary, cmdUtil.WrapString("Transport mode (binary, http)"))

	key = "protocol"
	ServeCmd.PersistentFlags().String(key, protocol.Binary, cmdUtil.WrapString("Thrift protocol (binary, compact, json)"))

	key = "framed"
	ServeCmd.PersistentFlags().Bool(key, false, cmdUtil.WrapString("Whether clients use a framed transport (binary transport mode only)"))

	key = "http-path"
	ServeCmd.PersistentFlags().String(key, common.DefaultHTTPPath, cmdUtil.WrapString("URL path of the metastore in http transport mode"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Address on which prometheus metrics are served under /metrics (e.g. 0.0.0.0:9090), disabled if empty"))

	key = "seed"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Path to a JSON file with the databases, tables and partitions the catalog starts with"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = cmdUtil.LogLevel("info")
	serveCmdConfig.Transport = common.TransportConfig{
		Mode:     strings.ToLower(viper.GetString("transport")),
		Framed:   viper.GetBool("framed"),
		Protocol: strings.ToLower(viper.GetString("protocol")),
		HTTPPath: viper.GetString("http-path"),
	}

	if serveCmdConfig.TimeoutSecond < 0 {
		return fmt.Errorf("timeout must not be negative")
	}

	return common.InitLoggers(serveCmdConfig.LogLevel)
}

// run starts the metastore
func run(_ *cobra.Command, _ []string) error {

	// Parse the protocol
	p, err := protocol.ByName(serveCmdConfig.Transport.Protocol, nil)
	if err != nil {
		return err
	}

	// Parse the transport
	var t transport.IServerTransport
	switch serveCmdConfig.Transport.Mode {
	case common.TransportModeHTTP:
		t = http.NewServerTransport()
	case common.TransportModeBinary:
		t = tcp.NewServerTransport()
	default:
		return fmt.Errorf("invalid transport %s", serveCmdConfig.Transport.Mode)
	}

	// Fill the catalog
	catalog := server.NewCatalog()
	if seed := viper.GetString("seed"); seed != "" {
		f, err := os.Open(seed)
		if err != nil {
			return fmt.Errorf("failed to open seed: %w", err)
		}
		defer f.Close()
		if err := catalog.LoadSeed(f); err != nil {
			return err
		}
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
		p,
		catalog,
	)

	return serv.Serve()
}
