package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/ValentinKolb/hivemeta/lib/conf"
	"github.com/ValentinKolb/hivemeta/rpc/common"
	"github.com/ValentinKolb/hivemeta/rpc/hmsapi"
	"github.com/ValentinKolb/hivemeta/rpc/protocol"
	"github.com/ValentinKolb/hivemeta/rpc/transport"
	"github.com/ValentinKolb/hivemeta/rpc/transport/http"
	"github.com/ValentinKolb/hivemeta/rpc/transport/tcp"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("rpc")
)

// Defaults of the higher-level client, used for keys that are not set
const (
	DefaultConnectRetries = 3
	DefaultRetryDelay     = time.Second
)

// ClientConfigFromConf derives the client configuration from the settings of
// a HiveConf. Unset keys use the defaults of the metastore client.
func ClientConfigFromConf(c *conf.HiveConf) (common.ClientConfig, error) {
	mode := strings.ToLower(strings.TrimSpace(c.GetVar(conf.MetastoreTransportMode)))
	switch mode {
	case "":
		mode = common.TransportModeBinary
	case common.TransportModeBinary, common.TransportModeHTTP:
	default:
		return common.ClientConfig{}, fmt.Errorf("invalid transport mode %q, must be %s or %s",
			mode, common.TransportModeBinary, common.TransportModeHTTP)
	}

	proto := protocol.Binary
	if c.GetBool(conf.MetastoreCompactProtocol, false) {
		proto = protocol.Compact
	}

	httpPath := c.GetVar(conf.MetastoreHTTPPath)
	if httpPath == "" {
		httpPath = common.DefaultHTTPPath
	}

	// the metastore client uses the socket timeout for connecting as well
	timeout := c.GetDuration(conf.MetastoreSocketTimeout, time.Second, DefaultTimeout)

	return common.ClientConfig{
		TimeoutMillis:       int(timeout.Milliseconds()),
		SocketTimeoutMillis: int(timeout.Milliseconds()),
		RetryCount:          c.GetInt(conf.MetastoreConnectRetries, DefaultConnectRetries),
		RetryDelay:          c.GetDuration(conf.MetastoreConnectRetryDelay, time.Second, DefaultRetryDelay),
		Transport: common.TransportConfig{
			Mode:     mode,
			Framed:   c.GetBool(conf.MetastoreFramedTransport, false),
			Protocol: proto,
			HTTPPath: httpPath,
		},
	}, nil
}

// ConnectorFor returns the client connector of a transport mode
func ConnectorFor(mode string) (transport.IClientConnector, error) {
	switch mode {
	case common.TransportModeBinary, "":
		return tcp.NewClientConnector(), nil
	case common.TransportModeHTTP:
		return http.NewClientConnector(), nil
	default:
		return nil, fmt.Errorf("invalid transport mode %s", mode)
	}
}

// openClient connects a single endpoint and wraps the transport in a client
func openClient(
	connector transport.IClientConnector,
	proto protocol.IProtocol,
	endpoint common.Endpoint,
	config common.ClientConfig,
) (hmsapi.IMetastore, error) {
	trans, err := connector.Connect(endpoint, config)
	if err != nil {
		return nil, err
	}
	return hmsapi.NewClient(trans, proto), nil
}
