package tcp

import (
	"fmt"

	"github.com/ValentinKolb/hivemeta/rpc/common"
	"github.com/ValentinKolb/hivemeta/rpc/transport"
	"github.com/apache/thrift/lib/go/thrift"
)

const (
	defaultBufferSize = 64 * 1024 // 64 KB
)

// clientConnector implements the IClientConnector interface for TCP sockets
type clientConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IClientConnector)
// --------------------------------------------------------------------------

func (c *clientConnector) GetName() string {
	return "tcp"
}

func (c *clientConnector) Connect(endpoint common.Endpoint, config common.ClientConfig) (thrift.TTransport, error) {
	conf := config.ThriftConfiguration()

	// Open the socket (bounded by the connect timeout)
	socket := thrift.NewTSocketConf(endpoint.Address(), conf)
	if err := socket.Open(); err != nil {
		_ = socket.Close()
		return nil, fmt.Errorf("failed to open socket to %s: %w", endpoint.Address(), err)
	}

	// Wrap the socket, framed transports are required by metastores running
	// with hive.metastore.thrift.framed.transport.enabled
	if config.Transport.Framed {
		return thrift.NewTFramedTransportConf(socket, conf), nil
	}
	return thrift.NewTBufferedTransport(socket, defaultBufferSize), nil
}

// --------------------------------------------------------------------------
// Client Connector Factory Method
// --------------------------------------------------------------------------

// NewClientConnector creates a new TCP client connector
func NewClientConnector() transport.IClientConnector {
	return &clientConnector{}
}
