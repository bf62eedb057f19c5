package transport

import (
	"net"

	"github.com/ValentinKolb/hivemeta/rpc/common"
	"github.com/apache/thrift/lib/go/thrift"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// IServerTransport is the interface for the server side of a transport mode.
// It serves a thrift processor to every accepted connection.
type IServerTransport interface {
	// GetName returns the name of the transport (e.g. "tcp", "http")
	GetName() string
	// Listen binds the configured endpoint. After Listen returned without an
	// error, clients can connect (requests are handled once Serve is called).
	Listen(config common.ServerConfig, processor thrift.TProcessor, protocol thrift.TProtocolFactory) error
	// Serve handles requests until Stop is called
	Serve() error
	// Addr returns the address the transport listens on, nil before Listen
	Addr() net.Addr
	// Stop closes the listener and waits for open connections to finish
	Stop() error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IClientConnector opens the transport to a single metastore endpoint
type IClientConnector interface {
	// GetName returns the name of the connector (e.g. "tcp", "http")
	GetName() string
	// Connect opens a transport to the endpoint, bounded by the connect timeout
	// of the config. On error no resources are held by the returned transport.
	Connect(endpoint common.Endpoint, config common.ClientConfig) (thrift.TTransport, error)
}
