package tcp

import (
	"fmt"
	"net"
	"time"

	"github.com/ValentinKolb/hivemeta/rpc/common"
	"github.com/ValentinKolb/hivemeta/rpc/transport"
	"github.com/apache/thrift/lib/go/thrift"
)

// serverTransport implements the IServerTransport interface with a thrift
// TSimpleServer (one goroutine per connection)
type serverTransport struct {
	socket *thrift.TServerSocket
	server *thrift.TSimpleServer
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IServerTransport)
// --------------------------------------------------------------------------

func (t *serverTransport) GetName() string {
	return "tcp"
}

func (t *serverTransport) Listen(config common.ServerConfig, processor thrift.TProcessor, protocol thrift.TProtocolFactory) error {
	// Idle clients are disconnected after the timeout, 0 keeps them forever
	timeout := time.Duration(config.TimeoutSecond) * time.Second

	socket, err := thrift.NewTServerSocketTimeout(config.Endpoint, timeout)
	if err != nil {
		return fmt.Errorf("failed to create server socket: %w", err)
	}
	if err := socket.Listen(); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", config.Endpoint, err)
	}

	// Server side framing must match the clients
	var transportFactory thrift.TTransportFactory
	if config.Transport.Framed {
		transportFactory = thrift.NewTFramedTransportFactoryConf(thrift.NewTTransportFactory(), nil)
	} else {
		transportFactory = thrift.NewTBufferedTransportFactory(defaultBufferSize)
	}

	t.socket = socket
	t.server = thrift.NewTSimpleServer4(processor, socket, transportFactory, protocol)
	return nil
}

func (t *serverTransport) Serve() error {
	if t.server == nil {
		return fmt.Errorf("tcp transport not initialized")
	}
	// Serve calls Listen on the socket again, which is a no-op for an open socket
	return t.server.Serve()
}

func (t *serverTransport) Addr() net.Addr {
	if t.socket == nil {
		return nil
	}
	return t.socket.Addr()
}

func (t *serverTransport) Stop() error {
	if t.server == nil {
		return nil
	}
	return t.server.Stop()
}

// --------------------------------------------------------------------------
// Server Transport Factory Method
// --------------------------------------------------------------------------

// NewServerTransport creates a new TCP server transport
func NewServerTransport() transport.IServerTransport {
	return &serverTransport{}
}
