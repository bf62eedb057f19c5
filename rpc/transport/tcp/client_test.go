package tcp

import (
	"net"
	"strconv"
	"testing"

	"github.com/ValentinKolb/hivemeta/rpc/common"
	"github.com/apache/thrift/lib/go/thrift"
)

// endpointOf converts a listener address to an endpoint
func endpointOf(t *testing.T, addr net.Addr) common.Endpoint {
	t.Helper()
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		t.Fatalf("Failed to split address: %v", err)
	}
	p, _ := strconv.Atoi(port)
	return common.Endpoint{Scheme: "thrift", Host: host, Port: p}
}

// closedEndpoint returns an endpoint nothing listens on
func closedEndpoint(t *testing.T) common.Endpoint {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	endpoint := endpointOf(t, l.Addr())
	_ = l.Close()
	return endpoint
}

func TestClientConnector(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	defer l.Close()

	// accept (and hold) connections in the background
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	testCases := []struct {
		name   string
		framed bool
	}{
		{name: "Buffered", framed: false},
		{name: "Framed", framed: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := common.ClientConfig{TimeoutMillis: 1000}
			config.Transport.Framed = tc.framed

			trans, err := NewClientConnector().Connect(endpointOf(t, l.Addr()), config)
			if err != nil {
				t.Fatalf("Failed to connect: %v", err)
			}
			defer trans.Close()

			if !trans.IsOpen() {
				t.Errorf("Expected open transport")
			}
			if _, ok := trans.(*thrift.TFramedTransport); ok != tc.framed {
				t.Errorf("Expected framed=%v, got %T", tc.framed, trans)
			}
		})
	}
}

func TestClientConnectorRefused(t *testing.T) {
	config := common.ClientConfig{TimeoutMillis: 500}

	trans, err := NewClientConnector().Connect(closedEndpoint(t), config)
	if err == nil {
		_ = trans.Close()
		t.Fatalf("Expected connection error")
	}
	if trans != nil {
		t.Errorf("Expected no transport on error, got %T", trans)
	}
}
