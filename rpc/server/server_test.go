package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/ValentinKolb/hivemeta/rpc/common"
	"github.com/ValentinKolb/hivemeta/rpc/hmsapi"
	"github.com/ValentinKolb/hivemeta/rpc/protocol"
	"github.com/ValentinKolb/hivemeta/rpc/transport"
	httpTransport "github.com/ValentinKolb/hivemeta/rpc/transport/http"
	"github.com/ValentinKolb/hivemeta/rpc/transport/tcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer serves a seeded catalog on a random port and returns its endpoint
func startServer(t *testing.T, config common.ServerConfig, trans transport.IServerTransport, proto protocol.IProtocol) (*RPCServer, common.Endpoint) {
	t.Helper()
	config.Endpoint = "127.0.0.1:0"

	s := NewRPCServer(config, trans, proto, newSeededCatalog(t))
	require.NoError(t, s.Listen())
	go func() { _ = s.Serve() }()
	t.Cleanup(func() { _ = s.Stop() })

	addr := s.Addr().(*net.TCPAddr)
	return s, common.Endpoint{Scheme: "thrift", Host: "127.0.0.1", Port: addr.Port}
}

func connect(t *testing.T, connector transport.IClientConnector, endpoint common.Endpoint, config common.ClientConfig, proto protocol.IProtocol) hmsapi.IMetastore {
	t.Helper()
	config.TimeoutMillis = 2000
	config.SocketTimeoutMillis = 2000
	trans, err := connector.Connect(endpoint, config)
	require.NoError(t, err)
	c := hmsapi.NewClient(trans, proto)
	// registered after the server, so clients are closed before the server stops
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func exerciseCatalog(t *testing.T, c hmsapi.IMetastore) {
	ctx := context.Background()

	dbs, err := c.GetAllDatabases(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"sales"}, dbs)

	tbl, err := c.GetTable(ctx, "sales", "orders")
	require.NoError(t, err)
	assert.Equal(t, "Orders", tbl.TableName)
	assert.Len(t, tbl.PartitionKeys, 2)

	_, err = c.GetTable(ctx, "sales", "missing")
	var nse *hmsapi.NoSuchObjectException
	require.ErrorAs(t, err, &nse)

	part, err := c.AddPartition(ctx, &hmsapi.Partition{Values: []string{"2024-01-02", "FR"}, DbName: "sales", TableName: "orders"})
	require.NoError(t, err)
	assert.Equal(t, "hdfs://nn/warehouse/sales.db/orders/ds=2024-01-02/country=FR", part.Sd.Location)

	names, err := c.GetPartitionNames(ctx, "sales", "orders", -1)
	require.NoError(t, err)
	assert.Len(t, names, 3)
}

func TestServeTCP(t *testing.T) {
	for _, framed := range []bool{false, true} {
		t.Run("Framed="+strconv.FormatBool(framed), func(t *testing.T) {
			tc := common.TransportConfig{Mode: common.TransportModeBinary, Framed: framed}
			proto := protocol.NewBinaryProtocol(nil)

			_, endpoint := startServer(t, common.ServerConfig{Transport: tc}, tcp.NewServerTransport(), proto)
			c := connect(t, tcp.NewClientConnector(), endpoint, common.ClientConfig{Transport: tc}, proto)
			exerciseCatalog(t, c)
		})
	}
}

func TestServeCompactProtocol(t *testing.T) {
	proto := protocol.NewCompactProtocol(nil)
	_, endpoint := startServer(t, common.ServerConfig{}, tcp.NewServerTransport(), proto)
	c := connect(t, tcp.NewClientConnector(), endpoint, common.ClientConfig{}, proto)
	exerciseCatalog(t, c)
}

func TestServeHTTP(t *testing.T) {
	tc := common.TransportConfig{Mode: common.TransportModeHTTP, HTTPPath: "hms"}
	proto := protocol.NewBinaryProtocol(nil)

	_, endpoint := startServer(t, common.ServerConfig{Transport: tc}, httpTransport.NewServerTransport(), proto)
	c := connect(t, httpTransport.NewClientConnector(), endpoint, common.ClientConfig{Transport: tc}, proto)
	exerciseCatalog(t, c)
}

func TestMetricsEndpoint(t *testing.T) {
	metricsAddr := freeAddr(t)
	proto := protocol.NewBinaryProtocol(nil)

	_, endpoint := startServer(t, common.ServerConfig{MetricsEndpoint: metricsAddr}, tcp.NewServerTransport(), proto)
	c := connect(t, tcp.NewClientConnector(), endpoint, common.ClientConfig{}, proto)

	_, err := c.GetAllDatabases(context.Background())
	require.NoError(t, err)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + metricsAddr + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `hivemeta_server_calls_total{method="get_all_databases"}`)
}

// freeAddr returns a local address no one listens on
func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}
