package http

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ValentinKolb/hivemeta/rpc/common"
	"github.com/ValentinKolb/hivemeta/rpc/transport"
	"github.com/apache/thrift/lib/go/thrift"
)

// clientConnector implements the IClientConnector interface for the http
// transport mode of the metastore
type clientConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IClientConnector)
// --------------------------------------------------------------------------

func (c *clientConnector) GetName() string {
	return "http"
}

func (c *clientConnector) Connect(endpoint common.Endpoint, config common.ClientConfig) (thrift.TTransport, error) {
	timeout := config.ConnectTimeout()

	// HTTP clients connect lazily, probe the endpoint so an unreachable
	// metastore fails here and not on the first call
	conn, err := net.DialTimeout("tcp", endpoint.Address(), timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to reach %s: %w", endpoint.Address(), err)
	}
	if err := conn.Close(); err != nil {
		Logger.Warningf("failed to close probe connection to %s: %v", endpoint.Address(), err)
	}

	client := &http.Client{
		Timeout: time.Duration(config.SocketTimeoutMillis) * time.Millisecond,
		Transport: &http.Transport{
			DialContext:         (&net.Dialer{Timeout: timeout}).DialContext,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	trans, err := thrift.NewTHttpClientWithOptions(EndpointURL(endpoint, config.Transport.HTTPPath), thrift.THttpClientOptions{Client: client})
	if err != nil {
		return nil, err
	}
	if err := trans.Open(); err != nil {
		return nil, err
	}
	return trans, nil
}

// EndpointURL returns the url thrift messages are posted to
func EndpointURL(endpoint common.Endpoint, path string) string {
	if path == "" {
		path = common.DefaultHTTPPath
	}
	u := url.URL{
		Scheme: "http",
		Host:   endpoint.Address(),
		Path:   "/" + strings.TrimPrefix(path, "/"),
	}
	return u.String()
}

// --------------------------------------------------------------------------
// Client Connector Factory Method
// --------------------------------------------------------------------------

// NewClientConnector creates a new HTTP client connector
func NewClientConnector() transport.IClientConnector {
	return &clientConnector{}
}
