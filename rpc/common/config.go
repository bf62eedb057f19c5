package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/apache/thrift/lib/go/thrift"
)

// --------------------------------------------------------------------------
// Transport configuration (shared by client and server)
// --------------------------------------------------------------------------

const (
	// TransportModeBinary is a raw socket carrying thrift messages
	TransportModeBinary = "binary"
	// TransportModeHTTP carries every thrift message in an HTTP POST
	TransportModeHTTP = "http"

	// DefaultHTTPPath is the path the metastore serves thrift over http on
	DefaultHTTPPath = "metastore"
)

type TransportConfig struct {
	// Mode is one of TransportModeBinary or TransportModeHTTP
	Mode string
	// Framed wraps the socket in a framed transport (binary mode only)
	Framed bool
	// Protocol is the name of the thrift protocol (binary, compact, json)
	Protocol string
	// HTTPPath is the url path used in http mode
	HTTPPath string
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

type ClientConfig struct {
	// TimeoutMillis bounds a single connection attempt
	TimeoutMillis int
	// SocketTimeoutMillis bounds reads and writes on an open connection, 0 disables it
	SocketTimeoutMillis int
	// RetryCount is the number of connection rounds of the higher-level client
	RetryCount int
	// RetryDelay is the initial delay between two rounds, doubled after every round
	RetryDelay time.Duration
	Transport  TransportConfig
}

// ConnectTimeout returns the connect timeout as a duration
func (c *ClientConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.TimeoutMillis) * time.Millisecond
}

// ThriftConfiguration converts the client config to the thrift configuration
// used by sockets and protocols
func (c *ClientConfig) ThriftConfiguration() *thrift.TConfiguration {
	return &thrift.TConfiguration{
		ConnectTimeout: c.ConnectTimeout(),
		SocketTimeout:  time.Duration(c.SocketTimeoutMillis) * time.Millisecond,
	}
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Connect Timeout", fmt.Sprintf("%d ms", c.TimeoutMillis))
	addField("Socket Timeout", fmt.Sprintf("%d ms", c.SocketTimeoutMillis))
	addField("Retry Count", strconv.Itoa(c.RetryCount))
	addField("Retry Delay", c.RetryDelay.String())

	// Transport
	addSection("Transport")
	addField("Mode", c.Transport.Mode)
	addField("Framed", strconv.FormatBool(c.Transport.Framed))
	addField("Protocol", c.Transport.Protocol)
	if c.Transport.Mode == TransportModeHTTP {
		addField("HTTP Path", c.Transport.HTTPPath)
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// ServerConfig configures the in-memory metastore server
type ServerConfig struct {
	// Endpoint is the address the server listens on (e.g. 0.0.0.0:9083)
	Endpoint string

	// remote client parameters
	TimeoutSecond int64

	Transport TransportConfig

	// MetricsEndpoint serves prometheus metrics if set (e.g. 0.0.0.0:9090)
	MetricsEndpoint string

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Transport Mode", c.Transport.Mode)
	addField("Framed", strconv.FormatBool(c.Transport.Framed))
	addField("Protocol", c.Transport.Protocol)
	if c.Transport.Mode == TransportModeHTTP {
		addField("HTTP Path", c.Transport.HTTPPath)
	}

	// Metrics
	if c.MetricsEndpoint != "" {
		addSection("Metrics")
		addField("Endpoint", c.MetricsEndpoint)
	}

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}
