package common

import (
	"net"
	"strconv"
)

// DefaultMetastorePort is used for metastore URIs that do not carry an explicit port
const DefaultMetastorePort = 9083

// Endpoint identifies a single metastore service instance
type Endpoint struct {
	Scheme string
	Host   string
	Port   int
}

// Address returns the endpoint in host:port form (IPv6 hosts are bracketed)
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// String returns the endpoint in URI form, e.g. thrift://localhost:9083
func (e Endpoint) String() string {
	if e.Scheme == "" {
		return e.Address()
	}
	return e.Scheme + "://" + e.Address()
}
