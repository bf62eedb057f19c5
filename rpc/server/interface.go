package server

import (
	"net"

	"github.com/ValentinKolb/hivemeta/rpc/hmsapi"
)

// IServer is a running metastore server
type IServer interface {
	// Listen binds the configured endpoints, requests are handled once Serve is called
	Listen() error
	// Serve handles requests until Stop is called, it calls Listen if necessary
	Serve() error
	// Addr returns the address of the metastore endpoint, nil before Listen
	Addr() net.Addr
	// Stop closes all endpoints
	Stop() error
}

var (
	_ IServer         = (*RPCServer)(nil)
	_ hmsapi.IHandler = (*Catalog)(nil)
)
