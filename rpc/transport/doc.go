// Package transport defines the interfaces used to move thrift messages
// between a metastore client and a metastore server. It provides a common
// contract for every transport mode, so the connection logic does not depend
// on how bytes reach the server.
//
// The package focuses on:
//   - Opening client transports to a single endpoint with a bounded timeout
//   - Serving a thrift processor on the server side
//   - Supporting the transport modes of the metastore (raw socket and HTTP)
//
// Key Components:
//
//   - IClientConnector: Interface for client-side connectors. A connector
//     turns an endpoint into an open thrift.TTransport.
//
//   - IServerTransport: Interface for server-side transports that accept
//     connections and hand every request to a thrift.TProcessor.
//
// Implementations live in the tcp and http subpackages.
package transport
