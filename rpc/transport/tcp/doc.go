// Package tcp implements the raw socket transport mode of the metastore
// ("binary" transport mode). It provides concrete implementations of the
// transport package's interfaces on top of thrift sockets.
//
// Key Components:
//
//   - clientConnector: Opens a thrift.TSocket bounded by the connect timeout
//     and wraps it in a buffered transport, or in a framed transport if the
//     client config enables framing.
//
//   - serverTransport: Serves a processor with a thrift.TSimpleServer. Framing
//     must be configured the same way on client and server.
//
// The default buffer size is set to 64 KB, which is enough for the metadata
// requests issued against a metastore.
package tcp
