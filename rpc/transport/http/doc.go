// Package http implements the HTTP transport mode of the metastore
// (hive.metastore.transport.mode=http). Every thrift message is sent as the
// body of an HTTP POST to a fixed path, "/metastore" unless configured
// otherwise.
//
// Key Components:
//
//   - clientConnector: Implements transport.IClientConnector. Since HTTP
//     clients connect lazily, Connect probes the endpoint with a plain TCP dial
//     bounded by the connect timeout before the thrift http client is created.
//
//   - httpServerTransport: Implements transport.IServerTransport, serving a
//     thrift processor through thrift.NewThriftHandlerFunc. With log level
//     debug every request is logged with its status code and duration.
//
// Thread Safety:
//
//	A client transport belongs to a single metastore client and must not be
//	shared. The server transport handles requests concurrently.
package http
