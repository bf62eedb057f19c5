// Package server implements an in-memory Hive metastore. It serves the
// metastore subset of hmsapi over any transport of this module and is used
// for local development and as the counterpart of the client in tests.
//
// Key Components:
//
//   - Catalog: An in-memory catalog of databases, tables and partitions
//     implementing hmsapi.IHandler. Partitions are keyed by their partition
//     name and get a location below their table if none is given.
//
//   - NewRPCServer: Factory function creating a server for a handler with the
//     specified transport and protocol. Every method is instrumented with
//     call, failure and duration metrics that can be exposed on a prometheus
//     endpoint.
//
// Usage Example:
//
//	catalog := server.NewCatalog()
//	if err := catalog.LoadSeed(seedFile); err != nil {
//	  log.Fatal(err)
//	}
//
//	s := server.NewRPCServer(
//	  common.ServerConfig{Endpoint: "0.0.0.0:9083", LogLevel: "info"},
//	  tcp.NewServerTransport(),
//	  protocol.NewBinaryProtocol(nil),
//	  catalog,
//	)
//
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Thread Safety:
//
//	The catalog is safe for concurrent use. Listen, Serve and Stop must not
//	be called concurrently.
package server
