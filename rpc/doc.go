// Package rpc provides the thrift communication layer between this module and
// Hive metastores.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including endpoints, configuration structures, errors, metrics and logging.
//
//   - hmsapi: The metastore structs, the client stub and the server processor.
//
//   - protocol: The thrift protocols (binary, compact, JSON) selectable by name.
//
//   - transport: Network communication abstractions with pluggable implementations
//     (TCP, HTTP).
//
//   - client: The connection strategist and the higher-level metastore client.
//
//   - server: An in-memory metastore catalog and the server serving it.
package rpc
