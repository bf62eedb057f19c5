// Package cmd implements the command-line interface of hivemeta. It provides
// a hierarchical command structure with operations for inspecting a Hive
// metastore and for running an in-memory metastore.
//
// The package is organized into several subpackages:
//
//   - meta: Commands for metastore operations (databases, tables, schema, partitions, ...)
//   - serve: Commands for starting and configuring the in-memory metastore
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See hivemeta -help for a list of all commands.
package cmd
