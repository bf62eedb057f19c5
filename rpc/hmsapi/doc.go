// Package hmsapi contains the Thrift structs, the client stub and the server
// processor for the subset of the ThriftHiveMetastore service used by this
// module.
//
// The code mirrors what the Thrift compiler generates for hive_metastore.thrift
// (field ids, method names and exception slots are wire compatible with a real
// metastore) but only models the fields and methods that are actually used.
// Unknown fields sent by a newer metastore are skipped.
//
// Key Components:
//
//   - IHandler: The metastore operations (databases, tables, partitions).
//
//   - IMetastore: A connected client, an IHandler that owns its transport.
//     Created with NewClient on an open thrift.TTransport.
//
//   - Processor: A thrift.TProcessor dispatching calls to an IHandler. Declared
//     exceptions (MetaException, NoSuchObjectException, ...) returned by the
//     handler are sent as part of the result, all other errors become an
//     INTERNAL_ERROR application exception.
package hmsapi
