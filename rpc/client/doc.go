// Package client connects to a Hive metastore. It provides a connection
// strategist that prefers a direct socket connection and falls back to a
// higher-level client that discovers and retries on its own.
//
// The package focuses on:
//   - Opening a connection to a known host and port
//   - Connecting to the first reachable metastore of a configuration
//   - Aggregating the failures of all attempts into a single error
//
// Key Components:
//
//   - Connect, ConnectTimeout: Open a direct connection to host:port over a raw
//     socket with the binary protocol. There is no retry and no fallback.
//
//   - ConnectConf: Tries every URI of hive.metastore.uris in order, using the
//     transport settings of the configuration. URIs without a scheme or host
//     are skipped. If no URI is reachable a
//     HiveMetaStoreClient is created from the configuration and its
//     connection is returned.
//
//   - Strategist: The strategies used by the package level functions with
//     exchangeable connector, protocol and fallback.
//
//   - HiveMetaStoreClient: The higher-level client. It honors the transport
//     settings of the configuration (http mode, framed transport, compact
//     protocol) and retries connecting with a growing delay.
//
// Usage Example:
//
//	c := conf.FromEnv()
//	c.Set(conf.MetastoreURIs, "thrift://ms1:9083,thrift://ms2:9083")
//
//	ms, err := client.ConnectConf(c)
//	if err != nil {
//	  var connErr *common.ConnectionError
//	  errors.As(err, &connErr) // connErr.Attempted lists ms1 and ms2
//	  return err
//	}
//	defer ms.Close()
//
//	tables, err := ms.GetAllTables(ctx, "default")
//
// Errors:
//
//	All connection failures are returned as *common.ConnectionError. If the
//	higher-level client does not expose its connection the cause is a
//	*common.ReflectionError, which is never retried.
//
// Thread Safety:
//
//	A connection is not safe for concurrent use. Open one connection per
//	goroutine or guard it with a mutex.
package client
