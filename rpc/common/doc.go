// Package common provides core data structures and utilities shared across
// the metastore connection layer. It defines the endpoint type, configuration
// structures, the error taxonomy, logging and metrics used by the other packages.
//
// The package focuses on:
//   - Endpoint definition for a single metastore instance
//   - Configuration structures for client and server components
//   - Typed errors for connection failures
//   - Custom logging implementation integrated with the Dragonboat logger facade
//
// Key Components:
//
//   - Endpoint: A (scheme, host, port) triple identifying a metastore instance.
//     Endpoints are never deduplicated, their order encodes preference.
//
//   - ClientConfig: Configuration for client components, controlling connect and
//     socket timeouts, retry behavior of the higher-level client and the
//     transport (mode, framing, protocol).
//
//   - ServerConfig: Configuration of the in-memory metastore server.
//
//   - ConnectionError / ReflectionError / UriParseError: The error taxonomy of
//     connection establishment. Only ConnectionError is ever returned to callers
//     of the connect functions, the others are logged or wrapped.
//
//   - Logger: Custom logging implementation that plugs a zerolog backend into
//     Dragonboat's logging facade, so every package obtains its logger with
//     logger.GetLogger(name) and levels are configured in one place.
package common
