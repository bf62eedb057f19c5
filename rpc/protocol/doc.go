// Package protocol provides the thrift protocols a metastore connection can
// be encoded with. It wraps the protocol factories of the thrift library and
// gives them a name, so the protocol can be selected through configuration.
//
// Key Components:
//
//   - Binary: The strict binary protocol. This is what a metastore speaks by
//     default and what is used if nothing else is configured.
//
//   - Compact: The compact protocol, smaller payloads at slightly higher cost.
//     Only usable if the metastore enables it as well.
//
//   - JSON: The thrift json protocol. Mostly useful to inspect the traffic of
//     the in-memory server.
//
// Thread Safety:
//
//	Protocol factories are stateless and can be shared. The protocols they
//	create are bound to a single transport and must not be shared.
package protocol
