package protocol

import (
	"fmt"
	"strings"

	"github.com/apache/thrift/lib/go/thrift"
)

// IProtocol is a named thrift protocol factory. Client and server must use
// the same protocol.
type IProtocol interface {
	thrift.TProtocolFactory
	// GetName returns the name used to select the protocol in configuration
	GetName() string
}

// Names of the supported protocols
const (
	Binary  = "binary"
	Compact = "compact"
	JSON    = "json"
)

type namedProtocol struct {
	thrift.TProtocolFactory
	name string
}

func (p *namedProtocol) GetName() string {
	return p.name
}

// NewBinaryProtocol creates the default protocol of the metastore (strict
// binary encoding)
func NewBinaryProtocol(cfg *thrift.TConfiguration) IProtocol {
	return &namedProtocol{thrift.NewTBinaryProtocolFactoryConf(cfg), Binary}
}

// NewCompactProtocol creates the compact protocol, a metastore must be
// configured with hive.metastore.thrift.compact.protocol.enabled to use it
func NewCompactProtocol(cfg *thrift.TConfiguration) IProtocol {
	return &namedProtocol{thrift.NewTCompactProtocolFactoryConf(cfg), Compact}
}

// NewJSONProtocol creates the thrift json protocol, useful for debugging.
// It has no size limits to configure.
func NewJSONProtocol() IProtocol {
	return &namedProtocol{thrift.NewTJSONProtocolFactory(), JSON}
}

// ByName returns the protocol with the given name, an empty name selects the
// binary protocol
func ByName(name string, cfg *thrift.TConfiguration) (IProtocol, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Binary, "":
		return NewBinaryProtocol(cfg), nil
	case Compact:
		return NewCompactProtocol(cfg), nil
	case JSON:
		return NewJSONProtocol(), nil
	default:
		return nil, fmt.Errorf("unknown protocol %q, must be one of %s, %s, %s", name, Binary, Compact, JSON)
	}
}
