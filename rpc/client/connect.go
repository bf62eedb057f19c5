package client

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ValentinKolb/hivemeta/lib/conf"
	"github.com/ValentinKolb/hivemeta/rpc/common"
	"github.com/ValentinKolb/hivemeta/rpc/hmsapi"
	"github.com/ValentinKolb/hivemeta/rpc/protocol"
	"github.com/ValentinKolb/hivemeta/rpc/transport"
	"github.com/hashicorp/go-multierror"
)

// DefaultTimeout bounds a direct connection attempt if no timeout is given
const DefaultTimeout = 20 * time.Second

// FallbackFactory creates the higher-level metastore client from the whole
// configuration. It is used once every configured URI failed.
type FallbackFactory func(c *conf.HiveConf) (io.Closer, error)

// rawClientHolder is implemented by higher-level clients that expose the
// low-level connection they wrap
type rawClientHolder interface {
	RawClient() hmsapi.IMetastore
}

// Strategist connects to a metastore. The higher-level client created by
// Fallback is used once every URI of a configuration failed.
//
// Direct connections follow the transport settings of the configuration.
// Connector, Protocol and Timeout override them if set, ConnectTimeout uses
// raw sockets and the binary protocol for the unset ones.
type Strategist struct {
	Connector transport.IClientConnector
	Protocol  protocol.IProtocol
	Fallback  FallbackFactory
	// Timeout bounds every direct attempt of ConnectConf
	Timeout time.Duration
}

// DefaultStrategist connects directly as configured and falls back to a
// HiveMetaStoreClient
func DefaultStrategist() *Strategist {
	return &Strategist{
		Fallback: func(c *conf.HiveConf) (io.Closer, error) {
			return NewHiveMetaStoreClient(c)
		},
	}
}

// --------------------------------------------------------------------------
// Package level helpers (use the default strategist)
// --------------------------------------------------------------------------

// Connect opens a connection to host:port with DefaultTimeout
func Connect(host string, port int) (hmsapi.IMetastore, error) {
	return DefaultStrategist().ConnectTimeout(host, port, DefaultTimeout)
}

// ConnectTimeout opens a connection to host:port, timeout bounds connecting
// and every later read or write
func ConnectTimeout(host string, port int, timeout time.Duration) (hmsapi.IMetastore, error) {
	return DefaultStrategist().ConnectTimeout(host, port, timeout)
}

// ConnectConf connects to the first reachable metastore of a configuration,
// see Strategist.ConnectConf
func ConnectConf(c *conf.HiveConf) (hmsapi.IMetastore, error) {
	return DefaultStrategist().ConnectConf(c)
}

// --------------------------------------------------------------------------
// Strategies
// --------------------------------------------------------------------------

// ConnectTimeout opens a direct connection to host:port. There is no retry
// and no fallback, a failure is returned as *common.ConnectionError.
func (s *Strategist) ConnectTimeout(host string, port int, timeout time.Duration) (hmsapi.IMetastore, error) {
	endpoint := common.Endpoint{Host: host, Port: port}

	var err error
	if host == "" || port < 1 || port > 65535 {
		err = fmt.Errorf("invalid metastore address %s", endpoint.Address())
	} else {
		config := common.ClientConfig{
			TimeoutMillis:       int(timeout.Milliseconds()),
			SocketTimeoutMillis: int(timeout.Milliseconds()),
			Transport: common.TransportConfig{
				Mode:     common.TransportModeBinary,
				Protocol: protocol.Binary,
			},
		}
		var d *directConfig
		if d, err = s.direct(config); err == nil {
			var client hmsapi.IMetastore
			if client, err = d.connect(endpoint); err == nil {
				return client, nil
			}
		}
	}
	return nil, common.NewConnectionError([]common.Endpoint{endpoint}, multierror.Append(nil, err), err)
}

// ConnectConf tries every URI of hive.metastore.uris in order and returns
// the first connection that could be opened. Unusable URI entries are logged
// and skipped. If no URI is reachable the higher-level client is created
// from the whole configuration and its connection is returned. Partially
// opened connections are closed before the next attempt.
//
// If both strategies fail a *common.ConnectionError is returned. It lists
// the attempted endpoints and aggregates every failure.
func (s *Strategist) ConnectConf(c *conf.HiveConf) (hmsapi.IMetastore, error) {
	if c == nil {
		c = conf.New()
	}

	var errs *multierror.Error
	endpoints := conf.Endpoints(c, conf.MetastoreURIs)
	if len(endpoints) == 0 {
		Logger.Warningf("No metastore URIs to connect to in %s", conf.MetastoreURIs)
	} else if d, err := s.directFromConf(c); err != nil {
		Logger.Warningf("Skipping direct connections: %v", err)
		errs = multierror.Append(errs, err)
	} else {
		for _, endpoint := range endpoints {
			Logger.Infof("Connecting to metastore %s", endpoint.Address())
			client, err := d.connect(endpoint)
			if err == nil {
				Logger.Infof("Connected to metastore %s", endpoint.Address())
				return client, nil
			}
			Logger.Warningf("Failed to connect to metastore %s: %v", endpoint.Address(), err)
			errs = multierror.Append(errs, err)
		}
		Logger.Warningf("No metastore of %s is reachable, falling back to the metastore client", conf.MetastoreURIs)
	}

	client, err := s.connectFallback(c)
	if err == nil {
		return client, nil
	}
	Logger.Errorf("Failed to connect to the metastore: %v", err)
	errs = multierror.Append(errs, err)
	return nil, common.NewConnectionError(endpoints, errs, err)
}

// directConfig holds everything a direct attempt needs
type directConfig struct {
	connector transport.IClientConnector
	protocol  protocol.IProtocol
	config    common.ClientConfig
}

// directFromConf derives the direct attempts from the transport settings of
// a configuration. Timeout overrides the configured socket timeout.
func (s *Strategist) directFromConf(c *conf.HiveConf) (*directConfig, error) {
	config, err := ClientConfigFromConf(c)
	if err != nil {
		return nil, err
	}
	if s.Timeout > 0 {
		config.TimeoutMillis = int(s.Timeout.Milliseconds())
		config.SocketTimeoutMillis = int(s.Timeout.Milliseconds())
	}
	return s.direct(config)
}

// direct resolves the connector and protocol of a client config, the fields
// of the strategist take precedence
func (s *Strategist) direct(config common.ClientConfig) (*directConfig, error) {
	d := &directConfig{connector: s.Connector, protocol: s.Protocol, config: config}

	var err error
	if d.connector == nil {
		if d.connector, err = ConnectorFor(config.Transport.Mode); err != nil {
			return nil, err
		}
	}
	if d.protocol == nil {
		if d.protocol, err = protocol.ByName(config.Transport.Protocol, config.ThriftConfiguration()); err != nil {
			return nil, err
		}
	}
	d.config.Transport.Protocol = d.protocol.GetName()
	return d, nil
}

// connect opens a single endpoint, the timeout of the config is used for
// connecting and as socket timeout
func (d *directConfig) connect(endpoint common.Endpoint) (hmsapi.IMetastore, error) {
	common.DirectConnectAttempts.Inc()
	client, err := openClient(d.connector, d.protocol, endpoint, d.config)
	if err != nil {
		common.DirectConnectFailures.Inc()
		return nil, err
	}
	return client, nil
}

// connectFallback creates the higher-level client and takes over its
// connection
func (s *Strategist) connectFallback(c *conf.HiveConf) (hmsapi.IMetastore, error) {
	common.FallbackConnectAttempts.Inc()
	if s.Fallback == nil {
		common.FallbackConnectFailures.Inc()
		return nil, errors.New("no metastore client configured as fallback")
	}

	hl, err := s.Fallback(c)
	if err != nil {
		common.FallbackConnectFailures.Inc()
		return nil, fmt.Errorf("failed to create metastore client: %w", err)
	}

	raw, err := rawClientOf(hl)
	if err != nil {
		common.FallbackConnectFailures.Inc()
		if cErr := hl.Close(); cErr != nil {
			Logger.Warningf("Failed to close metastore client: %v", cErr)
		}
		return nil, err
	}
	return raw, nil
}

// rawClientOf returns the connection wrapped by a higher-level client
func rawClientOf(v io.Closer) (hmsapi.IMetastore, error) {
	holder, ok := v.(rawClientHolder)
	if !ok {
		return nil, &common.ReflectionError{Type: fmt.Sprintf("%T", v), Field: "RawClient", Msg: "client does not expose its connection"}
	}
	raw := holder.RawClient()
	if raw == nil {
		return nil, &common.ReflectionError{Type: fmt.Sprintf("%T", v), Field: "RawClient", Msg: "client is not connected"}
	}
	return raw, nil
}
