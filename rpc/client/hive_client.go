package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ValentinKolb/hivemeta/lib/conf"
	"github.com/ValentinKolb/hivemeta/lib/util/backoff"
	"github.com/ValentinKolb/hivemeta/rpc/common"
	"github.com/ValentinKolb/hivemeta/rpc/hmsapi"
	"github.com/ValentinKolb/hivemeta/rpc/protocol"
	"github.com/ValentinKolb/hivemeta/rpc/transport"
	"github.com/hashicorp/go-multierror"
)

// HiveMetaStoreClient is the higher-level metastore client. It discovers the
// metastores of a configuration more leniently than the direct strategy
// (URIs without a scheme, hive.metastore.host/port), honors the transport
// settings of the configuration and retries connecting with a backoff.
type HiveMetaStoreClient struct {
	config    common.ClientConfig
	endpoints []common.Endpoint
	connector transport.IClientConnector
	protocol  protocol.IProtocol

	client   hmsapi.IMetastore
	endpoint common.Endpoint
}

// NewHiveMetaStoreClient creates a client and connects it
func NewHiveMetaStoreClient(c *conf.HiveConf) (*HiveMetaStoreClient, error) {
	return NewHiveMetaStoreClientContext(context.Background(), c)
}

// NewHiveMetaStoreClientContext creates a client and connects it, ctx aborts
// the waits between two connection rounds
func NewHiveMetaStoreClientContext(ctx context.Context, c *conf.HiveConf) (*HiveMetaStoreClient, error) {
	if c == nil {
		return nil, errors.New("no configuration given")
	}

	config, err := ClientConfigFromConf(c)
	if err != nil {
		return nil, err
	}

	endpoints := DiscoverEndpoints(c)
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("no metastore configured, set %s or %s", conf.MetastoreURIs, conf.MetastoreHost)
	}

	connector, err := ConnectorFor(config.Transport.Mode)
	if err != nil {
		return nil, err
	}

	proto, err := protocol.ByName(config.Transport.Protocol, config.ThriftConfiguration())
	if err != nil {
		return nil, err
	}

	hc := &HiveMetaStoreClient{
		config:    config,
		endpoints: endpoints,
		connector: connector,
		protocol:  proto,
	}
	if err := hc.open(ctx); err != nil {
		return nil, err
	}
	return hc, nil
}

// DiscoverEndpoints returns the metastores of a configuration: every entry of
// hive.metastore.uris (a missing scheme is allowed) followed by
// hive.metastore.host and hive.metastore.port if the host is set
func DiscoverEndpoints(c *conf.HiveConf) []common.Endpoint {
	var endpoints []common.Endpoint
	for _, part := range c.GetStrings(conf.MetastoreURIs) {
		entry := strings.TrimSpace(part)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "://") {
			entry = "thrift://" + entry
		}

		uri, err := url.Parse(entry)
		if err == nil && uri.Hostname() == "" {
			err = errors.New("missing host")
		}
		var endpoint common.Endpoint
		if err == nil {
			endpoint, err = conf.EndpointOf(uri)
		}
		if err != nil {
			Logger.Warningf("%v", &common.UriParseError{Key: conf.MetastoreURIs, Entry: part, Err: err})
			continue
		}
		endpoints = append(endpoints, endpoint)
	}

	if host := strings.TrimSpace(c.GetVar(conf.MetastoreHost)); host != "" {
		endpoints = append(endpoints, common.Endpoint{
			Scheme: "thrift",
			Host:   host,
			Port:   c.GetInt(conf.MetastorePort, common.DefaultMetastorePort),
		})
	}
	return endpoints
}

// open tries all endpoints in order, a round that reaches none of them is
// repeated after a growing delay
func (c *HiveMetaStoreClient) open(ctx context.Context) error {
	var errs *multierror.Error
	rounds := c.config.RetryCount
	if rounds < 1 {
		rounds = 1
	}

	err := backoff.Retry(ctx, rounds, c.config.RetryDelay, func(attempt int) error {
		for _, endpoint := range c.endpoints {
			client, err := openClient(c.connector, c.protocol, endpoint, c.config)
			if err != nil {
				Logger.Warningf("Attempt %d: failed to connect to metastore %s: %v", attempt+1, endpoint.Address(), err)
				errs = multierror.Append(errs, err)
				continue
			}
			c.client, c.endpoint = client, endpoint
			Logger.Infof("Connected to metastore %s (%s transport)", endpoint.Address(), c.connector.GetName())
			return nil
		}
		return fmt.Errorf("no metastore reachable in round %d", attempt+1)
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %d metastores in %d rounds: %w", len(c.endpoints), rounds, errs.ErrorOrNil())
	}
	return nil
}

// --------------------------------------------------------------------------
// Metastore access
// --------------------------------------------------------------------------

// Databases returns the names of all databases
func (c *HiveMetaStoreClient) Databases(ctx context.Context) ([]string, error) {
	raw, err := c.connected()
	if err != nil {
		return nil, err
	}
	return raw.GetAllDatabases(ctx)
}

// Tables returns the names of all tables of a database
func (c *HiveMetaStoreClient) Tables(ctx context.Context, dbName string) ([]string, error) {
	raw, err := c.connected()
	if err != nil {
		return nil, err
	}
	return raw.GetAllTables(ctx, dbName)
}

// Table returns a single table
func (c *HiveMetaStoreClient) Table(ctx context.Context, dbName, tblName string) (*hmsapi.Table, error) {
	raw, err := c.connected()
	if err != nil {
		return nil, err
	}
	return raw.GetTable(ctx, dbName, tblName)
}

// Endpoint returns the metastore the client is connected to
func (c *HiveMetaStoreClient) Endpoint() common.Endpoint {
	return c.endpoint
}

// RawClient returns the low-level connection, nil once the client is closed.
// Closing the returned client closes the connection of this client.
func (c *HiveMetaStoreClient) RawClient() hmsapi.IMetastore {
	return c.client
}

// Close closes the connection, closing a closed client is a no-op
func (c *HiveMetaStoreClient) Close() error {
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

func (c *HiveMetaStoreClient) connected() (hmsapi.IMetastore, error) {
	if c.client == nil {
		return nil, errors.New("metastore client is closed")
	}
	return c.client, nil
}
