package client

import (
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/ValentinKolb/hivemeta/lib/conf"
	"github.com/ValentinKolb/hivemeta/rpc/common"
	"github.com/ValentinKolb/hivemeta/rpc/hmsapi"
	"github.com/ValentinKolb/hivemeta/rpc/protocol"
	"github.com/apache/thrift/lib/go/thrift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --------------------------------------------------------------------------
// Test helpers
// --------------------------------------------------------------------------

// recordingConnector records every attempt and only reaches the given addresses
type recordingConnector struct {
	reachable map[string]bool
	attempts  []string
}

func (c *recordingConnector) GetName() string {
	return "recording"
}

func (c *recordingConnector) Connect(endpoint common.Endpoint, config common.ClientConfig) (thrift.TTransport, error) {
	c.attempts = append(c.attempts, endpoint.Address())
	if !c.reachable[endpoint.Address()] {
		return nil, errors.New("connection refused")
	}
	return thrift.NewTMemoryBuffer(), nil
}

// fakeHighLevel is a higher-level client exposing its connection
type fakeHighLevel struct {
	raw    hmsapi.IMetastore
	closed bool
}

func (f *fakeHighLevel) RawClient() hmsapi.IMetastore { return f.raw }

func (f *fakeHighLevel) Close() error {
	f.closed = true
	return nil
}

// opaqueHighLevel does not expose its connection
type opaqueHighLevel struct {
	closed bool
}

func (o *opaqueHighLevel) Close() error {
	o.closed = true
	return nil
}

func newTestStrategist(reachable ...string) (*Strategist, *recordingConnector) {
	connector := &recordingConnector{reachable: make(map[string]bool)}
	for _, addr := range reachable {
		connector.reachable[addr] = true
	}
	return &Strategist{
		Connector: connector,
		Protocol:  protocol.NewBinaryProtocol(nil),
		Fallback: func(c *conf.HiveConf) (io.Closer, error) {
			return nil, errors.New("no metastore configured")
		},
		Timeout: time.Second,
	}, connector
}

func confWithURIs(uris string) *conf.HiveConf {
	c := conf.New()
	c.Set(conf.MetastoreURIs, uris)
	return c
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestConnectConfFirstReachableWins(t *testing.T) {
	s, connector := newTestStrategist("ms2:9083", "ms3:9083")
	fallbackUsed := false
	s.Fallback = func(c *conf.HiveConf) (io.Closer, error) {
		fallbackUsed = true
		return nil, errors.New("unexpected")
	}

	client, err := s.ConnectConf(confWithURIs("thrift://ms1:9083, thrift://ms2,thrift://ms3:9083"))
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, []string{"ms1:9083", "ms2:9083"}, connector.attempts)
	assert.False(t, fallbackUsed)
}

func TestConnectConfSkipsUnusableURIs(t *testing.T) {
	s, connector := newTestStrategist("ms2:9083")

	_, err := s.ConnectConf(confWithURIs("ms1:9083,thrift://,%zz,thrift://ms2"))
	require.NoError(t, err)
	assert.Equal(t, []string{"ms2:9083"}, connector.attempts)
}

func TestConnectConfFallback(t *testing.T) {
	s, connector := newTestStrategist()
	raw := hmsapi.NewClient(thrift.NewTMemoryBuffer(), protocol.NewBinaryProtocol(nil))
	hl := &fakeHighLevel{raw: raw}
	s.Fallback = func(c *conf.HiveConf) (io.Closer, error) { return hl, nil }

	before := common.FallbackConnectAttempts.Get()
	client, err := s.ConnectConf(confWithURIs("thrift://ms1:9083"))
	require.NoError(t, err)
	assert.Same(t, raw, client)
	assert.False(t, hl.closed)
	assert.Equal(t, []string{"ms1:9083"}, connector.attempts)
	assert.Equal(t, before+1, common.FallbackConnectAttempts.Get())
}

func TestConnectConfWithoutURIs(t *testing.T) {
	for name, c := range map[string]*conf.HiveConf{"Empty": conf.New(), "Nil": nil} {
		t.Run(name, func(t *testing.T) {
			s, connector := newTestStrategist()
			_, err := s.ConnectConf(c)

			var connErr *common.ConnectionError
			require.ErrorAs(t, err, &connErr)
			assert.Empty(t, connErr.Attempted)
			assert.Empty(t, connector.attempts)
		})
	}
}

func TestConnectConfWithoutURIsUsesFallback(t *testing.T) {
	for name, c := range map[string]*conf.HiveConf{
		"Empty":     conf.New(),
		"Malformed": confWithURIs("thrift://,%zz,ms1:9083"),
	} {
		t.Run(name, func(t *testing.T) {
			s, connector := newTestStrategist()
			raw := hmsapi.NewClient(thrift.NewTMemoryBuffer(), protocol.NewBinaryProtocol(nil))
			s.Fallback = func(c *conf.HiveConf) (io.Closer, error) { return &fakeHighLevel{raw: raw}, nil }

			client, err := s.ConnectConf(c)
			require.NoError(t, err)
			assert.Same(t, raw, client)
			assert.Empty(t, connector.attempts)
		})
	}
}

func TestConnectConfInvalidTransportMode(t *testing.T) {
	s, connector := newTestStrategist("ms1:9083")
	c := confWithURIs("thrift://ms1:9083")
	c.Set(conf.MetastoreTransportMode, "carrier-pigeon")

	_, err := s.ConnectConf(c)
	var connErr *common.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Len(t, connErr.Errors.Errors, 2)
	assert.Empty(t, connector.attempts)
}

func TestConnectConfAllFail(t *testing.T) {
	s, _ := newTestStrategist()

	_, err := s.ConnectConf(confWithURIs("thrift://ms1:9083,thrift://ms2:9084"))
	var connErr *common.ConnectionError
	require.ErrorAs(t, err, &connErr)

	assert.Equal(t, []common.Endpoint{
		{Scheme: "thrift", Host: "ms1", Port: 9083},
		{Scheme: "thrift", Host: "ms2", Port: 9084},
	}, connErr.Attempted)
	assert.Len(t, connErr.Errors.Errors, 3)
	assert.Contains(t, connErr.Error(), "ms1:9083, ms2:9084")
	assert.Contains(t, connErr.Cause.Error(), "no metastore configured")
}

func TestConnectConfReflectionError(t *testing.T) {
	t.Run("NotExposed", func(t *testing.T) {
		s, _ := newTestStrategist()
		hl := &opaqueHighLevel{}
		s.Fallback = func(c *conf.HiveConf) (io.Closer, error) { return hl, nil }

		_, err := s.ConnectConf(conf.New())
		var connErr *common.ConnectionError
		require.ErrorAs(t, err, &connErr)
		var reflErr *common.ReflectionError
		require.ErrorAs(t, err, &reflErr)
		assert.Equal(t, "RawClient", reflErr.Field)
		assert.True(t, hl.closed)
	})

	t.Run("NotConnected", func(t *testing.T) {
		s, _ := newTestStrategist()
		hl := &fakeHighLevel{}
		s.Fallback = func(c *conf.HiveConf) (io.Closer, error) { return hl, nil }

		_, err := s.ConnectConf(conf.New())
		var reflErr *common.ReflectionError
		require.ErrorAs(t, err, &reflErr)
		assert.True(t, hl.closed)
	})
}

func TestConnectTimeout(t *testing.T) {
	t.Run("Reachable", func(t *testing.T) {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer l.Close()

		before := common.DirectConnectAttempts.Get()
		client, err := ConnectTimeout("127.0.0.1", l.Addr().(*net.TCPAddr).Port, time.Second)
		require.NoError(t, err)
		assert.NoError(t, client.Close())
		assert.Equal(t, before+1, common.DirectConnectAttempts.Get())
	})

	t.Run("Refused", func(t *testing.T) {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		port := l.Addr().(*net.TCPAddr).Port
		require.NoError(t, l.Close())

		_, err = Connect("127.0.0.1", port)
		var connErr *common.ConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.Equal(t, []common.Endpoint{{Host: "127.0.0.1", Port: port}}, connErr.Attempted)
	})

	t.Run("InvalidAddress", func(t *testing.T) {
		s, connector := newTestStrategist()
		for _, port := range []int{0, -1, 65536} {
			_, err := s.ConnectTimeout("ms1", port, time.Second)
			var connErr *common.ConnectionError
			assert.ErrorAs(t, err, &connErr)
		}
		_, err := s.ConnectTimeout("", 9083, time.Second)
		assert.Error(t, err)
		assert.Empty(t, connector.attempts)
	})
}

func TestClientConfigFromConf(t *testing.T) {
	c := conf.New()
	config, err := ClientConfigFromConf(c)
	require.NoError(t, err)
	assert.Equal(t, common.TransportModeBinary, config.Transport.Mode)
	assert.Equal(t, protocol.Binary, config.Transport.Protocol)
	assert.Equal(t, DefaultConnectRetries, config.RetryCount)
	assert.Equal(t, int(DefaultTimeout.Milliseconds()), config.TimeoutMillis)

	c.Set(conf.MetastoreTransportMode, "HTTP")
	c.Set(conf.MetastoreCompactProtocol, "true")
	c.Set(conf.MetastoreSocketTimeout, "5")
	c.Set(conf.MetastoreConnectRetryDelay, "250ms")
	config, err = ClientConfigFromConf(c)
	require.NoError(t, err)
	assert.Equal(t, common.TransportModeHTTP, config.Transport.Mode)
	assert.Equal(t, protocol.Compact, config.Transport.Protocol)
	assert.Equal(t, 5000, config.SocketTimeoutMillis)
	assert.Equal(t, 250*time.Millisecond, config.RetryDelay)
	assert.Equal(t, common.DefaultHTTPPath, config.Transport.HTTPPath)

	c.Set(conf.MetastoreTransportMode, "carrier-pigeon")
	_, err = ClientConfigFromConf(c)
	assert.Error(t, err)
}
