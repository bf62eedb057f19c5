package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/ValentinKolb/hivemeta/rpc/common"
	"github.com/ValentinKolb/hivemeta/rpc/hmsapi"
	"github.com/ValentinKolb/hivemeta/rpc/protocol"
	"github.com/ValentinKolb/hivemeta/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/apache/thrift/lib/go/thrift"
	"github.com/hashicorp/go-multierror"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("server")

// NewRPCServer creates a metastore server serving the handler through the
// given transport and protocol
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		tcp.NewServerTransport(),
//		protocol.NewBinaryProtocol(nil),
//		server.NewCatalog(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IServerTransport,
	protocol protocol.IProtocol,
	handler hmsapi.IHandler,
) *RPCServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	Logger.Infof("Created RPC Server")
	Logger.Infof(config.String())

	return &RPCServer{
		config:    config,
		transport: transport,
		protocol:  protocol,
		handler:   handler,
	}
}

type RPCServer struct {
	config    common.ServerConfig
	transport transport.IServerTransport
	protocol  protocol.IProtocol
	handler   hmsapi.IHandler
	listening atomic.Bool

	metricsServer *http.Server
}

// Listen binds the endpoint of the config (and the metrics endpoint if set)
// without handling requests yet
func (s *RPCServer) Listen() error {
	if s.listening.Load() {
		return nil
	}

	processor := hmsapi.NewProcessor(s.handler)
	instrument(processor)

	if err := s.transport.Listen(s.config, processor, s.protocol); err != nil {
		return err
	}
	s.listening.Store(true)
	Logger.Infof("Listening on %s (%s transport, %s protocol)", s.transport.Addr(), s.transport.GetName(), s.protocol.GetName())

	if s.config.MetricsEndpoint != "" {
		if err := s.serveMetrics(); err != nil {
			_ = s.transport.Stop()
			s.listening.Store(false)
			return err
		}
	}
	return nil
}

// Serve listens if necessary and handles requests until Stop is called
func (s *RPCServer) Serve() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.transport.Serve()
}

// Addr returns the address of the metastore endpoint, nil before Listen
func (s *RPCServer) Addr() net.Addr {
	return s.transport.Addr()
}

// Stop stops the transport and the metrics endpoint
func (s *RPCServer) Stop() error {
	var errs *multierror.Error
	if s.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		errs = multierror.Append(errs, s.metricsServer.Shutdown(ctx))
		cancel()
	}
	errs = multierror.Append(errs, s.transport.Stop())
	s.listening.Store(false)
	return errs.ErrorOrNil()
}

// serveMetrics exposes all counters of this module in prometheus format
func (s *RPCServer) serveMetrics() error {
	listener, err := net.Listen("tcp", s.config.MetricsEndpoint)
	if err != nil {
		return fmt.Errorf("failed to listen on metrics endpoint %s: %w", s.config.MetricsEndpoint, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w, true)
	})
	s.metricsServer = &http.Server{Handler: mux}

	go func() {
		if err := s.metricsServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Errorf("metrics endpoint failed: %v", err)
		}
	}()
	Logger.Infof("Serving metrics on http://%s/metrics", listener.Addr())
	return nil
}

// --------------------------------------------------------------------------
// Request metrics
// --------------------------------------------------------------------------

// instrumentedFunc counts the calls, failures and durations of a method
type instrumentedFunc struct {
	next     thrift.TProcessorFunction
	calls    *metrics.Counter
	failures *metrics.Counter
	duration *metrics.Histogram
}

func (f *instrumentedFunc) Process(ctx context.Context, seqID int32, in, out thrift.TProtocol) (bool, thrift.TException) {
	start := time.Now()
	f.calls.Inc()
	ok, err := f.next.Process(ctx, seqID, in, out)
	if err != nil {
		f.failures.Inc()
		Logger.Warningf("request failed: %v", err)
	}
	f.duration.Update(time.Since(start).Seconds())
	return ok, err
}

// instrument wraps every method of the processor
func instrument(p thrift.TProcessor) {
	funcs := p.ProcessorMap()
	names := make([]string, 0, len(funcs))
	for name := range funcs {
		names = append(names, name)
	}
	for _, name := range names {
		p.AddToProcessorMap(name, &instrumentedFunc{
			next:     funcs[name],
			calls:    metrics.GetOrCreateCounter(fmt.Sprintf(`hivemeta_server_calls_total{method=%q}`, name)),
			failures: metrics.GetOrCreateCounter(fmt.Sprintf(`hivemeta_server_failures_total{method=%q}`, name)),
			duration: metrics.GetOrCreateHistogram(fmt.Sprintf(`hivemeta_server_call_duration_seconds{method=%q}`, name)),
		})
	}
}
