package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ValentinKolb/hivemeta/rpc/common"
	"github.com/ValentinKolb/hivemeta/rpc/transport"
	"github.com/apache/thrift/lib/go/thrift"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("transport/rpc")

// shutdownTimeout bounds the wait for running requests on Stop
const shutdownTimeout = 5 * time.Second

func NewServerTransport() transport.IServerTransport {
	return &httpServerTransport{}
}

type httpServerTransport struct {
	server   *http.Server
	listener net.Listener
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IServerTransport)
// --------------------------------------------------------------------------

func (t *httpServerTransport) GetName() string {
	return "http"
}

func (t *httpServerTransport) Listen(config common.ServerConfig, processor thrift.TProcessor, protocol thrift.TProtocolFactory) error {
	path := config.Transport.HTTPPath
	if path == "" {
		path = common.DefaultHTTPPath
	}

	// Create a new HTTP server
	mux := http.NewServeMux()
	handler := thrift.NewThriftHandlerFunc(processor, protocol, protocol)

	// Register handler
	pattern := "POST /" + strings.TrimPrefix(path, "/")
	if config.LogLevel == "debug" {
		mux.HandleFunc(pattern, loggerMiddleware(handler))
	} else {
		mux.HandleFunc(pattern, handler)
	}

	listener, err := net.Listen("tcp", config.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", config.Endpoint, err)
	}

	Logger.Infof("Starting HTTP server on %s (path /%s)", listener.Addr(), strings.TrimPrefix(path, "/"))

	t.listener = listener
	t.server = &http.Server{
		Handler:     mux,
		IdleTimeout: time.Duration(config.TimeoutSecond) * time.Second,
	}
	return nil
}

func (t *httpServerTransport) Serve() error {
	if t.server == nil {
		return fmt.Errorf("http transport not initialized")
	}
	if err := t.server.Serve(t.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (t *httpServerTransport) Addr() net.Addr {
	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

func (t *httpServerTransport) Stop() error {
	if t.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return t.server.Shutdown(ctx)
}

// --------------------------------------------------------------------------
// Middleware (logging)
// --------------------------------------------------------------------------

// responseWriter is a custom ResponseWriter that captures status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code before writing it
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// loggerMiddleware is a middleware that logs HTTP requests
func loggerMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create custom response writer to capture status code
		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		// Process request
		next.ServeHTTP(rw, r)

		// Log the request
		duration := time.Since(start)
		Logger.Debugf("%s %s => %d took %s", r.Method, r.URL.Path, rw.statusCode, duration)
	}
}
