package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the /metrics endpoint of a registry.
type Server struct {
	listener net.Listener
	srv      *http.Server
	done     chan error
}

// StartServer binds hostname:port and serves the registry in the background.
// Port 0 picks a free port, see Addr.
func StartServer(r *prometheus.Registry, hostname string, port int) (*Server, error) {
	addr := net.JoinHostPort(hostname, strconv.Itoa(port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind metrics server to %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.InstrumentMetricHandler(r, promhttp.HandlerFor(r, promhttp.HandlerOpts{})))
	s := &Server{
		listener: listener,
		srv:      &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second},
		done:     make(chan error, 1),
	}
	go func() {
		err := s.srv.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
	}()
	return s, nil
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Stop shuts the server down, waiting for in-flight scrapes until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return err
	}
	return <-s.done
}
