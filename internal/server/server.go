// Package server exposes the cipher over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"curve/internal/ctxlog"
	"curve/internal/subst"
)

const healthPath = "/healthz"

type Server struct {
	addr            string
	handler         http.Handler
	shutdownTimeout time.Duration
	tls             *tlsLoader
}

// New builds the server. keys may be nil, which disables named keys.
func New(config Config, keys KeyStore) *Server {
	if config.Port == 0 {
		panic("server: port is required")
	}
	if config.AntidosBuckets == 0 {
		panic("server: antidosBuckets is required")
	}
	if config.AntidosPeriod == 0 {
		panic("server: antidosPeriod is required")
	}
	if config.RenderBuckets == 0 {
		panic("server: renderBuckets is required")
	}
	if config.RenderPeriod == 0 {
		panic("server: renderPeriod is required")
	}
	if config.RenderMaxConcurrent == 0 {
		panic("server: renderMaxConcurrent is required")
	}
	if config.ShutdownTimeout == 0 {
		panic("server: shutdownTimeout is required")
	}
	if (config.TLSCert == "") != (config.TLSKey == "") {
		panic("server: tlsCert and tlsKey must be set together")
	}

	s := &Server{
		addr:            fmt.Sprintf("0.0.0.0:%d", config.Port),
		handler:         newHandler(config, keys, time.Now),
		shutdownTimeout: config.ShutdownTimeout,
	}
	if config.TLSCert != "" {
		s.tls = newTLSLoader(config.TLSCert, config.TLSKey, config.TLSReload)
	}
	return s
}

func newHandler(config Config, keys KeyStore, now func() time.Time) http.Handler {
	a := &api{keys: keys, now: now}

	anti := newAntidos(config.AntidosBuckets, config.AntidosPeriod)
	render := newThrottle(config.RenderBuckets, config.RenderPeriod, config.RenderMaxConcurrent, tooManyRequestsHandler())

	mux := http.NewServeMux()

	handle := func(pattern string, h http.Handler) {
		slog.Info("registering handler", "pattern", pattern)
		mux.Handle(pattern, h)
	}

	handle("/", notFoundHandler())
	handle("GET "+healthPath, http.HandlerFunc(health))

	handle("POST /v1/encrypt", anti.middleware(a.transform(subst.Encrypt)))
	handle("POST /v1/decrypt", anti.middleware(a.transform(subst.Decrypt)))
	handle("POST /v1/curve", anti.middleware(http.HandlerFunc(a.curve)))
	handle("GET /v1/curve.svg", a.curveImage(render.middleware))

	if keys != nil {
		adm := newAdmin(config.AdminKey, notFoundHandler())
		handle("GET /v1/keys", adm.middleware(http.HandlerFunc(a.listKeys)))
		handle("PUT /v1/keys/{name}", adm.middleware(http.HandlerFunc(a.putKey)))
		handle("DELETE /v1/keys/{name}", adm.middleware(http.HandlerFunc(a.deleteKey)))
	}

	handler := http.Handler(mux)
	handler = bodyLimitMiddleware(config.MaxBodyBytes, handler)
	handler = robotsMiddleware(handler)
	handler = hostMiddleware(config.Host, handler)
	handler = newRecover(handler, internalServerErrorHandler())
	handler = logMiddleware(handler)

	return handler
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Run(ctx context.Context) error {
	logger := ctxlog.Get(ctx)

	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	if s.tls != nil {
		srv.TLSConfig = s.tls.config()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server is running", "addr", l.Addr().String(), "tls", s.tls != nil)

		var err error
		if s.tls != nil {
			err = srv.ServeTLS(l, "", "")
		} else {
			err = srv.Serve(l)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	if s.tls != nil {
		g.Go(func() error {
			return s.tls.reloadLoop(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		logger.Info("server is shutting down")

		stopCtx, stopCancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer stopCancel()

		err := srv.Shutdown(stopCtx)
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Error("server shutdown timeout exceeded")
		} else if err == nil {
			logger.Info("all clients closed successfully")
		}
		return err
	})

	return g.Wait()
}
