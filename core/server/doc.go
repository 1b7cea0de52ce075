// Package server provides HTTP server lifecycle management with graceful
// shutdown. It wraps the standard http.Server with functional options for
// timeouts, header limits, TLS and logging.
//
// # Features
//
//   - Graceful shutdown with a configurable timeout (default 30 seconds)
//   - Configurable read, write and idle timeouts and a header size limit
//   - TLS from a *tls.Config, or from certificate and key files via NewFromConfig
//   - Context-driven lifecycle: Start blocks until its context is cancelled
//   - Run returns a func() error for use with errgroup
//   - Optional structured logging through a *slog.Logger
//
// The package installs no middleware, health check endpoints or signal
// handlers: the handler given to Start or Run is served as it is, and the
// caller supplies the context that ends it.
//
// # Basic Usage
//
// Create a server for an address and start it with a handler:
//
//	import "github.com/counterhub/counterhub/core/server"
//
//	srv := server.New(":8080",
//		server.WithReadTimeout(30*time.Second),
//		server.WithWriteTimeout(30*time.Second),
//	)
//
//	// Start blocks until ctx is cancelled (returning ctx.Err()) or the
//	// listener fails.
//	if err := srv.Start(ctx, router); err != nil && !errors.Is(err, context.Canceled) {
//		log.Fatal("Server failed:", err)
//	}
//
//	// Stop shuts the server down gracefully within the shutdown timeout.
//	if err := srv.Stop(); err != nil {
//		log.Fatal("Server shutdown failed:", err)
//	}
//
// # Server Configuration
//
// Configure server with various options:
//
//	srv := server.New("0.0.0.0:8080",
//		server.WithReadTimeout(15*time.Second),
//		server.WithWriteTimeout(15*time.Second),
//		server.WithIdleTimeout(60*time.Second),
//		server.WithMaxHeaderBytes(1<<20), // 1MB
//		server.WithShutdownTimeout(10*time.Second),
//		server.WithLogger(logger),
//	)
//
// A Config (read from SERVER_* environment variables, or DefaultConfig)
// becomes a Server through NewFromConfig; options passed after the config
// override its values:
//
//	srv, err := server.NewFromConfig(server.DefaultConfig(), server.WithLogger(logger))
//
// # TLS Configuration
//
// Enable HTTPS with a TLS configuration that carries a certificate:
//
//	cert, err := tls.LoadX509KeyPair("cert.pem", "key.pem")
//	if err != nil {
//		log.Fatal(err)
//	}
//	srv := server.New(":8443", server.WithTLS(&tls.Config{
//		Certificates: []tls.Certificate{cert},
//		MinVersion:   tls.VersionTLS12,
//	}))
//
// NewFromConfig does the same when both TLSCertFile and TLSKeyFile are set.
// Certificates are not obtained or renewed automatically.
//
// # Graceful Shutdown
//
// Server.Run returns a function that starts the server and, when the
// context is cancelled, stops it gracefully and returns nil. Combined with
// signal.NotifyContext it shuts the server down on SIGINT or SIGTERM:
//
//	func main() {
//		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//		defer stop()
//
//		srv := server.New(":8080", server.WithLogger(logger))
//
//		g, ctx := errgroup.WithContext(ctx)
//		g.Go(srv.Run(ctx, router))
//		if err := g.Wait(); err != nil {
//			log.Fatal("Server failed:", err)
//		}
//	}
//
// The package-level Run creates a server with default settings and calls
// Start; it returns ctx.Err() when the context is cancelled and does not
// call Stop:
//
//	err := server.Run(ctx, ":8080", router)
//
// # Best Practices
//
//   - Set appropriate timeouts for your use case
//   - Use TLS for production deployments
//   - Configure limits to prevent resource exhaustion
//   - Cancel the server's context on SIGINT/SIGTERM for clean shutdown
package server
