package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // by design
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mpapenbr/pitstop-service-go/log"
	"github.com/mpapenbr/pitstop-service-go/pkg/cmd/setup"
	"github.com/mpapenbr/pitstop-service-go/pkg/config"
	"github.com/mpapenbr/pitstop-service-go/pkg/server/api"
	"github.com/mpapenbr/pitstop-service-go/pkg/service"
)

//nolint:funlen // by design
func NewServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "starts the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&config.Addr,
		"addr",
		"a",
		"localhost:8080",
		"HTTP server listen address")
	cmd.Flags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables telemetry")
	cmd.Flags().StringVar(&config.TelemetryEndpoint,
		"telemetry-endpoint",
		"localhost:4317",
		"Endpoint that receives open telemetry data (use 'stdout' for console output)")
	cmd.Flags().IntVar(&config.ProfilingPort,
		"profiling-port",
		0,
		"port to use for providing profiling data")
	cmd.Flags().StringVar(&config.MinClientVersion,
		"min-client-version",
		"",
		"minimum front end version (semver), empty disables the check")
	cmd.Flags().StringVar(&config.TLSCertFile,
		"tls-cert",
		"",
		"path to TLS certificate (enables TLS together with --tls-key)")
	cmd.Flags().StringVar(&config.TLSKeyFile,
		"tls-key",
		"",
		"path to TLS key")
	return cmd
}

//nolint:funlen,cyclop // by design
func startServer(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, sqlLogger := setup.Loggers()
	log.Debug("Config:",
		log.String("addr", config.Addr),
		log.String("provider", config.Provider),
		log.String("cache", config.CacheKind),
		log.Int("season", config.ReferenceSeason),
	)

	if config.ProfilingPort > 0 {
		log.Info("Starting profiling server on port", log.Int("port", config.ProfilingPort))
		go func() {
			//nolint:gosec // by design
			err := http.ListenAndServe(
				fmt.Sprintf("localhost:%d", config.ProfilingPort),
				nil)
			if err != nil {
				log.Error("Profiling server stopped", log.ErrorField(err))
			}
		}()
	}

	if err := setup.WaitForServices(ctx, config.Provider == config.ProviderDB); err != nil {
		return err
	}

	var telemetry *config.Telemetry
	if config.EnableTelemetry {
		log.Info("Enabling telemetry")
		var err error
		if telemetry, err = config.SetupTelemetry(ctx); err != nil {
			log.Warn("Could not setup telemetry", log.ErrorField(err))
		}
		err = otlpruntime.Start(otlpruntime.WithMinimumReadMemStatsInterval(time.Second))
		if err != nil {
			log.Warn("Could not start runtime metrics", log.ErrorField(err))
		}
	}

	cat, err := setup.Catalog(ctx)
	if err != nil {
		return err
	}
	provider, res, err := setup.Provider(ctx, cat, sqlLogger)
	defer res.Close()
	if err != nil {
		log.Error("provider could not be created", log.ErrorField(err))
		return err
	}
	svc := service.NewAnalysisService(provider,
		service.WithStrategySeason(config.ReferenceSeason),
		service.WithLayoutSeason(config.ReferenceSeason),
		service.WithLogger(logger.Named("service.analysis")))
	apiServer := api.NewServer(svc,
		api.WithCatalog(cat),
		api.WithMinClientVersion(config.MinClientVersion),
		api.WithLogger(logger.Named("http.api")))

	handler := handlers.CompressHandler(apiServer.Handler())
	handler = handlers.CombinedLoggingHandler(os.Stdout, handler)
	//nolint:gosec // by design
	server := &http.Server{
		Addr:    config.Addr,
		Handler: h2c.NewHandler(newCORS().Handler(handler), &http2.Server{}),
	}
	if config.TLSCertFile != "" && config.TLSKeyFile != "" {
		server.TLSConfig = newTLSConfig(log.AddToContext(ctx, logger),
			config.TLSCertFile, config.TLSKeyFile)
		if server.TLSConfig == nil {
			return errors.New("TLS requested but key pair could not be loaded")
		}
	}
	setupGoRoutinesDump()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", log.String("addr", config.Addr))
		if server.TLSConfig != nil {
			errCh <- server.ListenAndServeTLS("", "")
		} else {
			errCh <- server.ListenAndServe()
		}
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server could not be started", log.ErrorField(err))
			return err
		}
	case <-ctx.Done():
		log.Debug("Got signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn("server shutdown", log.ErrorField(err))
		}
	}
	if telemetry != nil {
		telemetry.Shutdown()
	}
	log.Info("Server terminated")
	return nil
}

func setupGoRoutinesDump() {
	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGQUIT)
		buf := make([]byte, 1<<20)
		for {
			<-sigs
			stacklen := runtime.Stack(buf, true)
			fmt.Printf("=== received SIGQUIT ===\n*** goroutine dump...\n%s\n*** end\n",
				buf[:stacklen])
		}
	}()
}

func newCORS() *cors.Cors {
	// the front end may be served from a different origin
	return cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
		},
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{
			"Accept",
			"Accept-Encoding",
			"Content-Encoding",
			api.HeaderRequestID,
		},
		// FF caps this value at 24h, Chrome at 2h.
		MaxAge: int(2 * time.Hour / time.Second),
	})
}
