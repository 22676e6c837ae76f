// Package setup holds the wiring shared by the commands: logging, service
// checks, database pool and session providers.
package setup

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/pgx-contrib/pgxtrace"

	"github.com/mpapenbr/pitstop-service-go/log"
	"github.com/mpapenbr/pitstop-service-go/pkg/catalog"
	"github.com/mpapenbr/pitstop-service-go/pkg/config"
	"github.com/mpapenbr/pitstop-service-go/pkg/db/postgres"
	"github.com/mpapenbr/pitstop-service-go/pkg/provider/cache"
	"github.com/mpapenbr/pitstop-service-go/pkg/provider/dbprovider"
	"github.com/mpapenbr/pitstop-service-go/pkg/provider/openf1"
	"github.com/mpapenbr/pitstop-service-go/pkg/repository/racedata"
	"github.com/mpapenbr/pitstop-service-go/pkg/session"
	"github.com/mpapenbr/pitstop-service-go/pkg/utils"
)

func ParseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// Loggers creates the application and the sql logger according to the
// log settings and installs the application logger as default.
func Loggers() (logger, sqlLogger *log.Logger) {
	if config.LogFilter != "" {
		if err := log.SetFilterRules(config.LogFilter); err != nil {
			fmt.Fprintf(os.Stderr, "ignoring invalid log filter %q: %v\n", config.LogFilter, err)
		}
	}
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			ParseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
		sqlLogger = log.New(
			os.Stderr,
			ParseLogLevel(config.SQLLogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			ParseLogLevel(config.LogLevel, log.DebugLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
		sqlLogger = log.DevLogger(
			os.Stderr,
			ParseLogLevel(config.SQLLogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	log.ResetDefault(logger)
	return logger, sqlLogger
}

// WaitForServices blocks until the configured database and NATS server accept
// connections. Services not needed by the current settings are skipped.
func WaitForServices(ctx context.Context, needDB bool) error {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	addrs := []string{}
	if needDB {
		if addr := utils.ExtractFromDBURL(config.DB); addr != "" {
			addrs = append(addrs, addr)
		}
	}
	if cache.Kind(config.CacheKind) == cache.KindNats {
		if addr := utils.ExtractFromNatsURL(config.NatsURL); addr != "" {
			addrs = append(addrs, addr)
		}
	}

	wg := sync.WaitGroup{}
	errs := make([]error, len(addrs))
	for i, addr := range addrs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = utils.WaitForTCP(ctx, addr, timeout)
		}()
	}
	log.Debug("Waiting for connection checks to return")
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return fmt.Errorf("required services not ready: %w", err)
		}
	}
	log.Debug("Required services are available")
	return nil
}

// Pool connects to the database. With telemetry enabled queries are traced
// via otel in addition to the sql logger.
func Pool(sqlLogger *log.Logger) (*pgxpool.Pool, error) {
	tracer := pgxtrace.CompositeQueryTracer{
		postgres.NewMyTracer(sqlLogger, log.DebugLevel),
	}
	if config.EnableTelemetry {
		tracer = append(tracer, postgres.NewOtlpTracer())
	}
	return postgres.InitWithURL(config.DB, postgres.WithTracer(tracer))
}

// Catalog returns the configured catalog. An external file is watched for
// changes until ctx is done.
func Catalog(ctx context.Context) (*catalog.Catalog, error) {
	if config.CatalogFile == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.Load(config.CatalogFile)
	if err != nil {
		return nil, err
	}
	go func() {
		if err := c.Watch(ctx, config.CatalogFile); err != nil {
			log.Warn("catalog watch stopped", log.ErrorField(err))
		}
	}()
	return c, nil
}

// Resources collects what was opened while building a provider
type Resources struct {
	Pool *pgxpool.Pool
	NC   *nats.Conn
}

func (r *Resources) Close() {
	if r.NC != nil {
		r.NC.Close()
	}
	if r.Pool != nil {
		r.Pool.Close()
	}
}

func parseTTL() (time.Duration, error) {
	if config.CacheTTL == "" {
		return 0, nil
	}
	ttl, err := time.ParseDuration(config.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl %q: %w", config.CacheTTL, err)
	}
	return ttl, nil
}

// OpenF1 creates the OpenF1 provider with the configured response cache.
// Track names are resolved through c.
//
//nolint:whitespace // can't make both editor and linter happy
func OpenF1(
	ctx context.Context,
	c *catalog.Catalog,
	res *Resources,
) (*openf1.Provider, error) {
	ttl, err := parseTTL()
	if err != nil {
		return nil, err
	}
	opts := []cache.Option{cache.WithDir(config.CacheDir), cache.WithTTL(ttl)}
	if cache.Kind(config.CacheKind) == cache.KindNats {
		nc, err := nats.Connect(config.NatsURL, nats.Name("pitstop"))
		if err != nil {
			return nil, fmt.Errorf("could not connect to nats: %w", err)
		}
		res.NC = nc
		opts = append(opts, cache.WithNATS(nc))
	}
	store, err := cache.New(ctx, cache.Kind(config.CacheKind), opts...)
	if err != nil {
		return nil, err
	}
	client := openf1.NewClient(
		openf1.WithBaseURL(config.OpenF1URL),
		openf1.WithStore(store, ttl))
	return openf1.NewProvider(client,
		openf1.WithTrackResolver(c.CircuitShortName)), nil
}

// Provider builds the session provider selected by config.Provider
//
//nolint:whitespace // can't make both editor and linter happy
func Provider(
	ctx context.Context,
	c *catalog.Catalog,
	sqlLogger *log.Logger,
) (session.Provider, *Resources, error) {
	res := &Resources{}
	switch config.Provider {
	case config.ProviderDB:
		pool, err := Pool(sqlLogger)
		if err != nil {
			return nil, res, err
		}
		res.Pool = pool
		return dbprovider.New(racedata.NewRepository(pool)), res, nil
	case config.ProviderOpenF1, "":
		p, err := OpenF1(ctx, c, res)
		if err != nil {
			return nil, res, err
		}
		return p, res, nil
	default:
		return nil, res, fmt.Errorf("unknown provider %q", config.Provider)
	}
}
