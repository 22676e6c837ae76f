package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB                 string // connection string for the database
	NatsURL            string // URL of the NATS server (response cache)
	WaitForServices    string // duration to wait for other services to be ready
	LogLevel           string // sets the log level (zap log level values)
	SQLLogLevel        string // sets the log level for sql subsystem
	LogFormat          string // text vs json
	LogFilter          string // zapfilter rules, e.g. "debug:analysis.* info:*"
	MigrationSourceURL string // location of migration files (empty: embedded)
	EnableTelemetry    bool   // enable telemetry
	TelemetryEndpoint  string // endpoint for telemetry ("stdout" writes to console)
	ProfilingPort      int    // port for profiling
	Provider           string // session data source (openf1, db)
	OpenF1URL          string // base URL of the OpenF1 API
	CacheKind          string // response cache backend (file, nats, none)
	CacheDir           string // directory for the file cache
	CacheTTL           string // lifetime of cached responses (0: no expiry)
	Addr               string // listen addr for the HTTP API
	ReferenceSeason    int    // season used for strategy and layout lookups
	CatalogFile        string // external catalog file (empty: embedded)
	MinClientVersion   string // minimum front end version (semver), empty disables the check
	TLSCertFile        string // path to TLS certificate
	TLSKeyFile         string // path to TLS key
)

const (
	ProviderOpenF1 = "openf1"
	ProviderDB     = "db"
)
