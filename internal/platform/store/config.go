package store

import "time"

// Config aggregates per backend configuration
type Config struct {
	PG  PGConfig
	RDS RedisConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot guard knobs; zero values take openPG's defaults
	ConnectRetries int           // ping attempts before Open gives up, default 6
	PingTimeout    time.Duration // per-attempt deadline, default 5s
}

// RedisConfig configures redis connectivity
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}
