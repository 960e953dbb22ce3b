// Package container wires the application's services with samber/do.
//
// Each *Package function registers lazy providers; nothing connects to Redis or
// Postgres until a service that needs it is invoked.
package container

import (
	"time"

	"github.com/samber/do"
	"github.com/serroba/timequota/internal/quota"
)

// Counter store backends.
const (
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Options holds the server configuration, parsed by humacli from flags and SERVICE_* env vars.
type Options struct {
	Port            int    `default:"8888"           help:"Port to listen on"                                  short:"p"`
	RedisAddr       string `default:"localhost:6379" help:"Redis server address"                               short:"r"`
	DatabaseURL     string `default:""               help:"Postgres connection URL"                            short:"d"`
	Store           string `default:"redis"          help:"Counter store backend: redis, postgres or memory"   short:"s"`
	QuotaPerMinute  int64  `default:"10"             help:"Calls allowed per key per minute"                   short:"q"`
	AtomicAdmission bool   `default:"false"          help:"Make check and increment one atomic store step"`
	StoreTimeoutMs  int    `default:"0"              help:"Deadline for each counter store call, 0 disables"`
	Analytics       bool   `default:"true"           help:"Publish admission events to Redis streams"`
	LogFormat       string `default:"console"        help:"Log format: json or console"`
}

// StoreTimeout returns the per-call store deadline.
func (o *Options) StoreTimeout() time.Duration {
	return time.Duration(o.StoreTimeoutMs) * time.Millisecond
}

// trackerOptions translates configuration into tracker options.
func (o *Options) trackerOptions() []quota.Option {
	opts := []quota.Option{
		quota.WithLimit(o.QuotaPerMinute),
		quota.WithTimeout(o.StoreTimeout()),
	}

	if o.AtomicAdmission {
		opts = append(opts, quota.WithAtomicAdmission())
	}

	return opts
}

// Server registers everything the HTTP server needs.
func Server(injector *do.Injector, options *Options) {
	do.ProvideValue(injector, options)
	LoggerPackage(injector)
	RedisPackage(injector)
	PostgresPackage(injector)
	CounterStorePackage(injector)
	QuotaPackage(injector)
	PublisherGroupPackage(injector)
	HTTPPackage(injector)
}
