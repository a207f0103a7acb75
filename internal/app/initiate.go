package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/samber/lo"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/quickcart/internal/identity"
	"github.com/shandysiswandi/quickcart/internal/pkg/authz"
	"github.com/shandysiswandi/quickcart/internal/pkg/clock"
	"github.com/shandysiswandi/quickcart/internal/pkg/config"
	"github.com/shandysiswandi/quickcart/internal/pkg/goroutine"
	"github.com/shandysiswandi/quickcart/internal/pkg/hash"
	"github.com/shandysiswandi/quickcart/internal/pkg/idempotency"
	"github.com/shandysiswandi/quickcart/internal/pkg/instrument"
	"github.com/shandysiswandi/quickcart/internal/pkg/jwt"
	"github.com/shandysiswandi/quickcart/internal/pkg/mail"
	"github.com/shandysiswandi/quickcart/internal/pkg/messaging"
	"github.com/shandysiswandi/quickcart/internal/pkg/migration"
	"github.com/shandysiswandi/quickcart/internal/pkg/otp"
	"github.com/shandysiswandi/quickcart/internal/pkg/ratelimit"
	"github.com/shandysiswandi/quickcart/internal/pkg/router"
	"github.com/shandysiswandi/quickcart/internal/pkg/storage"
	"github.com/shandysiswandi/quickcart/internal/pkg/uid"
	"github.com/shandysiswandi/quickcart/internal/pkg/validator"
)

const (
	minJWTSecretBytes = 32
	defaultConfigPath = "/config/config.yaml"
	pingTimeout       = 5 * time.Second
)

var requiredKeys = []string{
	"database.url",
	"redis.url",
	"jwt.secret",
	"hash.hmac.secret",
	"messaging.driver",
	"storage.driver",
}

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	switch {
	case path != "":
	case os.Getenv("LOCAL") == "true":
		path = "./config/config.yaml"
	default:
		path = defaultConfigPath
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		fatal("failed to init config", err, "path", path)
	}
	if err := cfg.Required(requiredKeys...); err != nil {
		fatal("incomplete config", err, "path", path)
	}
	if tz := cfg.GetString("app.tz"); tz != "" {
		//nolint:errcheck,gosec // only read by time on first use
		os.Setenv("TZ", tz)
	}

	a.config = cfg
	a.onClose("Config", func(context.Context) error { return cfg.Close() })
}

func (a *App) initInstrument() {
	c := a.config
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          c.GetBool("instrument.enabled"),
		ServiceName:      c.GetString("instrument.service_name"),
		ServiceVersion:   c.GetString("instrument.service_version"),
		Environment:      c.GetString("instrument.env"),
		OTLPEndpoint:     c.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       c.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: c.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  c.GetSecond("instrument.metric_interval_seconds"),
		LogLevel:         c.GetString("instrument.log_level"),
		MaskFields:       c.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		fatal("failed to init instrumentation", err)
	}

	a.ins = ins
	a.onClose("Instrument", ins.Shutdown)
}

func (a *App) initLibraries() {
	c := a.config

	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(c.GetInt("app.server.max_goroutine"))
	a.hmac = hash.NewHMACSHA256(c.GetString("hash.hmac.secret"))
	a.argon2id = hash.NewArgon2id(c.GetString("hash.argon2id.pepper"), c.GetInt("hash.argon2id.max_concurrent"))
	a.otp = otp.NewNumeric(c.GetInt("modules.identity.otp_digits"), c.GetMinute("modules.identity.otp_ttl_minutes"), a.clock)

	v, err := validator.NewV10Validator()
	if err != nil {
		fatal("failed to init validator", err)
	}
	a.validator = v

	snow, err := uid.NewSnowflake(c.GetInt64("app.node_id"))
	if err != nil {
		fatal("failed to init snowflake", err, "node_id", c.GetInt64("app.node_id"))
	}
	a.uid = snow
}

func (a *App) initJWT() {
	secret := strings.TrimSpace(a.config.GetString("jwt.secret"))
	if len(secret) < minJWTSecretBytes {
		fatal("jwt.secret is too short", errors.New("need at least 32 bytes"), "env", config.EnvPrefix+"_JWT_SECRET")
	}

	tokens, err := jwt.NewSymmetric(jwt.Config{
		Secret:    []byte(secret),
		Algorithm: a.config.GetString("jwt.algorithm"),
		Issuer:    a.config.GetString("jwt.issuer"),
		Audiences: a.config.GetArray("jwt.audiences"),
		TTL:       a.config.GetMinute("jwt.ttl_minutes"),
		Clock:     a.clock,
		UUID:      a.uuid,
	})
	if err != nil {
		fatal("failed to init jwt", err)
	}
	a.jwt = tokens
}

// waitReady retries fn on a capped Fibonacci backoff until the dependency
// answers or app.startup.max_retries is spent. Errors matching permanent
// stop at once.
func (a *App) waitReady(name string, fn func(ctx context.Context) error, permanent ...error) error {
	attempts := a.config.GetInt("app.startup.max_retries")
	if attempts <= 0 {
		attempts = 5
	}

	b := retry.NewFibonacci(500 * time.Millisecond)
	b = retry.WithMaxRetries(uint64(attempts), b)
	b = retry.WithCappedDuration(5*time.Second, b)

	return retry.Do(a.ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if lo.SomeBy(permanent, func(p error) bool { return errors.Is(err, p) }) {
			return err
		}
		slog.WarnContext(ctx, "dependency not ready, retrying", "dependency", name, "error", err)
		return retry.RetryableError(err)
	})
}

func (a *App) pingUntilReady(name string, ping func(ctx context.Context) error) error {
	return a.waitReady(name, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return ping(ctx)
	})
}

func (a *App) initDatabase() {
	cfg, err := pgxpool.ParseConfig(a.config.GetString("database.url"))
	if err != nil {
		fatal("failed to parse database url", err)
	}

	cfg.MaxConns = a.config.GetInt32("database.pool.max_conns")
	cfg.MinConns = a.config.GetInt32("database.pool.min_conns")
	cfg.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	cfg.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	cfg.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, cfg)
	if err != nil {
		fatal("failed to create database pool", err)
	}
	if err := a.pingUntilReady("postgres", pool.Ping); err != nil {
		fatal("database unreachable", err)
	}

	if a.config.GetBool("database.migrate") {
		if err := migration.Up(a.ctx, pool); err != nil {
			fatal("failed to migrate database", err)
		}
	}

	a.dbConn = pool
	a.onClose("Database", func(context.Context) error {
		pool.Close()
		return nil
	})
}

func (a *App) initCache() {
	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		fatal("failed to parse redis url", err)
	}

	rdb := redis.NewClient(opt)
	if err := a.pingUntilReady("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() }); err != nil {
		fatal("redis unreachable", err)
	}

	a.cacheConn = rdb
	a.limiter = ratelimit.NewFixedWindow(rdb, a.config.GetString("redis.prefix.ratelimit"))
	a.idemp = idempotency.New(rdb, a.config.GetString("redis.prefix.idempotency"))
	a.onClose("Redis", func(context.Context) error { return rdb.Close() })
}

func (a *App) initMail() {
	if strings.EqualFold(strings.TrimSpace(a.config.GetString("mail.driver")), "log") {
		a.mail = mail.NewLog(a.config.GetString("mail.from"))
	} else {
		smtp, err := mail.NewSMTP(mail.SMTPConfig{
			Host:     a.config.GetString("mail.host"),
			Port:     a.config.GetInt("mail.port"),
			Username: a.config.GetString("mail.username"),
			Password: a.config.GetString("mail.password"),
			From:     a.config.GetString("mail.from"),
			Timeout:  a.config.GetSecond("mail.timeout_seconds"),
		})
		if err != nil {
			fatal("failed to init mail", err)
		}
		a.mail = smtp
	}

	a.onClose("Mail", func(context.Context) error { return a.mail.Close() })
}

func (a *App) initStorage() {
	str := func(key string) string { return strings.TrimSpace(a.config.GetString(key)) }
	driver := str("storage.driver")

	stg, err := storage.NewFromDriver(a.ctx, driver, storage.FactoryOptions{
		S3: storage.S3Options{
			Region:       str("storage.s3.region"),
			Endpoint:     str("storage.s3.endpoint"),
			AccessKey:    str("storage.s3.access_key"),
			SecretKey:    str("storage.s3.secret_key"),
			UsePathStyle: a.config.GetBool("storage.s3.use_path_style"),
		},
		MinIO: storage.MinIOOptions{
			Region:    str("storage.minio.region"),
			Endpoint:  str("storage.minio.endpoint"),
			AccessKey: str("storage.minio.access_key"),
			SecretKey: str("storage.minio.secret_key"),
			UseSSL:    a.config.GetBool("storage.minio.use_ssl"),
		},
	})
	if err != nil {
		fatal("failed to init storage", err, "driver", driver)
	}

	a.storage = stg
	a.onClose("Storage", func(context.Context) error { return stg.Close() })
}

func (a *App) natsOptions() []nats.Option {
	c := a.config
	return []nats.Option{
		nats.Name(c.GetString("messaging.nats.name")),
		nats.MaxReconnects(c.GetInt("messaging.nats.max_reconnects")),
		nats.Timeout(c.GetSecond("messaging.nats.timeout_seconds")),
		nats.ReconnectWait(c.GetSecond("messaging.nats.reconnect_wait_seconds")),
		nats.PingInterval(c.GetSecond("messaging.nats.ping_interval_seconds")),
		nats.MaxPingsOutstanding(c.GetInt("messaging.nats.max_pings_outstanding")),
	}
}

func (a *App) initMessaging() {
	driver := a.config.GetString("messaging.driver")
	opts := messaging.FactoryOptions{
		Kafka: messaging.KafkaConfig{
			Brokers:      a.config.GetArray("messaging.kafka.brokers"),
			WriteTimeout: a.config.GetSecond("messaging.kafka.write_timeout_seconds"),
		},
		NATS: messaging.NATSConfig{
			URL:     a.config.GetString("messaging.nats.url"),
			Options: a.natsOptions(),
		},
	}

	err := a.waitReady("messaging", func(context.Context) error {
		client, err := messaging.NewFromDriver(driver, opts)
		if err != nil {
			return err
		}
		a.messaging = client
		return nil
	}, messaging.ErrUnknownDriver)
	if err != nil {
		fatal("failed to init messaging", err, "driver", driver)
	}

	a.onClose("Messaging", func(context.Context) error { return a.messaging.Close() })
}

func (a *App) initCasbin() {
	e, err := authz.NewEnforcer(a.config.GetArray("authz.policies"))
	if err != nil {
		fatal("failed to init casbin", err)
	}
	a.casbin = e
}

func (a *App) initHTTPServer() {
	public := map[string][]string{http.MethodGet: {"/health"}}
	for method, paths := range identity.PublicEndpoints {
		public[method] = lo.Uniq(append(public[method], paths...))
	}

	a.router = router.NewRouter(router.Config{
		Config:          a.config,
		UUID:            a.uuid,
		JWT:             a.jwt,
		Instrument:      a.ins,
		PublicEndpoints: public,
	})
	a.router.GET("/health", a.health)

	handler := cors.New(cors.Options{
		AllowedOrigins:   a.config.GetArray("app.server.cors"),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{router.HeaderCorrelationID, "Retry-After"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           handler,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}
